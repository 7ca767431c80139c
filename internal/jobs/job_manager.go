package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"shopdispatch/internal/pkg/errs"
)

// Domain names a group of loops opened and closed together.
type Domain string

const (
	DomainShipments Domain = "shipments"
	DomainIssues    Domain = "issues"
	DomainRiders    Domain = "riders"
)

// Job is a loop the manager can start and stop.
type Job interface {
	Name() string
	Start() error
	Stop()
}

type healthReporter interface {
	Health() Health
}

type resumer interface {
	Resume()
}

type domainJobs struct {
	jobs    []Job
	onClose func()
	open    bool
}

// DomainHealth reports one domain.
type DomainHealth struct {
	Domain Domain   `json:"domain"`
	Open   bool     `json:"open"`
	Stale  bool     `json:"stale"`
	Jobs   []Health `json:"jobs"`
}

// JobManager coordinates the loops of every domain. Domains are independent:
// opening, closing or failing one never touches another.
type JobManager struct {
	mu      sync.Mutex
	domains map[Domain]*domainJobs
	logger  *slog.Logger
}

func NewJobManager(logger *slog.Logger) *JobManager {
	return &JobManager{
		domains: make(map[Domain]*domainJobs),
		logger:  logger.With("component", "job_manager"),
	}
}

// Register adds jobs to a domain. Jobs start in the order given and stop in reverse.
func (jm *JobManager) Register(domain Domain, jobs ...Job) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	d := jm.domain(domain)
	d.jobs = append(d.jobs, jobs...)
}

// OnClose sets a hook run after a domain's jobs stopped, used to drop the
// domain's view so that reopening starts from a fresh baseline.
func (jm *JobManager) OnClose(domain Domain, hook func()) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	jm.domain(domain).onClose = hook
}

func (jm *JobManager) domain(domain Domain) *domainJobs {
	d, ok := jm.domains[domain]
	if !ok {
		d = &domainJobs{}
		jm.domains[domain] = d
	}
	return d
}

// Open starts the domain's jobs. If one fails to start, the ones already
// started are stopped again.
func (jm *JobManager) Open(domain Domain) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	d, ok := jm.domains[domain]
	if !ok {
		return errs.NewObjectNotFoundError("domain", domain)
	}
	if d.open {
		return nil
	}

	for i, job := range d.jobs {
		if err := job.Start(); err != nil {
			for _, started := range slices.Backward(d.jobs[:i]) {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job %s: %w", domain, job.Name(), err)
		}
	}

	d.open = true
	jm.logger.Info("Domain opened", "domain", domain)
	return nil
}

// Close stops the domain's jobs and runs its close hook.
func (jm *JobManager) Close(domain Domain) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	d, ok := jm.domains[domain]
	if !ok {
		return errs.NewObjectNotFoundError("domain", domain)
	}
	jm.closeLocked(domain, d)
	return nil
}

func (jm *JobManager) closeLocked(domain Domain, d *domainJobs) {
	if !d.open {
		return
	}

	for _, job := range slices.Backward(d.jobs) {
		job.Stop()
	}
	if d.onClose != nil {
		d.onClose()
	}

	d.open = false
	jm.logger.Info("Domain closed", "domain", domain)
}

// Resume lifts authorization suspensions in the domain.
func (jm *JobManager) Resume(domain Domain) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	d, ok := jm.domains[domain]
	if !ok {
		return errs.NewObjectNotFoundError("domain", domain)
	}
	for _, job := range d.jobs {
		if r, ok := job.(resumer); ok {
			r.Resume()
		}
	}
	return nil
}

// StartAll opens every registered domain. Each domain is independent, so a
// failure opening one does not stop the others from opening.
func (jm *JobManager) StartAll() error {
	var all []error
	for _, domain := range jm.Domains() {
		if err := jm.Open(domain); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

// StopAll closes every domain.
func (jm *JobManager) StopAll() {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	for domain, d := range jm.domains {
		jm.closeLocked(domain, d)
	}
}

// Domains lists the registered domains in name order.
func (jm *JobManager) Domains() []Domain {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	out := make([]Domain, 0, len(jm.domains))
	for d := range jm.domains {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Health reports one domain.
func (jm *JobManager) Health(domain Domain) (DomainHealth, error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	d, ok := jm.domains[domain]
	if !ok {
		return DomainHealth{}, errs.NewObjectNotFoundError("domain", domain)
	}

	h := DomainHealth{Domain: domain, Open: d.open, Jobs: make([]Health, 0, len(d.jobs))}
	for _, job := range d.jobs {
		jh := Health{Name: job.Name(), Running: d.open}
		if r, ok := job.(healthReporter); ok {
			jh = r.Health()
		}
		h.Stale = h.Stale || jh.Stale
		h.Jobs = append(h.Jobs, jh)
	}
	return h, nil
}
