package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shopdispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Task is one reconciliation cycle. at is the tick time.
type Task func(ctx context.Context, at time.Time) error

// PollerConfig tunes a Poller.
type PollerConfig struct {
	Name     string
	Interval time.Duration
	// Timeout bounds one run; zero means Interval.
	Timeout time.Duration
	// StaleAfter is how long runs may keep failing before Health reports stale.
	StaleAfter time.Duration
	// Now stamps runs; nil means time.Now.
	Now func() time.Time
}

// Health is a poller's state as shown to the admin.
type Health struct {
	Name         string    `json:"name"`
	Running      bool      `json:"running"`
	Suspended    bool      `json:"suspended"`
	Stale        bool      `json:"stale"`
	LastSuccess  time.Time `json:"lastSuccess"`
	FailingSince time.Time `json:"failingSince,omitzero"`
	LastError    string    `json:"lastError,omitempty"`
}

// Poller runs a Task on a fixed interval. A run that is still going when the next
// tick fires makes that tick a no-op. Stopping cancels the run in flight.
type Poller struct {
	cfg    PollerConfig
	task   Task
	now    func() time.Time
	logger *slog.Logger

	mu           sync.Mutex
	cron         *cron.Cron
	job          cron.Job
	ctx          context.Context
	cancel       context.CancelFunc
	running      bool
	suspended    bool
	lastSuccess  time.Time
	failingSince time.Time
	lastErr      error
	inflight     sync.WaitGroup
}

func NewPoller(cfg PollerConfig, task Task, logger *slog.Logger) *Poller {
	if cfg.Timeout <= 0 || cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	p := &Poller{
		cfg:    cfg,
		task:   task,
		now:    cfg.Now,
		logger: logger.With("component", "poller", "domain", cfg.Name),
	}
	p.job = cron.NewChain(cron.SkipIfStillRunning(newCronLogger(p.logger))).Then(cron.FuncJob(p.run))
	return p
}

// Name returns the poller's domain name.
func (p *Poller) Name() string {
	return p.cfg.Name
}

// Start schedules the task and runs it once right away.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	c := newCron(p.logger)
	c.Schedule(cron.Every(p.cfg.Interval), p.job)

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.cron = c
	p.running = true
	c.Start()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.job.Run()
	}()

	p.logger.Info("Poller started", "interval", p.cfg.Interval)
	return nil
}

// Stop cancels the run in flight and waits for it to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	c := p.cron
	p.mu.Unlock()

	<-c.Stop().Done()
	p.inflight.Wait()
	p.logger.Info("Poller stopped")
}

// RunOnce runs the task now, unless a run is already in progress.
func (p *Poller) RunOnce() {
	p.job.Run()
}

// Resume lifts an authorization suspension. The next tick polls again.
func (p *Poller) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.suspended {
		p.suspended = false
		p.logger.Info("Poller resumed")
	}
}

// Health reports the poller's state.
func (p *Poller) Health() Health {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := Health{
		Name:         p.cfg.Name,
		Running:      p.running,
		Suspended:    p.suspended,
		LastSuccess:  p.lastSuccess,
		FailingSince: p.failingSince,
	}
	if p.lastErr != nil {
		h.LastError = p.lastErr.Error()
	}
	if !p.failingSince.IsZero() && p.cfg.StaleAfter > 0 {
		h.Stale = p.now().Sub(p.failingSince) > p.cfg.StaleAfter
	}
	return h
}

func (p *Poller) run() {
	p.mu.Lock()
	if p.suspended {
		p.mu.Unlock()
		return
	}
	parent := p.ctx
	if parent == nil {
		parent = context.Background()
	}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, p.cfg.Timeout)
	defer cancel()

	at := p.now()
	err := p.task(ctx, at)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errs.IsTransient(err) {
		err = errs.NewTransientError(p.cfg.Name+" poll timed out", err)
	}

	p.record(ctx, parent, at, err)
}

func (p *Poller) record(ctx, parent context.Context, at time.Time, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case err == nil:
		p.lastSuccess = at
		p.failingSince = time.Time{}
		p.lastErr = nil

	case parent.Err() != nil:
		// stopped while running; the outcome belongs to nobody

	case errs.IsUnauthorized(err):
		p.suspended = true
		p.lastErr = err
		p.markFailing(at)
		p.logger.ErrorContext(ctx, "Polling suspended, re-authentication required", "error", err)

	default:
		p.lastErr = err
		p.markFailing(at)
		p.logger.WarnContext(ctx, "Poll failed, retrying on next tick",
			"error", err, "transient", errs.IsTransient(err), "failing_since", p.failingSince)
	}
}

func (p *Poller) markFailing(at time.Time) {
	if p.failingSince.IsZero() {
		p.failingSince = at
	}
}
