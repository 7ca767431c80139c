package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// ResponseWatcher polls job offer responses, one cron entry per shipment. An
// entry removes itself once the shipment has a winner, and a shipment whose
// resolution is frozen in the book is never watched again.
type ResponseWatcher struct {
	handler  commands.TrackRiderResponsesCommandHandler
	book     *views.ResponseBook
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	entries   map[kernel.ID]cron.EntryID
	suspended bool
}

func NewResponseWatcher(
	handler commands.TrackRiderResponsesCommandHandler,
	book *views.ResponseBook,
	interval time.Duration,
	logger *slog.Logger,
) *ResponseWatcher {
	return &ResponseWatcher{
		handler:  handler,
		book:     book,
		interval: interval,
		timeout:  interval,
		logger:   logger.With("component", "response_watcher"),
		entries:  make(map[kernel.ID]cron.EntryID),
	}
}

// Name identifies the watcher in health reports.
func (w *ResponseWatcher) Name() string {
	return "responses"
}

// Start begins scheduling. Watches added before Start are not kept.
func (w *ResponseWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return nil
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.cron = newCron(w.logger)
	w.cron.Start()
	return nil
}

// Stop removes every watch and waits for runs in flight.
func (w *ResponseWatcher) Stop() {
	w.mu.Lock()
	c := w.cron
	if c == nil {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.cron = nil
	clear(w.entries)
	w.suspended = false
	w.mu.Unlock()

	<-c.Stop().Done()
}

// Sync watches every shipment still waiting for a rider, pending or freshly
// assigned without a frozen winner, and drops watches for the rest.
func (w *ResponseWatcher) Sync(held kernel.Snapshot[*shipment.Shipment]) {
	waiting := make(map[kernel.ID]struct{}, held.Len())
	for _, s := range held.Items() {
		if s.Status() != shipment.Pending && s.Status() != shipment.Assigned {
			continue
		}
		if w.book.Frozen(s.ID()) {
			continue
		}
		waiting[s.ID()] = struct{}{}
	}

	for _, id := range w.Watched() {
		if _, ok := waiting[id]; !ok {
			w.Unwatch(id)
		}
	}
	for id := range waiting {
		w.Watch(id)
	}
}

// Watch starts polling responses for the shipment if it is not watched already
// and the watcher is running.
func (w *ResponseWatcher) Watch(id kernel.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron == nil || w.suspended {
		return
	}
	if _, ok := w.entries[id]; ok {
		return
	}

	job := cron.NewChain(cron.SkipIfStillRunning(newCronLogger(w.logger))).Then(cron.FuncJob(func() {
		w.poll(id)
	}))
	w.entries[id] = w.cron.Schedule(cron.Every(w.interval), job)
	w.logger.Debug("Watching responses", "shipment_id", id)
}

// Unwatch stops polling responses for the shipment.
func (w *ResponseWatcher) Unwatch(id kernel.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entryID, ok := w.entries[id]
	if !ok {
		return
	}
	delete(w.entries, id)
	if w.cron != nil {
		w.cron.Remove(entryID)
	}
}

// Watched lists the shipments being polled.
func (w *ResponseWatcher) Watched() []kernel.ID {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]kernel.ID, 0, len(w.entries))
	for id := range w.entries {
		out = append(out, id)
	}
	return out
}

// Resume lets Sync add watches again after an authorization failure.
func (w *ResponseWatcher) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suspended = false
}

// Poll runs one response check for the shipment and reports whether it is settled.
func (w *ResponseWatcher) Poll(id kernel.ID) bool {
	return w.poll(id)
}

func (w *ResponseWatcher) poll(id kernel.ID) bool {
	w.mu.Lock()
	parent := w.ctx
	w.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	cmd, err := commands.NewTrackRiderResponsesCommand(id, time.Now())
	if err != nil {
		w.logger.ErrorContext(ctx, "Invalid response watch", "shipment_id", id, "error", err)
		w.Unwatch(id)
		return false
	}

	res, err := w.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
	case parent.Err() != nil:
		return false
	case errs.IsUnauthorized(err):
		w.logger.ErrorContext(ctx, "Response polling suspended, re-authentication required", "error", err)
		w.suspendAll()
		return false
	default:
		w.logger.WarnContext(ctx, "Response poll failed, retrying on next tick", "shipment_id", id, "error", err)
		return false
	}

	if res.StopPolling() {
		w.Unwatch(id)
		w.logger.InfoContext(ctx, "Rider accepted, response polling stopped",
			"shipment_id", id, "rider_id", res.Winner.RiderID())
		return true
	}
	return false
}

func (w *ResponseWatcher) suspendAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.suspended = true
	for id, entryID := range w.entries {
		if w.cron != nil {
			w.cron.Remove(entryID)
		}
		delete(w.entries, id)
	}
}
