package views

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
)

// ErrBoardClosed is returned by merges after Close.
var ErrBoardClosed = errors.New("position board is closed")

type positions map[kernel.ID]*rider.LivePosition

type mergeOp struct {
	records []*rider.LivePosition
	push    bool
	done    chan struct{}
}

// PositionBoard merges polled rider snapshots and pushed single-rider updates
// into one map keyed by rider id.
//
// A single goroutine owns the map. Merges are sent to it over a channel and
// every merge publishes a fresh immutable copy that readers load atomically.
//
// Merge rules:
//   - the record with the later UpdatedAt wins; on a tie the held record stays
//   - a pushed record without UpdatedAt is newer than anything held
//   - a polled record without UpdatedAt only fills a missing rider
//   - riders missing from a poll stay on the board
type PositionBoard struct {
	ops     chan mergeOp
	current atomic.Pointer[positions]
	now     func() time.Time

	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPositionBoard starts the board's writer goroutine. Call Close to stop it.
func NewPositionBoard(now func() time.Time) *PositionBoard {
	if now == nil {
		now = time.Now
	}

	b := &PositionBoard{
		ops:     make(chan mergeOp),
		now:     now,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	empty := positions{}
	b.current.Store(&empty)

	go b.run()
	return b
}

// MergePoll folds a polled snapshot into the board and waits until readers can see it.
func (b *PositionBoard) MergePoll(ctx context.Context, records []*rider.LivePosition) error {
	return b.send(ctx, mergeOp{records: records})
}

// MergePush folds one pushed update into the board and waits until readers can see it.
func (b *PositionBoard) MergePush(ctx context.Context, p *rider.LivePosition) error {
	return b.send(ctx, mergeOp{records: []*rider.LivePosition{p}, push: true})
}

func (b *PositionBoard) send(ctx context.Context, op mergeOp) error {
	op.done = make(chan struct{})

	select {
	case b.ops <- op:
	case <-b.quit:
		return ErrBoardClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-op.done:
		return nil
	case <-b.stopped:
		return ErrBoardClosed
	}
}

func (b *PositionBoard) run() {
	defer close(b.stopped)

	for {
		select {
		case <-b.quit:
			return
		case op := <-b.ops:
			b.apply(op)
			close(op.done)
		}
	}
}

func (b *PositionBoard) apply(op mergeOp) {
	held := *b.current.Load()
	next := make(positions, len(held)+len(op.records))
	for id, p := range held {
		next[id] = p
	}

	for _, p := range op.records {
		if p == nil {
			continue
		}
		if merged, ok := b.merge(next[p.RiderID()], p, op.push); ok {
			next[p.RiderID()] = merged
		}
	}

	b.current.Store(&next)
}

func (b *PositionBoard) merge(held, incoming *rider.LivePosition, push bool) (*rider.LivePosition, bool) {
	if !incoming.HasTimestamp() {
		switch {
		case push:
			stamp := b.now()
			if held != nil && !stamp.After(held.UpdatedAt()) {
				stamp = held.UpdatedAt().Add(time.Nanosecond)
			}
			return incoming.Stamped(stamp), true
		case held == nil:
			return incoming, true
		default:
			return nil, false
		}
	}

	if held == nil || incoming.UpdatedAt().After(held.UpdatedAt()) {
		return incoming, true
	}
	return nil, false
}

// Get returns the rider's merged position.
func (b *PositionBoard) Get(riderID kernel.ID) (*rider.LivePosition, bool) {
	p, ok := (*b.current.Load())[riderID]
	return p, ok
}

// Positions returns every rider's merged position ordered by rider id.
func (b *PositionBoard) Positions() []*rider.LivePosition {
	held := *b.current.Load()
	out := make([]*rider.LivePosition, 0, len(held))
	for _, p := range held {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, c *rider.LivePosition) int {
		return strings.Compare(a.RiderID().String(), c.RiderID().String())
	})
	return out
}

// Len returns the number of riders on the board.
func (b *PositionBoard) Len() int {
	return len(*b.current.Load())
}

// Close stops the writer goroutine. Reads keep returning the last published board.
func (b *PositionBoard) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	<-b.stopped
}
