package kernel

import "time"

// Snapshot is an immutable, ordered listing of records fetched from the external
// store at one instant. The zero value is an empty snapshot that was never fetched.
type Snapshot[T any] struct {
	items     []T
	fetchedAt time.Time
}

// NewSnapshot copies items so later changes to the caller's slice cannot leak in.
func NewSnapshot[T any](items []T, fetchedAt time.Time) Snapshot[T] {
	cp := make([]T, len(items))
	copy(cp, items)

	return Snapshot[T]{items: cp, fetchedAt: fetchedAt}
}

// Items returns a copy of the records in fetch order.
func (s Snapshot[T]) Items() []T {
	cp := make([]T, len(s.items))
	copy(cp, s.items)
	return cp
}

// Len returns the number of records.
func (s Snapshot[T]) Len() int {
	return len(s.items)
}

// At returns the i-th record in fetch order.
func (s Snapshot[T]) At(i int) T {
	return s.items[i]
}

// FetchedAt returns when the snapshot was taken.
func (s Snapshot[T]) FetchedAt() time.Time {
	return s.fetchedAt
}

// IsZero reports whether the snapshot was never fetched.
func (s Snapshot[T]) IsZero() bool {
	return s.fetchedAt.IsZero() && len(s.items) == 0
}
