package views

import (
	"sync"

	"shopdispatch/internal/core/domain/model/notification"
)

// DefaultFeedSize bounds the feed when no size is configured.
const DefaultFeedSize = 500

// FeedEntry is a notification with its position in the feed.
type FeedEntry struct {
	Seq          uint64
	Notification *notification.Notification
}

// NotificationFeed keeps the most recent notifications in arrival order. Every
// entry gets a sequence number, starting at 1, that readers pass back as a cursor.
type NotificationFeed struct {
	mu      sync.RWMutex
	size    int
	entries []FeedEntry
	lastSeq uint64
}

func NewNotificationFeed(size int) *NotificationFeed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &NotificationFeed{size: size, entries: make([]FeedEntry, 0, size)}
}

// Append adds notifications in order, evicting the oldest past the size bound.
func (f *NotificationFeed) Append(ns ...*notification.Notification) {
	if len(ns) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range ns {
		f.lastSeq++
		f.entries = append(f.entries, FeedEntry{Seq: f.lastSeq, Notification: n})
	}

	if over := len(f.entries) - f.size; over > 0 {
		f.entries = append(f.entries[:0:0], f.entries[over:]...)
	}
}

// After returns up to limit entries with a sequence number greater than cursor,
// oldest first. A limit of zero or less returns everything available.
func (f *NotificationFeed) After(cursor uint64, limit int) []FeedEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]FeedEntry, 0)
	for _, e := range f.entries {
		if e.Seq <= cursor {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// LastSeq returns the sequence number of the newest entry ever appended.
func (f *NotificationFeed) LastSeq() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastSeq
}
