package store

import "sync"

// RecordKind identifies which record table an event refers to
type RecordKind string

const (
	KindActivity  RecordKind = "activity"
	KindTimeEntry RecordKind = "time_entry"
	KindProject   RecordKind = "project"
)

// ChangeOp identifies the mutation that happened
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent describes a single record mutation in the store.
// The search core consumes these to keep its index and cache current.
type ChangeEvent struct {
	Kind RecordKind
	Op   ChangeOp
	ID   string
}

// Feed fans change events out to subscribers. Subscribers are invoked
// synchronously on the mutating goroutine, which keeps index updates
// serialized with the store's single writer.
type Feed struct {
	mu   sync.Mutex
	subs []func(ChangeEvent)
}

// Subscribe registers a listener for future change events.
func (f *Feed) Subscribe(fn func(ChangeEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

// Publish delivers an event to all subscribers.
func (f *Feed) Publish(ev ChangeEvent) {
	f.mu.Lock()
	subs := make([]func(ChangeEvent), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
