// Package timeline reconstructs a single chronological view of a request
// from the creation record, the status log and the assignment log.
package timeline

import (
	"iter"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the source stream of an event.
type Kind string

const (
	KindCreated    Kind = "created"
	KindStatus     Kind = "status"
	KindAssignment Kind = "assignment"
)

// streamPriority breaks exact ties: creation before status before assignment.
var streamPriority = map[Kind]int{
	KindCreated:    0,
	KindStatus:     1,
	KindAssignment: 2,
}

// Actor is a display identity resolved at read time, never denormalized onto
// the stored rows.
type Actor struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// Event is one entry of the merged timeline.
type Event struct {
	Kind      Kind      `json:"kind"`
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Actor     Actor     `json:"actor"`
	Assignee  *Actor    `json:"assignee,omitempty"`
	Status    string    `json:"status,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// Timeline is the merged, ordered event sequence for one request.
type Timeline struct {
	RequestID uuid.UUID `json:"request_id"`
	Events    []Event   `json:"events"`
}

// All returns a restartable iterator over the merged events in order.
func (t *Timeline) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range t.Events {
			if !yield(e) {
				return
			}
		}
	}
}

// merge orders events by per-request seq; for equal seqs (rows written before
// seq numbering existed carry 0) it falls back to timestamp, then stream
// priority, then each stream's insertion order. The input must be built
// creation first, then statuses, then assignments, each in insertion order,
// so the stable sort preserves per-stream order on full ties.
func merge(events []Event) []Event {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return streamPriority[a.Kind] < streamPriority[b.Kind]
	})
	return events
}
