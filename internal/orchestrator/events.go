package orchestrator

import "fmt"

// RoundStatus is the state of one backend within an orchestration round.
type RoundStatus string

const (
	StatusDispatched RoundStatus = "dispatched"
	StatusSucceeded  RoundStatus = "succeeded"
	StatusFailed     RoundStatus = "failed"
	StatusSkipped    RoundStatus = "skipped"
)

// RoundEvent describes one backend's progress within a round. Events are
// delivered to the observer registered with WithObserver.
type RoundEvent struct {
	Round   string // round correlation id
	Op      string // OpFetch or OpUpdate
	Backend int    // backend index in the orchestrator's list
	Status  RoundStatus
	Message string // error text for StatusFailed, empty otherwise
}

// Reporter buffers round events behind a channel so a consumer can watch
// rounds without slowing dispatch down.
type Reporter struct {
	ch chan RoundEvent
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{
		ch: make(chan RoundEvent, 64),
	}
}

// Emit sends an event in a non-blocking fashion. If the channel is full,
// the event is silently dropped.
func (r *Reporter) Emit(event RoundEvent) {
	select {
	case r.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming round events.
func (r *Reporter) Subscribe() <-chan RoundEvent {
	return r.ch
}

// Close closes the event channel.
func (r *Reporter) Close() {
	close(r.ch)
}

// FormatEvent formats a RoundEvent as a human-readable status line.
func FormatEvent(event RoundEvent) string {
	switch event.Status {
	case StatusDispatched:
		return fmt.Sprintf("  ○ backend %d %s dispatched", event.Backend, event.Op)
	case StatusSucceeded:
		return fmt.Sprintf("  ✓ backend %d %s succeeded", event.Backend, event.Op)
	case StatusFailed:
		return fmt.Sprintf("  ✗ backend %d %s failed: %s", event.Backend, event.Op, event.Message)
	case StatusSkipped:
		return fmt.Sprintf("  - backend %d skipped (no %s capability)", event.Backend, event.Op)
	default:
		return fmt.Sprintf("  ? backend %d (unknown status)", event.Backend)
	}
}
