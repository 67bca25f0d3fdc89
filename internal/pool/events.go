package pool

import "time"

// EventType captures the progress notifications emitted while a run
// executes.
type EventType string

const (
	EventTypeStarted EventType = "started"
	EventTypePassed  EventType = "passed"
	EventTypeFailed  EventType = "failed"
	EventTypeTimeout EventType = "timeout"
)

// Event is a single progress notification for one task.
type Event struct {
	Timestamp time.Time
	Task      string
	Type      EventType
	Message   string
	Duration  time.Duration
	Err       error
}
