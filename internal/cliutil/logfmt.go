// Package cliutil holds presentation helpers shared by the CLI surfaces.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/crossrun/crossrun/internal/pool"
)

// LogRecord represents a structured run event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Task      string    `json:"task"`
	Event     string    `json:"event"`
	Message   string    `json:"msg,omitempty"`
	Duration  float64   `json:"duration_seconds,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// NewLogRecord converts a pool event into a structured log record.
func NewLogRecord(evt pool.Event) LogRecord {
	rec := LogRecord{
		Timestamp: evt.Timestamp,
		Task:      evt.Task,
		Event:     string(evt.Type),
		Message:   evt.Message,
	}
	if evt.Duration > 0 {
		rec.Duration = evt.Duration.Seconds()
	}
	if evt.Err != nil {
		rec.Error = evt.Err.Error()
	}
	return rec
}

// WriteEvents drains events until the channel closes, rendering each one
// to w. When pretty is set output is a human-oriented line per event;
// otherwise records are encoded as JSON lines.
func WriteEvents(w io.Writer, events <-chan pool.Event, pretty bool) error {
	encoder := json.NewEncoder(w)
	for evt := range events {
		if pretty {
			if _, err := fmt.Fprintln(w, prettyLine(evt)); err != nil {
				return err
			}
			continue
		}
		if err := encoder.Encode(NewLogRecord(evt)); err != nil {
			return err
		}
	}
	return nil
}

func prettyLine(evt pool.Event) string {
	stamp := evt.Timestamp.Format("15:04:05")
	switch evt.Type {
	case pool.EventTypeStarted:
		return fmt.Sprintf("[%s] RUN  %s", stamp, evt.Task)
	case pool.EventTypePassed:
		return fmt.Sprintf("[%s] PASS %s (%s)", stamp, evt.Task, formatDuration(evt.Duration))
	case pool.EventTypeTimeout:
		return fmt.Sprintf("[%s] TIME %s (%s)", stamp, evt.Task, formatDuration(evt.Duration))
	default:
		line := fmt.Sprintf("[%s] FAIL %s (%s)", stamp, evt.Task, formatDuration(evt.Duration))
		if evt.Message != "" {
			line += " " + evt.Message
		}
		return line
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
