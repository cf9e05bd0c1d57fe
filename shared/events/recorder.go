// Package events provides an injected sink for structured workflow events.
// It keeps the last N events in memory, newest first, and is safe for
// concurrent use. State is not persisted; a restart starts empty.
package events

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Type categorizes an event for filtering and display.
type Type string

const (
	TypeProcessing Type = "processing"
	TypeSearch     Type = "search"
	TypeSuccess    Type = "success"
	TypeUpload     Type = "upload"
	TypeTrigger    Type = "trigger"
	TypeClip       Type = "clip"
	TypeError      Type = "error"
	TypeComplete   Type = "complete"
)

// Event is one recorded workflow event.
type Event struct {
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Filter narrows the events returned by a query. Zero values match all.
type Filter struct {
	RunID string
	Type  Type
	Limit int
}

// Recorder is a capped ring buffer of recent events.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
	cap    int
}

// DefaultCapacity is the number of events kept when none is specified.
const DefaultCapacity = 500

// NewRecorder creates a recorder keeping at most capacity events.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{cap: capacity}
}

// Record adds an event and mirrors it to the process log.
func (r *Recorder) Record(eventType Type, runID, format string, args ...interface{}) Event {
	event := Event{
		Message:   fmt.Sprintf(format, args...),
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	r.events = append([]Event{event}, r.events...)
	if len(r.events) > r.cap {
		r.events = r.events[:r.cap]
	}
	r.mu.Unlock()

	log.Printf("[%s] %s", event.Type, event.Message)
	return event
}

// Events returns recent events matching the filter, newest first.
func (r *Recorder) Events(f Filter) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []Event
	for _, e := range r.events {
		if f.RunID != "" && e.RunID != f.RunID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Clear drops all buffered events.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
