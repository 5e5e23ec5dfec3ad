package capture

import (
	"sync"
	"time"
)

// Trigger identifies the lifecycle event that produced a capture.
type Trigger string

const (
	// TriggerDisplay is a figure reaching the display entry point.
	TriggerDisplay Trigger = "display"
	// TriggerClose is an explicit close of one figure.
	TriggerClose Trigger = "close"
	// TriggerCloseAll is a bulk close of every open figure.
	TriggerCloseAll Trigger = "close_all"
	// TriggerFinal is the end-of-run backstop pass.
	TriggerFinal Trigger = "final"
)

// Event records one capture attempt. Err is nil on success; a failed
// capture is an ordinary journal entry, never a propagated error.
type Event struct {
	Seq     int       `json:"seq"`
	Figure  int       `json:"figure"`
	Trigger Trigger   `json:"trigger"`
	Path    string    `json:"path"`
	Err     error     `json:"-"`
	At      time.Time `json:"at"`
}

// Journal is the ordered record of every capture attempt in a run.
type Journal struct {
	mu     sync.Mutex
	events []Event
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append records an event.
func (j *Journal) Append(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
}

// Events returns a copy of all recorded events in capture order.
func (j *Journal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Len returns the number of recorded capture attempts.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// Failed returns the number of capture attempts that failed.
func (j *Journal) Failed() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.events {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded returns the number of capture attempts that wrote a file.
func (j *Journal) Succeeded() int {
	return j.Len() - j.Failed()
}
