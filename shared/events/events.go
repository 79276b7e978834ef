package events

import "time"

// Event types
const (
	DatasetSeeded = "dataset.seeded"
)

// Stream names
const (
	DatasetEventsStream = "dataset.events"
)

// Event is the envelope stored in every stream entry.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// DatasetSeededEvent is published once the seed dataset has been written to
// the store.
type DatasetSeededEvent struct {
	Source   string `json:"source"`
	Inserted int    `json:"inserted"`
}
