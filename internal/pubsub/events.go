package pubsub

import "time"

// EventType identifies the type of event for type switches.
type EventType string

const (
	EventTypeJobStatus    EventType = "job_status"
	EventTypeJobProgress  EventType = "job_progress"
	EventTypeDatasetEvent EventType = "dataset_event"
)

// JobEvent represents a job status change or progress update, emitted
// by internal/output.EventBusHandler as a job runs.
type JobEvent struct {
	Type         EventType `json:"type"`
	JobID        string    `json:"job_id"`
	Status       string    `json:"status"` // enum.JobStatus value
	Progress     float64   `json:"progress,omitempty"`
	CurrentPhase string    `json:"current_phase,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// DatasetEvent represents a dataset being published or removed.
type DatasetEvent struct {
	Type      EventType `json:"type"`
	DatasetID string    `json:"dataset_id"`
	Name      string    `json:"name"`
	Action    string    `json:"action"` // "published" | "deleted"
	Timestamp time.Time `json:"timestamp"`
}
