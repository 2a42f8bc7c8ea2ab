package output

import (
	"context"
	"time"

	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/pubsub"
)

// EventBusHandler publishes a JobEvent to a job's own topic and to its
// owning datasite's aggregate topic on every lifecycle call, so a
// Data Scientist's client and a Data Owner's dashboard can subscribe
// for live status without polling the store.
type EventBusHandler struct {
	bus        pubsub.PubSub
	ownerEmail string
}

var _ Handler = (*EventBusHandler)(nil)

// NewEventBusHandler builds a handler that publishes through bus,
// tagging owner-scoped events with ownerEmail.
func NewEventBusHandler(bus pubsub.PubSub, ownerEmail string) *EventBusHandler {
	return &EventBusHandler{bus: bus, ownerEmail: ownerEmail}
}

func (h *EventBusHandler) publish(ctx context.Context, job entity.Job, ev pubsub.JobEvent) error {
	jobID := job.UID.String()
	if err := h.bus.Publish(ctx, pubsub.JobTopic(jobID), ev); err != nil {
		return err
	}
	return h.bus.Publish(ctx, pubsub.OwnerJobsTopic(h.ownerEmail), ev)
}

func (h *EventBusHandler) OnJobStart(ctx context.Context, job entity.Job) error {
	return h.publish(ctx, job, pubsub.JobEvent{
		Type:      pubsub.EventTypeJobStatus,
		JobID:     job.UID.String(),
		Status:    string(enum.JobStatusInProgress),
		Timestamp: time.Now(),
	})
}

func (h *EventBusHandler) OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error {
	phase := stdoutLine
	if phase == "" {
		phase = stderrLine
	}
	return h.publish(ctx, job, pubsub.JobEvent{
		Type:         pubsub.EventTypeJobProgress,
		JobID:        job.UID.String(),
		Status:       string(enum.JobStatusInProgress),
		CurrentPhase: phase,
		Timestamp:    time.Now(),
	})
}

func (h *EventBusHandler) OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error {
	status := enum.JobStatusRunFinished
	errMsg := ""
	if returnCode != 0 {
		status = enum.JobStatusRunFailed
		errMsg = "job exited with a non-zero return code"
	}
	return h.publish(ctx, job, pubsub.JobEvent{
		Type:      pubsub.EventTypeJobStatus,
		JobID:     job.UID.String(),
		Status:    string(status),
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}
