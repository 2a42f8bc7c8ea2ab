package output

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/pubsub"
)

func drainOne(t *testing.T, ch <-chan []byte) pubsub.JobEvent {
	t.Helper()
	select {
	case raw := <-ch:
		var ev pubsub.JobEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return pubsub.JobEvent{}
	}
}

func TestEventBusHandlerOnJobStart(t *testing.T) {
	bus := pubsub.NewMemoryPubSub()
	defer bus.Close()
	h := NewEventBusHandler(bus, "owner@example.com")

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	jobCh, jobCancel := bus.Subscribe(context.Background(), pubsub.JobTopic(job.UID.String()))
	defer jobCancel()
	ownerCh, ownerCancel := bus.Subscribe(context.Background(), pubsub.OwnerJobsTopic("owner@example.com"))
	defer ownerCancel()

	require.NoError(t, h.OnJobStart(context.Background(), job))

	ev := drainOne(t, jobCh)
	require.Equal(t, pubsub.EventTypeJobStatus, ev.Type)
	require.Equal(t, string(enum.JobStatusInProgress), ev.Status)

	ownerEv := drainOne(t, ownerCh)
	require.Equal(t, job.UID.String(), ownerEv.JobID)
}

func TestEventBusHandlerOnJobCompletionSuccess(t *testing.T) {
	bus := pubsub.NewMemoryPubSub()
	defer bus.Close()
	h := NewEventBusHandler(bus, "owner@example.com")

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	jobCh, cancel := bus.Subscribe(context.Background(), pubsub.JobTopic(job.UID.String()))
	defer cancel()

	require.NoError(t, h.OnJobCompletion(context.Background(), job, 0))

	ev := drainOne(t, jobCh)
	require.Equal(t, string(enum.JobStatusRunFinished), ev.Status)
	require.Empty(t, ev.Error)
}

func TestEventBusHandlerOnJobCompletionFailure(t *testing.T) {
	bus := pubsub.NewMemoryPubSub()
	defer bus.Close()
	h := NewEventBusHandler(bus, "owner@example.com")

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	jobCh, cancel := bus.Subscribe(context.Background(), pubsub.JobTopic(job.UID.String()))
	defer cancel()

	require.NoError(t, h.OnJobCompletion(context.Background(), job, 1))

	ev := drainOne(t, jobCh)
	require.Equal(t, string(enum.JobStatusRunFailed), ev.Status)
	require.NotEmpty(t, ev.Error)
}

func TestEventBusHandlerOnJobProgressPhase(t *testing.T) {
	bus := pubsub.NewMemoryPubSub()
	defer bus.Close()
	h := NewEventBusHandler(bus, "owner@example.com")

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	jobCh, cancel := bus.Subscribe(context.Background(), pubsub.JobTopic(job.UID.String()))
	defer cancel()

	require.NoError(t, h.OnJobProgress(context.Background(), job, "", "stderr phase"))

	ev := drainOne(t, jobCh)
	require.Equal(t, pubsub.EventTypeJobProgress, ev.Type)
	require.Equal(t, "stderr phase", ev.CurrentPhase)
}
