package output

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"rds/internal/entity"
)

func TestLogMirrorHandlerLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	h := NewLogMirrorHandler(logger)

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}, DatasetName: "iris"}

	assert.NoError(t, h.OnJobStart(context.Background(), job))
	assert.NoError(t, h.OnJobProgress(context.Background(), job, "stdout line", ""))
	assert.NoError(t, h.OnJobProgress(context.Background(), job, "", "stderr line"))
	assert.NoError(t, h.OnJobCompletion(context.Background(), job, 1))

	messages := make([]string, 0)
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "job started")
	assert.Contains(t, messages, "stdout line")
	assert.Contains(t, messages, "stderr line")
	assert.Contains(t, messages, "job completed")
}

func TestLogMirrorHandlerProgressSkipsEmptyLines(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	h := NewLogMirrorHandler(logger)

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	assert.NoError(t, h.OnJobProgress(context.Background(), job, "", ""))
	assert.Equal(t, 0, logs.Len())
}
