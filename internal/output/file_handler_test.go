package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/entity"
)

func TestFileHandlerLifecycle(t *testing.T) {
	base := t.TempDir()
	h := NewFileHandler(base)
	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}

	require.NoError(t, h.OnJobStart(context.Background(), job))
	require.NoError(t, h.OnJobProgress(context.Background(), job, "hello stdout", ""))
	require.NoError(t, h.OnJobProgress(context.Background(), job, "", "hello stderr"))
	require.NoError(t, h.OnJobCompletion(context.Background(), job, 0))

	logsDir := filepath.Join(base, "jobs", job.UID.String(), "logs")
	stdout, err := os.ReadFile(filepath.Join(logsDir, "stdout.log"))
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "hello stdout")

	stderr, err := os.ReadFile(filepath.Join(logsDir, "stderr.log"))
	require.NoError(t, err)
	assert.Contains(t, string(stderr), "hello stderr")

	h.mu.Lock()
	_, stillOpen := h.open[job.UID]
	h.mu.Unlock()
	assert.False(t, stillOpen)
}

func TestFileHandlerCompletionWithoutStartIsNoop(t *testing.T) {
	h := NewFileHandler(t.TempDir())
	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}

	assert.NoError(t, h.OnJobCompletion(context.Background(), job, 0))
}

func TestFileHandlerProgressReopensAfterCompletion(t *testing.T) {
	base := t.TempDir()
	h := NewFileHandler(base)
	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}

	require.NoError(t, h.OnJobStart(context.Background(), job))
	require.NoError(t, h.OnJobCompletion(context.Background(), job, 0))
	require.NoError(t, h.OnJobProgress(context.Background(), job, "late line", ""))

	logsDir := filepath.Join(base, "jobs", job.UID.String(), "logs")
	stdout, err := os.ReadFile(filepath.Join(logsDir, "stdout.log"))
	require.NoError(t, err)
	assert.Contains(t, string(stdout), "late line")
}
