package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"rds/internal/entity"
)

// FileHandler is the default sink: it appends every progress line to
// <baseDir>/jobs/<uid>/logs/stdout.log and stderr.log, the same
// per-job tree a JobRunner prepares before execution, so a Data
// Scientist's get_logs call reads back exactly what this handler
// wrote.
type FileHandler struct {
	baseDir string

	mu   sync.Mutex
	open map[uuid.UUID]*jobLogFiles
}

type jobLogFiles struct {
	stdout *os.File
	stderr *os.File
}

var _ Handler = (*FileHandler)(nil)

// NewFileHandler returns a handler rooted at baseDir, the same
// directory a JobRunner lays its per-job working tree under.
func NewFileHandler(baseDir string) *FileHandler {
	return &FileHandler{baseDir: baseDir, open: map[uuid.UUID]*jobLogFiles{}}
}

func (h *FileHandler) logsDir(jobID uuid.UUID) string {
	return filepath.Join(h.baseDir, "jobs", jobID.String(), "logs")
}

func (h *FileHandler) filesFor(jobID uuid.UUID) (*jobLogFiles, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if f, ok := h.open[jobID]; ok {
		return f, nil
	}

	dir := h.logsDir(jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output: creating logs dir %s: %w", dir, err)
	}
	stdout, err := os.OpenFile(filepath.Join(dir, "stdout.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("output: opening stdout.log: %w", err)
	}
	stderr, err := os.OpenFile(filepath.Join(dir, "stderr.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("output: opening stderr.log: %w", err)
	}

	f := &jobLogFiles{stdout: stdout, stderr: stderr}
	h.open[jobID] = f
	return f, nil
}

func (h *FileHandler) OnJobStart(ctx context.Context, job entity.Job) error {
	_, err := h.filesFor(job.UID)
	return err
}

func (h *FileHandler) OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error {
	f, err := h.filesFor(job.UID)
	if err != nil {
		return err
	}
	if stdoutLine != "" {
		fmt.Fprintln(f.stdout, stdoutLine)
	}
	if stderrLine != "" {
		fmt.Fprintln(f.stderr, stderrLine)
	}
	return nil
}

func (h *FileHandler) OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, ok := h.open[job.UID]
	if !ok {
		return nil
	}
	delete(h.open, job.UID)
	f.stdout.Close()
	f.stderr.Close()
	return nil
}
