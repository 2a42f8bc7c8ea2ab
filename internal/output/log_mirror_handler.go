package output

import (
	"context"

	"go.uber.org/zap"

	"rds/internal/entity"
)

// LogMirrorHandler writes every progress line through a structured
// logger, tagged with the job id, so a job's output shows up alongside
// server logs rather than only in its own log files.
type LogMirrorHandler struct {
	logger *zap.Logger
}

var _ Handler = (*LogMirrorHandler)(nil)

// NewLogMirrorHandler returns a handler that logs through logger itself,
// adding a job_id field to each entry; every line is logged at Info level.
func NewLogMirrorHandler(logger *zap.Logger) *LogMirrorHandler {
	return &LogMirrorHandler{logger: logger}
}

func (h *LogMirrorHandler) OnJobStart(ctx context.Context, job entity.Job) error {
	h.logger.Info("job started", zap.String("job_id", job.UID.String()), zap.String("dataset", job.DatasetName))
	return nil
}

func (h *LogMirrorHandler) OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error {
	fields := []zap.Field{zap.String("job_id", job.UID.String())}
	if stdoutLine != "" {
		h.logger.Info(stdoutLine, append(fields, zap.String("stream", "stdout"))...)
	}
	if stderrLine != "" {
		h.logger.Info(stderrLine, append(fields, zap.String("stream", "stderr"))...)
	}
	return nil
}

func (h *LogMirrorHandler) OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error {
	h.logger.Info("job completed",
		zap.String("job_id", job.UID.String()),
		zap.Int("return_code", returnCode),
	)
	return nil
}
