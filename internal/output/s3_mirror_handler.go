package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"rds/internal/entity"
	"rds/internal/s3"
)

// S3MirrorHandler uploads a finished job's output directory as a
// tar.gz object once the job completes successfully, so a Data
// Scientist whose client runs outside the Data Owner's filesystem can
// still retrieve results via a presigned URL. It is a no-op on
// OnJobStart/OnJobProgress and only wired in when S3 is configured.
type S3MirrorHandler struct {
	client  *s3.Client
	baseDir string
	logger  *zap.Logger
}

var _ Handler = (*S3MirrorHandler)(nil)

// NewS3MirrorHandler builds a handler that mirrors
// <baseDir>/jobs/<uid>/output through client.
func NewS3MirrorHandler(client *s3.Client, baseDir string, logger *zap.Logger) *S3MirrorHandler {
	return &S3MirrorHandler{client: client, baseDir: baseDir, logger: logger}
}

func (h *S3MirrorHandler) OnJobStart(ctx context.Context, job entity.Job) error { return nil }

func (h *S3MirrorHandler) OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error {
	return nil
}

func (h *S3MirrorHandler) OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error {
	if returnCode != 0 {
		return nil
	}

	outputDir := filepath.Join(h.baseDir, "jobs", job.UID.String(), "output")
	if _, err := os.Stat(outputDir); err != nil {
		return nil
	}

	archive, err := os.CreateTemp("", "rds-output-*.tar.gz")
	if err != nil {
		return fmt.Errorf("output: creating archive temp file: %w", err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	if err := packDir(outputDir, archive); err != nil {
		return fmt.Errorf("output: packing %s: %w", outputDir, err)
	}

	info, err := archive.Stat()
	if err != nil {
		return err
	}
	if _, err := archive.Seek(0, 0); err != nil {
		return err
	}

	if err := h.client.UploadData(ctx, job.UID.String(), archive, info.Size()); err != nil {
		h.logger.Warn("s3 output mirror failed", zap.String("job_id", job.UID.String()), zap.Error(err))
		return err
	}

	url, err := h.client.GetPresignedURL(ctx, job.UID.String(), 7*24*time.Hour)
	if err != nil {
		h.logger.Warn("s3 presign failed", zap.String("job_id", job.UID.String()), zap.Error(err))
		return nil
	}
	h.logger.Info("job output mirrored to s3", zap.String("job_id", job.UID.String()), zap.String("url", url))
	return nil
}
