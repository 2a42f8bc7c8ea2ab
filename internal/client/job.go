package client

import (
	"context"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/job"
	"rds/internal/store"
)

// JobClient is the Job lifecycle surface: plain reads plus the review
// and execution verbs a Data Owner drives.
type JobClient struct{ c *Client }

// JobLogs carries the plain-text contents of a job's stdout and
// stderr log files.
type JobLogs struct {
	Stdout string
	Stderr string
}

// Submit creates UserCode and a Job in pending_code_review. Open to
// every caller.
func (j *JobClient) Submit(ctx context.Context, req job.SubmitRequest) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobSubmit, req, &out)
	return out, err
}

func (j *JobClient) Get(ctx context.Context, uid uuid.UUID) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobGetOne, uidRequest{UID: uid}, &out)
	return out, err
}

func (j *JobClient) GetAll(ctx context.Context, q store.Query) ([]entity.Job, error) {
	var out []entity.Job
	err := j.c.call(ctx, jobGetAll, q, &out)
	return out, err
}

// Approve moves a job from pending_code_review to approved. Requires
// the datasite owner.
func (j *JobClient) Approve(ctx context.Context, uid uuid.UUID) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobApprove, uidRequest{UID: uid}, &out)
	return out, err
}

// Reject moves a job from pending_code_review to rejected. Requires
// the datasite owner.
func (j *JobClient) Reject(ctx context.Context, uid uuid.UUID) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobReject, uidRequest{UID: uid}, &out)
	return out, err
}

// Run executes an approved job. Requires the datasite owner.
func (j *JobClient) Run(ctx context.Context, uid uuid.UUID) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobRun, uidRequest{UID: uid}, &out)
	return out, err
}

// RunPrivate is the legacy escape hatch: force=true allows running
// directly from pending_code_review, skipping approve/reject.
func (j *JobClient) RunPrivate(ctx context.Context, uid uuid.UUID, force bool) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobRunPrivate, struct {
		UID   uuid.UUID
		Force bool
	}{uid, force}, &out)
	return out, err
}

// ShareResults copies a finished job's output into the DS-readable
// synced tree and moves it to shared. Requires the datasite owner.
func (j *JobClient) ShareResults(ctx context.Context, uid uuid.UUID) (entity.Job, error) {
	var out entity.Job
	err := j.c.call(ctx, jobShareResults, uidRequest{UID: uid}, &out)
	return out, err
}

// GetLogs returns a job's recorded stdout/stderr, or an error
// satisfying IsNotReady if the job has not produced logs yet.
func (j *JobClient) GetLogs(ctx context.Context, uid uuid.UUID) (JobLogs, error) {
	var out JobLogs
	err := j.c.call(ctx, jobGetLogs, uidRequest{UID: uid}, &out)
	return out, err
}

// Delete removes a job from any state. Requires the datasite owner.
// If deleteOrphanedUserCode is true, the job's UserCode is also
// deleted when no other Job references it.
func (j *JobClient) Delete(ctx context.Context, uid uuid.UUID, deleteOrphanedUserCode bool) (bool, error) {
	var out deletedResponse
	err := j.c.call(ctx, jobDelete, struct {
		UID                    uuid.UUID
		DeleteOrphanedUserCode bool
	}{uid, deleteOrphanedUserCode}, &out)
	return out.Deleted, err
}
