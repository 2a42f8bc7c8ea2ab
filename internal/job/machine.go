// Package job implements the Job lifecycle state machine: submission,
// review, execution and result sharing, along with the transition
// guards and orphan cleanup rules that govern it.
package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"rds/internal/authz"
	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/output"
	"rds/internal/runner"
	"rds/internal/store"
)

// Machine drives Job through its lifecycle. It is the only code path
// allowed to mutate Job.Status: the store and entity layers are
// deliberately permissive, so every transition legality check lives
// here.
type Machine struct {
	jobs      store.Store[entity.Job]
	userCodes store.Store[entity.UserCode]
	datasets  store.Store[entity.Dataset]
	runtimes  store.Store[entity.Runtime]

	gate    *authz.Gate
	runners *runner.Factory
	outputs *output.HandlerChain
	syncDir string // DS-readable synced artifact tree, populated by ShareResults

	// runOutputDirs remembers each run job's (finished or failed) runner working
	// directory, keyed by job uid, so ShareResults and Delete can find
	// it without persisting a host filesystem path into the entity.
	runOutputDirs sync.Map
}

// New builds a Machine wired against the given per-kind stores, gate,
// runner factory and output handler chain.
func New(
	jobs store.Store[entity.Job],
	userCodes store.Store[entity.UserCode],
	datasets store.Store[entity.Dataset],
	runtimes store.Store[entity.Runtime],
	gate *authz.Gate,
	runners *runner.Factory,
	outputs *output.HandlerChain,
	syncDir string,
) *Machine {
	return &Machine{
		jobs:      jobs,
		userCodes: userCodes,
		datasets:  datasets,
		runtimes:  runtimes,
		gate:      gate,
		runners:   runners,
		outputs:   outputs,
		syncDir:   syncDir,
	}
}

// SubmitRequest carries the fields a Data Scientist provides to submit
// a Job. RuntimeName, if given, must resolve to an existing Runtime.
type SubmitRequest struct {
	DatasetName string
	RuntimeName string
	UserCode    entity.UserCodeCreate
	CreatedBy   string
	Tags        []string
	Description string
}

// Submit creates UserCode and Job atomically (from the caller's point
// of view: either both succeed or neither is persisted) with the Job
// in pending_code_review. It is open to every caller.
func (m *Machine) Submit(ctx context.Context, req SubmitRequest) (entity.Job, error) {
	if err := m.gate.CanCreateJob(ctx); err != nil {
		return entity.Job{}, err
	}

	var runtimeID *uuid.UUID
	if req.RuntimeName != "" {
		runtimes, err := m.runtimes.GetAll(ctx, store.Query{Filters: map[string]string{"name": req.RuntimeName}})
		if err != nil {
			return entity.Job{}, err
		}
		if len(runtimes) == 0 {
			return entity.Job{}, fmt.Errorf("%w: runtime %q", entity.ErrNotFound, req.RuntimeName)
		}
		id := runtimes[0].UID
		runtimeID = &id
	}

	now := time.Now().UTC()
	uc := entity.UserCode{
		Envelope:    entity.NewEnvelope(req.UserCode.Name, req.CreatedBy, now),
		Entrypoint:  req.UserCode.Entrypoint,
		CodeType:    req.UserCode.CodeType,
		LocalDir:    req.UserCode.LocalDir,
		FilesZipped: req.UserCode.FilesZipped,
	}
	uc.Tags = req.UserCode.Tags
	uc.Description = req.UserCode.Description

	uc, err := m.userCodes.Create(ctx, uc)
	if err != nil {
		return entity.Job{}, err
	}

	j := entity.Job{
		Envelope:    entity.NewEnvelope(req.DatasetName+"-job", req.CreatedBy, now),
		DatasetName: req.DatasetName,
		UserCodeID:  uc.UID,
		RuntimeID:   runtimeID,
		Status:      enum.JobStatusPendingCodeReview,
	}
	j.Tags = req.Tags
	j.Description = req.Description

	created, err := m.jobs.Create(ctx, j)
	if err != nil {
		m.userCodes.Delete(ctx, uc.UID)
		return entity.Job{}, err
	}
	return created, nil
}

// requireStatus loads the job and fails with ErrNotReady unless it is
// currently in one of want.
func (m *Machine) requireStatus(ctx context.Context, jobID uuid.UUID, want ...enum.JobStatus) (entity.Job, error) {
	j, err := m.jobs.GetByUID(ctx, jobID)
	if err != nil {
		return entity.Job{}, err
	}
	for _, s := range want {
		if j.Status == s {
			return j, nil
		}
	}
	return entity.Job{}, fmt.Errorf("%w: job %s is %s, not %v", entity.ErrNotReady, jobID, j.Status, want)
}

func (m *Machine) setStatus(ctx context.Context, jobID uuid.UUID, update entity.JobUpdate) (entity.Job, error) {
	return m.jobs.Update(ctx, jobID, jobUpdatePartial(update))
}

// jobUpdatePartial projects the non-nil fields of a JobUpdate onto the
// map[string]any shape internal/store.Store.Update expects, using the
// same field names the store's yaml tags declare.
func jobUpdatePartial(u entity.JobUpdate) map[string]any {
	partial := map[string]any{}
	if u.Status != nil {
		partial["status"] = string(*u.Status)
	}
	if u.RuntimeID != nil {
		partial["runtime_id"] = u.RuntimeID.String()
	}
	if u.OutputURL != nil {
		partial["output_url"] = *u.OutputURL
	}
	if u.ErrorMessage != nil {
		partial["error_message"] = *u.ErrorMessage
	}
	if u.ReturnCode != nil {
		partial["return_code"] = *u.ReturnCode
	}
	if u.Description != nil {
		partial["description"] = *u.Description
	}
	return partial
}

// Approve moves a job from pending_code_review to approved. Admin-only.
func (m *Machine) Approve(ctx context.Context, jobID uuid.UUID) (entity.Job, error) {
	if err := m.gate.CanMutateJobStatus(ctx); err != nil {
		return entity.Job{}, err
	}
	if _, err := m.requireStatus(ctx, jobID, enum.JobStatusPendingCodeReview); err != nil {
		return entity.Job{}, err
	}
	status := enum.JobStatusApproved
	return m.setStatus(ctx, jobID, entity.JobUpdate{Status: &status})
}

// Reject moves a job from pending_code_review to rejected. Admin-only.
func (m *Machine) Reject(ctx context.Context, jobID uuid.UUID) (entity.Job, error) {
	if err := m.gate.CanMutateJobStatus(ctx); err != nil {
		return entity.Job{}, err
	}
	if _, err := m.requireStatus(ctx, jobID, enum.JobStatusPendingCodeReview); err != nil {
		return entity.Job{}, err
	}
	status := enum.JobStatusRejected
	return m.setStatus(ctx, jobID, entity.JobUpdate{Status: &status})
}

// Run executes a job from approved. Admin-only. It never bypasses
// review; use RunPrivate(force=true) for the legacy direct path.
func (m *Machine) Run(ctx context.Context, jobID uuid.UUID) (entity.Job, error) {
	return m.run(ctx, jobID, false)
}

// RunPrivate is the legacy escape hatch: with force=true it allows
// running directly from pending_code_review, skipping approve/reject.
// With force=false it behaves exactly like Run.
func (m *Machine) RunPrivate(ctx context.Context, jobID uuid.UUID, force bool) (entity.Job, error) {
	return m.run(ctx, jobID, force)
}

func (m *Machine) run(ctx context.Context, jobID uuid.UUID, force bool) (entity.Job, error) {
	if err := m.gate.CanMutateJobStatus(ctx); err != nil {
		return entity.Job{}, err
	}

	allowed := []enum.JobStatus{enum.JobStatusApproved}
	if force {
		allowed = append(allowed, enum.JobStatusPendingCodeReview)
	}
	j, err := m.requireStatus(ctx, jobID, allowed...)
	if err != nil {
		return entity.Job{}, err
	}

	uc, err := m.userCodes.GetByUID(ctx, j.UserCodeID)
	if err != nil {
		return entity.Job{}, err
	}
	datasets, err := m.datasets.GetAll(ctx, store.Query{Filters: map[string]string{"name": j.DatasetName}})
	if err != nil {
		return entity.Job{}, err
	}
	if len(datasets) == 0 {
		return entity.Job{}, fmt.Errorf("%w: dataset %q", entity.ErrNotFound, j.DatasetName)
	}
	ds := datasets[0]

	var rt entity.Runtime
	if j.RuntimeID != nil {
		rt, err = m.runtimes.GetByUID(ctx, *j.RuntimeID)
		if err != nil {
			return entity.Job{}, err
		}
	}

	inProgress := enum.JobStatusInProgress
	j, err = m.setStatus(ctx, jobID, entity.JobUpdate{Status: &inProgress})
	if err != nil {
		return entity.Job{}, err
	}

	jr, err := m.runners.Create(rt.Kind, nil)
	if err != nil {
		// The runner rejected execution outright: the job stays approved
		// rather than moving to a run-failed state, distinguishing "could
		// not start" from "ran and failed".
		approved := enum.JobStatusApproved
		m.setStatus(ctx, jobID, entity.JobUpdate{Status: &approved})
		return entity.Job{}, err
	}

	result, runErr := jr.Run(ctx, runner.JobConfig{
		Job:      j,
		UserCode: uc,
		Dataset:  ds,
		Runtime:  rt,
		Handlers: m.outputs,
	})
	// The runner's working directory is deterministic from newJobPaths and
	// populated on both the success and failure branches of drain(), so it
	// is recorded here unconditionally: Delete must be able to clean it up
	// from job_run_failed exactly as it does from job_run_finished.
	m.runOutputDirs.Store(jobID, result.OutputDir)

	if runErr != nil || result.Failed {
		failed := enum.JobStatusRunFailed
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		} else {
			msg = result.ErrorMessage
		}
		rc := result.ReturnCode
		return m.setStatus(ctx, jobID, entity.JobUpdate{Status: &failed, ErrorMessage: &msg, ReturnCode: &rc})
	}

	finished := enum.JobStatusRunFinished
	rc := result.ReturnCode
	j, err = m.setStatus(ctx, jobID, entity.JobUpdate{Status: &finished, ReturnCode: &rc})
	if err != nil {
		return entity.Job{}, err
	}
	return j, nil
}

// ShareResults copies the job's output artifacts into the DS-readable
// synced tree and moves the job to shared. Admin-only; only from
// job_run_finished.
func (m *Machine) ShareResults(ctx context.Context, jobID uuid.UUID) (entity.Job, error) {
	if err := m.gate.CanMutateJobStatus(ctx); err != nil {
		return entity.Job{}, err
	}
	j, err := m.requireStatus(ctx, jobID, enum.JobStatusRunFinished)
	if err != nil {
		return entity.Job{}, err
	}

	srcDir, ok := m.runOutputDirs.Load(jobID)
	if !ok {
		return entity.Job{}, fmt.Errorf("%w: no recorded output directory for job %s", entity.ErrNotReady, jobID)
	}

	dstDir := filepath.Join(m.syncDir, jobID.String())
	if err := copyTree(srcDir.(string), dstDir); err != nil {
		return entity.Job{}, fmt.Errorf("job: sharing results for %s: %w", jobID, err)
	}

	shared := enum.JobStatusShared
	outputURL := dstDir
	return m.setStatus(ctx, jobID, entity.JobUpdate{Status: &shared, OutputURL: &outputURL})
}

// Delete removes a job from any state. Admin-only. If
// deleteOrphanedUserCode is true, the job's UserCode is also deleted
// when no other Job references it. Output directories are removed
// best-effort.
func (m *Machine) Delete(ctx context.Context, jobID uuid.UUID, deleteOrphanedUserCode bool) (bool, error) {
	if err := m.gate.CanDeleteJob(ctx); err != nil {
		return false, err
	}
	j, err := m.jobs.GetByUID(ctx, jobID)
	if err != nil {
		return false, err
	}

	deleted, err := m.jobs.Delete(ctx, jobID)
	if err != nil || !deleted {
		return deleted, err
	}

	if srcDir, ok := m.runOutputDirs.LoadAndDelete(jobID); ok {
		os.RemoveAll(srcDir.(string))
	}
	os.RemoveAll(filepath.Join(m.syncDir, jobID.String()))

	if deleteOrphanedUserCode {
		referenced, err := m.userCodeReferenced(ctx, j.UserCodeID)
		if err == nil && !referenced {
			m.userCodes.Delete(ctx, j.UserCodeID)
		}
	}
	return true, nil
}

func (m *Machine) userCodeReferenced(ctx context.Context, userCodeID uuid.UUID) (bool, error) {
	all, err := m.jobs.GetAll(ctx, store.Query{})
	if err != nil {
		return false, err
	}
	for _, j := range all {
		if j.UserCodeID == userCodeID {
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll scans every job matching filters and deletes it, returning
// the count removed. Admin-only.
func (m *Machine) DeleteAll(ctx context.Context, filters map[string]string, deleteOrphanedUserCode bool) (int, error) {
	if err := m.gate.CanDeleteJob(ctx); err != nil {
		return 0, err
	}
	matches, err := m.jobs.GetAll(ctx, store.Query{Filters: filters})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, j := range matches {
		if ok, err := m.Delete(ctx, j.UID, deleteOrphanedUserCode); err == nil && ok {
			count++
		}
	}
	return count, nil
}
