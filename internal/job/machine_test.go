package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/authz"
	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/output"
	"rds/internal/runner"
	"rds/internal/store"
)

const (
	testOwner = "owner@example.com"
	testGuest = "ds@example.com"
)

type testMachine struct {
	m        *Machine
	datasets store.Store[entity.Dataset]
	runtimes store.Store[entity.Runtime]
}

func newTestMachine(t *testing.T) testMachine {
	t.Helper()
	base := t.TempDir()

	jobs, err := store.NewFileStore[entity.Job](base, "job")
	require.NoError(t, err)
	userCodes, err := store.NewFileStore[entity.UserCode](base, "usercode")
	require.NoError(t, err)
	datasets, err := store.NewFileStore[entity.Dataset](base, "dataset")
	require.NoError(t, err)
	runtimes, err := store.NewFileStore[entity.Runtime](base, "runtime")
	require.NoError(t, err)

	gate := authz.NewGate(testOwner)
	factory := runner.NewFactory(base)
	outputs := output.NewHandlerChain(output.NewFileHandler(base))
	m := New(jobs, userCodes, datasets, runtimes, gate, factory, outputs, t.TempDir())

	return testMachine{m: m, datasets: datasets, runtimes: runtimes}
}

func (tm testMachine) createDataset(t *testing.T, ctx context.Context, name string) entity.Dataset {
	t.Helper()
	ds, err := tm.datasets.Create(ctx, entity.Dataset{
		Envelope:    entity.NewEnvelope(name, testOwner, time.Now().UTC()),
		MockPath:    t.TempDir(),
		PrivatePath: t.TempDir(),
	})
	require.NoError(t, err)
	return ds
}

// createRuntime registers a Runtime whose Cmd is a trivial host command,
// the same trick python_test.go uses (echo/false) to exercise
// PythonRunner without depending on a real interpreter being installed.
func (tm testMachine) createRuntime(t *testing.T, ctx context.Context, cmd ...string) entity.Runtime {
	t.Helper()
	rt, err := tm.runtimes.Create(ctx, entity.Runtime{
		Envelope: entity.NewEnvelope("echo-runtime", testOwner, time.Now().UTC()),
		Kind:     enum.RuntimePython,
		Cmd:      cmd,
	})
	require.NoError(t, err)
	return rt
}

func ownerCtx() context.Context { return authz.WithCallerEmail(context.Background(), testOwner) }
func guestCtx() context.Context { return authz.WithCallerEmail(context.Background(), testGuest) }

func submitJob(t *testing.T, tm testMachine, ctx context.Context, datasetName, runtimeName string) entity.Job {
	t.Helper()
	codeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "main.py"), []byte("print('hi')\n"), 0o644))
	j, err := tm.m.Submit(ctx, SubmitRequest{
		DatasetName: datasetName,
		RuntimeName: runtimeName,
		UserCode: entity.UserCodeCreate{
			Name:       "analysis",
			Entrypoint: "main.py",
			CodeType:   enum.CodeTypeFile,
			LocalDir:   codeDir,
		},
		CreatedBy: testGuest,
	})
	require.NoError(t, err)
	return j
}

func TestSubmitIsOpenToEveryCaller(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")

	j := submitJob(t, tm, ctx, "sales", "")
	assert.Equal(t, enum.JobStatusPendingCodeReview, j.Status)
	assert.Equal(t, testGuest, j.CreatedBy)
}

func TestSubmitUnknownRuntimeIsRejected(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")

	_, err := tm.m.Submit(ctx, SubmitRequest{
		DatasetName: "sales",
		RuntimeName: "does-not-exist",
		UserCode:    entity.UserCodeCreate{Name: "x", Entrypoint: "main.py", CodeType: enum.CodeTypeFile, LocalDir: t.TempDir()},
		CreatedBy:   testGuest,
	})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestApproveRejectRequireAdmin(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	j := submitJob(t, tm, ctx, "sales", "")

	_, err := tm.m.Approve(ctx, j.UID)
	assert.ErrorIs(t, err, entity.ErrPermission)

	approved, err := tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusApproved, approved.Status)
}

func TestApproveFromWrongStatusFails(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	j := submitJob(t, tm, ctx, "sales", "")

	_, err := tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)

	_, err = tm.m.Approve(ownerCtx(), j.UID)
	assert.ErrorIs(t, err, entity.ErrNotReady)
}

func TestRejectFromPendingReview(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	j := submitJob(t, tm, ctx, "sales", "")

	rejected, err := tm.m.Reject(ownerCtx(), j.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusRejected, rejected.Status)

	_, err = tm.m.Run(ownerCtx(), j.UID)
	assert.ErrorIs(t, err, entity.ErrNotReady)
}

func TestRunWithoutRuntimeStaysApproved(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	j := submitJob(t, tm, ctx, "sales", "")
	_, err := tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)

	_, err = tm.m.Run(ownerCtx(), j.UID)
	require.Error(t, err)

	reloaded, err := tm.m.requireStatus(ownerCtx(), j.UID, enum.JobStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusApproved, reloaded.Status)
}

func TestRunSuccessMovesToRunFinished(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	rt := tm.createRuntime(t, ctx, "echo")
	j := submitJob(t, tm, ctx, "sales", rt.Name)
	_, err := tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)

	finished, err := tm.m.Run(ownerCtx(), j.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusRunFinished, finished.Status)
}

func TestRunFailureMovesToRunFailed(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	rt := tm.createRuntime(t, ctx, "false")
	j := submitJob(t, tm, ctx, "sales", rt.Name)
	_, err := tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)

	failed, err := tm.m.Run(ownerCtx(), j.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusRunFailed, failed.Status)
	require.NotNil(t, failed.ReturnCode)
	assert.NotEqual(t, 0, *failed.ReturnCode)
}

func TestRunPrivateForceSkipsApproval(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	rt := tm.createRuntime(t, ctx, "echo")
	j := submitJob(t, tm, ctx, "sales", rt.Name)

	_, err := tm.m.Run(ownerCtx(), j.UID)
	assert.ErrorIs(t, err, entity.ErrNotReady)

	finished, err := tm.m.RunPrivate(ownerCtx(), j.UID, true)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusRunFinished, finished.Status)
}

func TestShareResultsRequiresRunFinished(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	rt := tm.createRuntime(t, ctx, "echo")
	j := submitJob(t, tm, ctx, "sales", rt.Name)

	_, err := tm.m.ShareResults(ownerCtx(), j.UID)
	assert.ErrorIs(t, err, entity.ErrNotReady)

	_, err = tm.m.Approve(ownerCtx(), j.UID)
	require.NoError(t, err)
	_, err = tm.m.Run(ownerCtx(), j.UID)
	require.NoError(t, err)

	shared, err := tm.m.ShareResults(ownerCtx(), j.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusShared, shared.Status)
	require.NotNil(t, shared.OutputURL)
	assert.NotEmpty(t, *shared.OutputURL)
	_, statErr := os.Stat(*shared.OutputURL)
	assert.NoError(t, statErr)
}

func TestDeleteRemovesOrphanedUserCodeOnlyWhenUnreferenced(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	j := submitJob(t, tm, ctx, "sales", "")

	_, err := tm.m.Delete(guestCtx(), j.UID, true)
	assert.ErrorIs(t, err, entity.ErrPermission)

	deleted, err := tm.m.Delete(ownerCtx(), j.UID, true)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = tm.m.userCodes.GetByUID(ownerCtx(), j.UserCodeID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteSharedUserCodeSurvivesWhileOtherJobReferencesIt(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")

	first := submitJob(t, tm, ctx, "sales", "")
	second, err := tm.m.jobs.Create(ctx, entity.Job{
		Envelope:    entity.NewEnvelope("analysis", testGuest, time.Now().UTC()),
		DatasetName: first.DatasetName,
		UserCodeID:  first.UserCodeID,
		Status:      enum.JobStatusPendingCodeReview,
	})
	require.NoError(t, err)

	deleted, err := tm.m.Delete(ownerCtx(), first.UID, true)
	require.NoError(t, err)
	assert.True(t, deleted)

	uc, err := tm.m.userCodes.GetByUID(ownerCtx(), first.UserCodeID)
	require.NoError(t, err, "UserCode shared with the still-live second job must survive")
	assert.Equal(t, first.UserCodeID, uc.UID)

	deleted, err = tm.m.Delete(ownerCtx(), second.UID, true)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = tm.m.userCodes.GetByUID(ownerCtx(), first.UserCodeID)
	assert.ErrorIs(t, err, entity.ErrNotFound, "UserCode must be removed once its last referencing job is gone")
}

func TestDeleteAllCountsRemoved(t *testing.T) {
	tm := newTestMachine(t)
	ctx := guestCtx()
	tm.createDataset(t, ctx, "sales")
	submitJob(t, tm, ctx, "sales", "")
	submitJob(t, tm, ctx, "sales", "")

	count, err := tm.m.DeleteAll(ownerCtx(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
