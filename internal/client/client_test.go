package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/authz"
	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/job"
	"rds/internal/output"
	"rds/internal/runner"
	"rds/internal/server"
	"rds/internal/store"
)

const (
	testOwner = "owner@example.com"
	testGuest = "ds@example.com"
)

func newTestClients(t *testing.T) (owner, guest *Client) {
	t.Helper()
	base := t.TempDir()

	datasets, err := store.NewFileStore[entity.Dataset](base, "dataset")
	require.NoError(t, err)
	runtimes, err := store.NewFileStore[entity.Runtime](base, "runtime")
	require.NoError(t, err)
	userCodes, err := store.NewFileStore[entity.UserCode](base, "usercode")
	require.NoError(t, err)
	customFunctions, err := store.NewFileStore[entity.CustomFunction](base, "customfunction")
	require.NoError(t, err)
	jobs, err := store.NewFileStore[entity.Job](base, "job")
	require.NoError(t, err)

	gate := authz.NewGate(testOwner)
	factory := runner.NewFactory(base)
	outputs := output.NewHandlerChain(output.NewFileHandler(base))
	machine := job.New(jobs, userCodes, datasets, runtimes, gate, factory, outputs, t.TempDir())

	srv := server.New(datasets, runtimes, userCodes, customFunctions, jobs, gate, machine, base, nil)
	router := srv.Build()

	return NewLocal(router, testOwner), NewLocal(router, testGuest)
}

func TestClientModeLocal(t *testing.T) {
	owner, _ := newTestClients(t)
	assert.Equal(t, ModeLocal, owner.Mode())
	assert.Equal(t, "local", owner.Mode().String())
}

func TestDatasetClientCreateRequiresOwner(t *testing.T) {
	owner, guest := newTestClients(t)
	ctx := context.Background()

	_, err := guest.Datasets.Create(ctx, entity.DatasetCreate{Name: "sales", CreatedBy: testGuest})
	assert.ErrorIs(t, err, entity.ErrPermission)

	created, err := owner.Datasets.Create(ctx, entity.DatasetCreate{
		Name: "sales", PrivatePath: "/private/sales.csv", MockPath: "/mock/sales.csv", CreatedBy: testOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, "sales", created.Name)
}

func TestJobSubmitApproveDeleteLifecycle(t *testing.T) {
	owner, guest := newTestClients(t)
	ctx := context.Background()

	_, err := owner.Datasets.Create(ctx, entity.DatasetCreate{
		Name: "sales", PrivatePath: "/private/sales.csv", MockPath: "/mock/sales.csv", CreatedBy: testOwner,
	})
	require.NoError(t, err)

	created, err := guest.Jobs.Submit(ctx, job.SubmitRequest{
		DatasetName: "sales",
		UserCode:    entity.UserCodeCreate{Name: "analysis", Entrypoint: "main.py", CodeType: enum.CodeTypeFile, LocalDir: t.TempDir()},
		CreatedBy:   testGuest,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusPendingCodeReview, created.Status)

	_, err = guest.Jobs.Approve(ctx, created.UID)
	assert.ErrorIs(t, err, entity.ErrPermission)

	approved, err := owner.Jobs.Approve(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusApproved, approved.Status)

	_, err = owner.Jobs.GetLogs(ctx, created.UID)
	assert.True(t, IsNotReady(err))

	got, err := guest.Jobs.Get(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, created.UID, got.UID)

	deleted, err := owner.Jobs.Delete(ctx, created.UID, true)
	require.NoError(t, err)
	assert.True(t, deleted)
}
