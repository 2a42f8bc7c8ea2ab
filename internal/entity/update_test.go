package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T) Dataset {
	t.Helper()
	return Dataset{
		Envelope:    NewEnvelope("census", "owner@example.com", time.Now().UTC()),
		Summary:     "original summary",
		PrivatePath: "/private/census",
		MockPath:    "/mock/census",
	}
}

func TestApplyUpdate_MergesNonNilFields(t *testing.T) {
	ds := newTestDataset(t)
	newSummary := "revised summary"

	updated, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: ds.UID, Summary: &newSummary}, false)
	require.NoError(t, err)
	assert.Equal(t, newSummary, updated.Summary)
	assert.Equal(t, ds.PrivatePath, updated.PrivatePath, "fields left nil on the update must be untouched")
}

func TestApplyUpdate_NotInPlaceLeavesTargetUntouched(t *testing.T) {
	ds := newTestDataset(t)
	newSummary := "revised summary"

	_, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: ds.UID, Summary: &newSummary}, false)
	require.NoError(t, err)
	assert.Equal(t, "original summary", ds.Summary)
}

func TestApplyUpdate_MismatchedUIDFails(t *testing.T) {
	ds := newTestDataset(t)

	_, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: uuid.New()}, false)
	assert.ErrorIs(t, err, ErrInvalidUpdate)
	assert.ErrorIs(t, err, ErrMismatch, "uid mismatch must match the same sentinel store.go's own update path uses")
}

func TestApplyUpdate_SetsOptionalPointerFieldOnTarget(t *testing.T) {
	ds := newTestDataset(t)
	runtimeID := uuid.New()

	updated, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: ds.UID, RuntimeID: &runtimeID}, false)
	require.NoError(t, err)
	require.NotNil(t, updated.RuntimeID)
	assert.Equal(t, runtimeID, *updated.RuntimeID)
}

func TestApplyUpdate_BumpsUpdatedAt(t *testing.T) {
	ds := newTestDataset(t)
	ds.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	newSummary := "revised"

	updated, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: ds.UID, Summary: &newSummary}, false)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(ds.UpdatedAt))
}

func TestApplyUpdate_InPlaceMutatesTarget(t *testing.T) {
	ds := newTestDataset(t)
	newSummary := "mutated in place"

	updated, err := ApplyUpdate[Dataset](ds, DatasetUpdate{UID: ds.UID, Summary: &newSummary}, true)
	require.NoError(t, err)
	assert.Equal(t, "mutated in place", ds.Summary)
	assert.Equal(t, ds.Summary, updated.Summary)
}
