package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/entity"
)

func TestJobPathsPrepare(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()
	dataDir := t.TempDir()

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	uc := entity.UserCode{LocalDir: codeDir}
	ds := entity.Dataset{PrivatePath: dataDir}

	paths := newJobPaths(base, job, uc, ds)
	require.NoError(t, paths.prepare())

	assert.DirExists(t, paths.logsDir)
	assert.DirExists(t, paths.outputDir)
	assert.Equal(t, filepath.Join(base, "jobs", job.UID.String(), "logs"), paths.logsDir)
	assert.Equal(t, filepath.Join(base, "jobs", job.UID.String(), "output"), paths.outputDir)
}

func TestJobPathsPrepareMissingCode(t *testing.T) {
	base := t.TempDir()
	dataDir := t.TempDir()

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	uc := entity.UserCode{LocalDir: filepath.Join(base, "does-not-exist")}
	ds := entity.Dataset{PrivatePath: dataDir}

	paths := newJobPaths(base, job, uc, ds)
	err := paths.prepare()
	assert.ErrorIs(t, err, ErrInvalidJobConfig)
}

func TestJobPathsPrepareMissingData(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	uc := entity.UserCode{LocalDir: codeDir}
	ds := entity.Dataset{PrivatePath: filepath.Join(base, "does-not-exist")}

	paths := newJobPaths(base, job, uc, ds)
	err := paths.prepare()
	assert.ErrorIs(t, err, ErrInvalidJobConfig)
}

func TestJobPathsPrepareIdempotent(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()
	dataDir := t.TempDir()

	job := entity.Job{Envelope: entity.Envelope{UID: uuid.New()}}
	uc := entity.UserCode{LocalDir: codeDir}
	ds := entity.Dataset{PrivatePath: dataDir}

	paths := newJobPaths(base, job, uc, ds)
	require.NoError(t, paths.prepare())
	require.NoError(t, paths.prepare())

	info, err := os.Stat(paths.outputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
