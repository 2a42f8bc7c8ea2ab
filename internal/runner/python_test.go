package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/entity"
)

func TestIsErrorLevelLine(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"2024-01-01 12:00:00 ERROR - boom", true},
		{"2024-01-01 12:00:00 CRITICAL - boom", true},
		{"critical failure in worker", true},
		{"all good, no errors here... wait, error", true},
		{"2024-01-01 12:00:00 INFO - starting up", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, isErrorLevelLine(c.line), "line: %q", c.line)
	}
}

func TestPythonRunnerBuildArgvPlain(t *testing.T) {
	r := NewPythonRunner(t.TempDir())
	codeDir := t.TempDir()

	cfg := JobConfig{
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Runtime: entity.Runtime{
			Cmd:    []string{"python3.11"},
			Config: entity.RuntimeConfig{Python: &entity.PythonConfig{UseUV: true}},
		},
	}
	paths := newJobPaths(r.baseDir, entity.Job{}, cfg.UserCode, entity.Dataset{})

	argv, err := r.buildArgv(cfg, paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"python3.11", "-u", filepath.Join(codeDir, "main.py")}, argv)
}

func TestPythonRunnerBuildArgvUV(t *testing.T) {
	r := NewPythonRunner(t.TempDir())
	codeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "pyproject.toml"), []byte("[project]\nname=\"x\"\n"), 0o644))

	cfg := JobConfig{
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Runtime: entity.Runtime{
			Cmd:    []string{"python3.11"},
			Config: entity.RuntimeConfig{Python: &entity.PythonConfig{UseUV: true}},
		},
	}
	paths := newJobPaths(r.baseDir, entity.Job{}, cfg.UserCode, entity.Dataset{})

	argv, err := r.buildArgv(cfg, paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"uv", "run", "--directory", codeDir, "python", "-u", filepath.Join(codeDir, "main.py")}, argv)
}

func TestPythonRunnerBuildArgvNoCmd(t *testing.T) {
	r := NewPythonRunner(t.TempDir())
	codeDir := t.TempDir()

	cfg := JobConfig{
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Runtime:  entity.Runtime{},
	}
	paths := newJobPaths(r.baseDir, entity.Job{}, cfg.UserCode, entity.Dataset{})

	_, err := r.buildArgv(cfg, paths)
	assert.ErrorIs(t, err, ErrInvalidJobConfig)
}

func TestPythonRunnerRunSuccess(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()
	dataDir := t.TempDir()

	script := "print('hello from job')\n"
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "main.py"), []byte(script), 0o644))

	r := NewPythonRunner(base)
	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime:  entity.Runtime{Cmd: []string{"echo"}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.Run(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, result.Failed)
	assert.Equal(t, 0, result.ReturnCode)
}

func TestPythonRunnerRunNonzeroExit(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()
	dataDir := t.TempDir()

	r := NewPythonRunner(base)
	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "missing.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime:  entity.Runtime{Cmd: []string{"false"}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.Run(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, result.Failed)
	assert.NotEqual(t, 0, result.ReturnCode)
}

func TestPythonRunnerErrorMessageKeepsLineTerminator(t *testing.T) {
	base := t.TempDir()
	codeDir := t.TempDir()
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "main.py"), []byte("pass\n"), 0o644))

	r := NewPythonRunner(base)
	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime:  entity.Runtime{Cmd: []string{"sh", "-c", "echo 'ERROR: boom' 1>&2; exit 1"}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.Run(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, result.Failed)
	assert.Equal(t, "ERROR: boom\n", result.ErrorMessage)
}
