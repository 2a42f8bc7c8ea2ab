package runner

import (
	"context"
	"testing"

	"rds/internal/enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreatePython(t *testing.T) {
	f := NewFactory(t.TempDir())

	jr, err := f.Create(enum.RuntimePython, nil)
	require.NoError(t, err)
	require.NotNil(t, jr)

	_, ok := jr.(*PythonRunner)
	assert.True(t, ok)
}

func TestFactoryCreateDocker(t *testing.T) {
	f := NewFactory(t.TempDir())

	jr, err := f.Create(enum.RuntimeDocker, nil)
	if err != nil {
		// No Docker daemon reachable in this environment; the only
		// acceptable failure is ErrDockerUnavailable.
		assert.ErrorIs(t, err, ErrDockerUnavailable)
		return
	}

	_, ok := jr.(*DockerRunner)
	assert.True(t, ok)
}

func TestFactoryCreateKubernetes(t *testing.T) {
	f := NewFactory(t.TempDir())

	jr, err := f.Create(enum.RuntimeKubernetes, nil)
	require.NoError(t, err)
	require.NotNil(t, jr)

	_, ok := jr.(*KubernetesRunner)
	assert.True(t, ok)

	_, runErr := jr.Run(context.Background(), JobConfig{})
	assert.ErrorIs(t, runErr, ErrRuntimeUnimplemented)
}

func TestFactoryCreateUnsupported(t *testing.T) {
	f := NewFactory(t.TempDir())

	_, err := f.Create(enum.RuntimeKind("unsupported"), nil)
	assert.ErrorIs(t, err, ErrRuntimeUnimplemented)
}
