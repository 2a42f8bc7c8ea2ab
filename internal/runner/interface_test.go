package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockJobRunnerDefaults(t *testing.T) {
	m := &MockJobRunner{}

	result, err := m.Run(context.Background(), JobConfig{})
	assert.NoError(t, err)
	assert.Equal(t, RunResult{}, result)

	_, err = m.Start(context.Background(), JobConfig{})
	assert.ErrorIs(t, err, ErrRuntimeUnimplemented)
}

func TestMockJobRunnerOverrides(t *testing.T) {
	wantResult := RunResult{ReturnCode: 7, Failed: true}
	m := &MockJobRunner{
		RunFunc: func(ctx context.Context, cfg JobConfig) (RunResult, error) {
			return wantResult, nil
		},
		StartFunc: func(ctx context.Context, cfg JobConfig) (ProcessHandle, error) {
			return nil, nil
		},
	}

	result, err := m.Run(context.Background(), JobConfig{})
	assert.NoError(t, err)
	assert.Equal(t, wantResult, result)

	handle, err := m.Start(context.Background(), JobConfig{})
	assert.NoError(t, err)
	assert.Nil(t, handle)
}
