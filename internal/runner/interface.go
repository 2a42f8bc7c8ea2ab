package runner

import (
	"context"

	"rds/internal/entity"
	"rds/internal/output"
)

// JobConfig bundles the resolved entities a JobRunner needs. A
// JobRunner's unit of work runs once to completion: there is no
// create/start/stop lifecycle to manage, only run.
type JobConfig struct {
	Job      entity.Job
	UserCode entity.UserCode
	Dataset  entity.Dataset
	Runtime  entity.Runtime
	Handlers *output.HandlerChain
}

// JobRunner executes one Job under a concrete RuntimeKind. Run blocks
// until the job exits; Start returns immediately with a handle the
// caller can Wait on or Kill, for a future non-blocking `jobs get
// --follow` style watcher.
type JobRunner interface {
	Run(ctx context.Context, cfg JobConfig) (RunResult, error)
	Start(ctx context.Context, cfg JobConfig) (ProcessHandle, error)
}

// MockJobRunner is a no-op JobRunner for tests.
type MockJobRunner struct {
	RunFunc   func(ctx context.Context, cfg JobConfig) (RunResult, error)
	StartFunc func(ctx context.Context, cfg JobConfig) (ProcessHandle, error)
}

var _ JobRunner = (*MockJobRunner)(nil)

func (m *MockJobRunner) Run(ctx context.Context, cfg JobConfig) (RunResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, cfg)
	}
	return RunResult{}, nil
}

func (m *MockJobRunner) Start(ctx context.Context, cfg JobConfig) (ProcessHandle, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, cfg)
	}
	return nil, ErrRuntimeUnimplemented
}
