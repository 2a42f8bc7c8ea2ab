package runner

import (
	"context"
	"fmt"
)

// KubernetesRunner is a stub: running a job as a Kubernetes Job
// resource is not yet implemented.
type KubernetesRunner struct {
	baseDir string
}

var _ JobRunner = (*KubernetesRunner)(nil)

// NewKubernetesRunner returns a KubernetesRunner rooted at baseDir.
func NewKubernetesRunner(baseDir string) *KubernetesRunner {
	return &KubernetesRunner{baseDir: baseDir}
}

func (k *KubernetesRunner) Run(ctx context.Context, cfg JobConfig) (RunResult, error) {
	return RunResult{}, fmt.Errorf("%w: kubernetes", ErrRuntimeUnimplemented)
}

func (k *KubernetesRunner) Start(ctx context.Context, cfg JobConfig) (ProcessHandle, error) {
	return nil, fmt.Errorf("%w: kubernetes", ErrRuntimeUnimplemented)
}
