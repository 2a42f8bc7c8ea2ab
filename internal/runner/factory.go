package runner

import (
	"fmt"

	"rds/internal/enum"
)

// Factory builds a JobRunner for a RuntimeKind. A single Factory is
// shared across every job a server runs; baseDir roots every job's
// working tree the way workdir.go's jobPaths expects.
type Factory struct {
	baseDir string
}

// NewFactory returns a Factory rooted at baseDir.
func NewFactory(baseDir string) *Factory {
	return &Factory{baseDir: baseDir}
}

// Create returns a JobRunner for kind. cfg is reserved for future
// per-call overrides of the runtime's stored RuntimeConfig; the
// current runners read configuration from the Runtime entity passed
// into Run/Start instead, so cfg is presently unused.
func (f *Factory) Create(kind enum.RuntimeKind, cfg map[string]any) (JobRunner, error) {
	switch kind {
	case enum.RuntimePython:
		return NewPythonRunner(f.baseDir), nil
	case enum.RuntimeDocker:
		return NewDockerRunner(f.baseDir)
	case enum.RuntimeKubernetes:
		return NewKubernetesRunner(f.baseDir), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrRuntimeUnimplemented, kind)
	}
}
