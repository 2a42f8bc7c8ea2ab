/*
Package runner executes one Job to completion under a chosen
RuntimeKind, and reports its outcome back to the Job state machine.

# Architecture Overview

A Factory picks a JobRunner implementation based on a Job's Runtime:

	┌─────────────────────────────────────────┐
	│         internal/job.Machine.Run         │
	└─────────────────────┬────────────────────┘
	                      │
	               ┌──────▼──────┐
	               │   Factory   │
	               └──────┬──────┘
	                      │
	     ┌────────────────┼────────────────┐
	     │                │                │
	┌────▼─────┐   ┌─────▼──────┐   ┌─────▼──────┐
	│  Python  │   │   Docker   │   │ Kubernetes │
	│  Runner  │   │   Runner   │   │   Runner   │
	└────┬─────┘   └─────┬──────┘   └─────┬──────┘
	     │                │                │
	┌────▼─────┐   ┌─────▼──────┐   ┌─────▼──────┐
	│os/exec   │   │ Docker SDK │   │  (stub)    │
	└──────────┘   └────────────┘   └────────────┘

# JobRunner

Every runner kind implements the same two-method contract:

	type JobRunner interface {
		Run(ctx context.Context, cfg JobConfig) (RunResult, error)
		Start(ctx context.Context, cfg JobConfig) (ProcessHandle, error)
	}

Run blocks until the job exits. Start returns immediately with a
ProcessHandle a caller can Wait on or Kill — useful for a future
non-blocking CLI watcher, but every current caller uses Run.

A run-once job has no lifecycle beyond this: unlike a long-running
service, there is no separate start/stop/restart surface to manage.

# Job Working Directory

workdir.go lays out one job's tree under <baseDir>/jobs/<uid>/:

	logs/    - populated by internal/output's FileHandler as the job runs
	output/  - writable scratch space the job's code writes results into

jobPaths.prepare validates that the submitted code's folder and the
dataset's private path exist, then creates logs/ and output/ before the
interpreter or container starts. Every runner kind calls this first.

# PythonRunner

Runs the entrypoint directly on the host with the runtime's configured
interpreter. When the code folder carries a pyproject.toml and the
Runtime opts into uv, the entrypoint instead runs through
`uv run --directory <folder> python -u <entrypoint>`, picking up the
project's own locked dependencies.

Standard output and standard error are scanned line by line and handed
to the job's output.HandlerChain as they arrive; every stderr line is
additionally checked against an ERROR/CRITICAL level pattern. A process
that exits 0 but logged at ERROR or CRITICAL is still treated as
failed — RunResult.Failed is set and ReturnCode forced to 1, since a
job can crash internally while raising no non-zero status.

# DockerRunner

Runs the entrypoint inside a throwaway container built directly on
github.com/docker/docker/client, using the SDK's one-shot container
pattern: create, start, wait, collect logs, remove. Every container
runs under a fixed sandbox profile:

	NetworkMode: none
	CapDrop:     ALL
	Tmpfs:       /tmp, 16m, noexec/nosuid/nodev
	Resources:   1G memory, 1 CPU, 100 pids
	Ulimits:     nproc=4096:4096, nofile=50:50, fsize=10000000:10000000

The code folder, dataset private path and job output directory are
bind-mounted read-only/read-only/read-write at /app/code, /app/data
and /app/output. A Runtime's DockerConfig can additionally name an
AppName; if a MountProvider is registered under that name (see
mounts.go), its extra mounts are appended — e.g. to attach a
deployment-specific shared cache without teaching DockerRunner about
it.

If the configured image is not present locally and DockerConfig
carries DockerfileContent, it is built from an in-memory tar context
before the container is created. Container logs are demultiplexed with
github.com/docker/docker/pkg/stdcopy.StdCopy and fed through the same
line-scanning and ERROR/CRITICAL demotion path as PythonRunner.

# KubernetesRunner

Not yet implemented; every method returns ErrRuntimeUnimplemented. A
real implementation would create a Kubernetes Job per submission,
mirroring the sandbox profile via a Pod's securityContext and resource
requests/limits.

# Files

	interface.go         - JobConfig / JobRunner / MockJobRunner
	types.go              - RunResult, ProcessHandle, JobRunnerError, sentinels
	workdir.go            - per-job working directory layout
	factory.go            - Factory.Create dispatch by RuntimeKind
	python.go             - PythonRunner + the shared subprocess draining logic
	docker.go             - DockerRunner
	kubernetes.go         - KubernetesRunner stub
	mounts.go             - MountProvider registry
	config.go             - Docker daemon connection config (host, TLS, registry auth)
	config_validator.go   - ValidateConfig, run before a Runtime is persisted
	secrets.go            - config field paths that must be encrypted at rest
*/
package runner
