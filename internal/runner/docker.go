package runner

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-units"
)

// sandboxTmpfsSize is the /tmp mount applied to every DockerRunner
// container: a small, noexec, nosuid, nodev scratch space.
const sandboxTmpfsSize = "size=16m,noexec,nosuid,nodev"

// sandboxUlimits are the process/file-descriptor/file-size ceilings
// applied to every DockerRunner container, on top of the Resources
// memory/CPU/pid limits.
var sandboxUlimits = []string{"nproc=4096:4096", "nofile=50:50", "fsize=10000000:10000000"}

func parseSandboxUlimits() ([]*units.Ulimit, error) {
	out := make([]*units.Ulimit, 0, len(sandboxUlimits))
	for _, spec := range sandboxUlimits {
		u, err := units.ParseUlimit(spec)
		if err != nil {
			return nil, fmt.Errorf("parsing ulimit %q: %w", spec, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// DockerRunner runs a Job's entrypoint inside a throwaway, network-
// isolated container, built directly on the Docker SDK client.
type DockerRunner struct {
	baseDir string
	client  *client.Client
}

var _ JobRunner = (*DockerRunner)(nil)

// NewDockerRunner connects to the Docker daemon from the environment
// (DOCKER_HOST, or the default local socket) and verifies it is
// reachable before returning.
func NewDockerRunner(baseDir string) (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerUnavailable, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerUnavailable, err)
	}
	return &DockerRunner{baseDir: baseDir, client: cli}, nil
}

func (r *DockerRunner) Run(ctx context.Context, cfg JobConfig) (RunResult, error) {
	h, err := r.Start(ctx, cfg)
	if err != nil {
		return RunResult{}, err
	}
	return h.Wait()
}

func (r *DockerRunner) Start(ctx context.Context, cfg JobConfig) (ProcessHandle, error) {
	paths := newJobPaths(r.baseDir, cfg.Job, cfg.UserCode, cfg.Dataset)
	if err := paths.prepare(); err != nil {
		return nil, NewJobRunnerError("prepare", cfg.Job.UID.String(), err, false)
	}

	imageName, err := r.ensureImage(ctx, cfg)
	if err != nil {
		return nil, NewJobRunnerError("ensure-image", cfg.Job.UID.String(), err, false)
	}

	containerConfig, hostConfig, err := r.buildContainerSpec(cfg, paths, imageName)
	if err != nil {
		return nil, NewJobRunnerError("build-spec", cfg.Job.UID.String(), err, false)
	}

	created, err := r.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "rds-job-"+cfg.Job.UID.String())
	if err != nil {
		return nil, NewJobRunnerError("container-create", cfg.Job.UID.String(), err, true)
	}

	startedAt := time.Now()
	if cfg.Handlers != nil {
		cfg.Handlers.OnJobStart(ctx, cfg.Job)
	}

	if err := r.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		r.client.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true})
		return nil, NewJobRunnerError("container-start", cfg.Job.UID.String(), err, true)
	}

	h := &dockerHandle{
		client:      r.client,
		containerID: created.ID,
		cfg:         cfg,
		outputDir:   paths.outputDir,
		startedAt:   startedAt,
		done:        make(chan runOutcome, 1),
	}
	go h.drain(ctx)
	return h, nil
}

// ensureImage returns the image to run, building it from
// DockerConfig.DockerfileContent when it is not already present and a
// Dockerfile was supplied.
func (r *DockerRunner) ensureImage(ctx context.Context, cfg JobConfig) (string, error) {
	dockerCfg := cfg.Runtime.Config.Docker
	imageName := cfg.Runtime.UID.String()
	if dockerCfg != nil && dockerCfg.ImageName != "" {
		imageName = dockerCfg.ImageName
	}

	if _, _, err := r.client.ImageInspectWithRaw(ctx, imageName); err == nil {
		return imageName, nil
	}

	if dockerCfg == nil || dockerCfg.DockerfileContent == "" {
		return "", fmt.Errorf("%w: image %s not found and no dockerfile content to build it", ErrInvalidJobConfig, imageName)
	}

	buildCtx, err := dockerfileTar(dockerCfg.DockerfileContent)
	if err != nil {
		return "", err
	}

	resp, err := r.client.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{imageName},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return "", fmt.Errorf("building image %s: %w", imageName, err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("reading build output for %s: %w", imageName, err)
	}
	return imageName, nil
}

func dockerfileTar(content string) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{Name: "Dockerfile", Mode: 0o644, Size: int64(len(content))}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (r *DockerRunner) buildContainerSpec(cfg JobConfig, paths jobPaths, imageName string) (*container.Config, *container.HostConfig, error) {
	if len(cfg.Runtime.Cmd) == 0 {
		return nil, nil, fmt.Errorf("%w: runtime %s has no cmd", ErrInvalidJobConfig, cfg.Runtime.UID)
	}
	cmd := append([]string{}, cfg.Runtime.Cmd...)
	cmd = append(cmd, "-u", defaultContainerCodeDir+"/"+cfg.UserCode.Entrypoint)

	env := []string{
		"DATA_DIR=" + defaultContainerDataDir,
		"OUTPUT_DIR=" + defaultContainerOutputDir,
	}

	containerConfig := &container.Config{
		Image:      imageName,
		Cmd:        cmd,
		Env:        env,
		WorkingDir: defaultContainerWorkdir,
	}

	mounts := []mount.Mount{
		{Type: mount.TypeBind, Source: paths.functionFolder, Target: defaultContainerCodeDir, ReadOnly: true},
		{Type: mount.TypeBind, Source: paths.dataPath, Target: defaultContainerDataDir, ReadOnly: true},
		{Type: mount.TypeBind, Source: paths.outputDir, Target: defaultContainerOutputDir, ReadOnly: false},
	}

	if dockerCfg := cfg.Runtime.Config.Docker; dockerCfg != nil && dockerCfg.AppName != "" {
		if provider, ok := GetMountProvider(dockerCfg.AppName); ok {
			extra, err := provider.GetMounts(cfg)
			if err != nil {
				return nil, nil, fmt.Errorf("mount provider %s: %w", dockerCfg.AppName, err)
			}
			for _, m := range extra {
				readOnly := m.Mode == "ro"
				mounts = append(mounts, mount.Mount{Type: mount.TypeBind, Source: m.Source, Target: m.Target, ReadOnly: readOnly})
			}
		}
	}

	ulimits, err := parseSandboxUlimits()
	if err != nil {
		return nil, nil, err
	}

	limits := DefaultResourceLimits()
	pidsLimit := limits.PidsLimit
	hostConfig := &container.HostConfig{
		AutoRemove:  false,
		NetworkMode: "none",
		CapDrop:     []string{"ALL"},
		Tmpfs:       map[string]string{"/tmp": sandboxTmpfsSize},
		Mounts:      mounts,
		Resources: container.Resources{
			Memory:    limits.MemoryBytes,
			NanoCPUs:  limits.NanoCPUs,
			PidsLimit: &pidsLimit,
			Ulimits:   ulimits,
		},
	}

	return containerConfig, hostConfig, nil
}

// dockerHandle adapts a running container to ProcessHandle, streaming
// its demultiplexed log output into the job's handlers and waiting on
// ContainerWait for the exit code.
type dockerHandle struct {
	client      *client.Client
	containerID string
	cfg         JobConfig
	outputDir   string
	startedAt   time.Time
	done        chan runOutcome
}

func (h *dockerHandle) drain(ctx context.Context) {
	logs, err := h.client.ContainerLogs(ctx, h.containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		h.done <- runOutcome{err: err}
		return
	}

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	go func() {
		defer stdoutW.Close()
		defer stderrW.Close()
		stdcopy.StdCopy(stdoutW, stderrW, logs)
	}()

	var stderrLines []string
	var errorLines []string

	lines := make(chan logLine, 64)
	done := make(chan struct{})
	go func() { scanInto(stdoutR, lines, true); done <- struct{}{} }()
	go func() { scanInto(stderrR, lines, false); done <- struct{}{} }()
	go func() {
		<-done
		<-done
		close(lines)
	}()

	outDone := make(chan struct{})
	go func() {
		defer close(outDone)
		for l := range lines {
			if l.Stderr != "" {
				// Scanner.Text() strips the line terminator; re-append it so
				// a joined error message keeps one "\n" per line like the
				// readline()-based original.
				stderrLines = append(stderrLines, l.Stderr+"\n")
				if isErrorLevelLine(l.Stderr) {
					errorLines = append(errorLines, l.Stderr+"\n")
				}
			}
			if h.cfg.Handlers != nil {
				h.cfg.Handlers.OnJobProgress(ctx, h.cfg.Job, l.Stdout, l.Stderr)
			}
		}
	}()

	statusCh, errCh := h.client.ContainerWait(ctx, h.containerID, container.WaitConditionNotRunning)
	var returnCode int
	select {
	case err := <-errCh:
		logs.Close()
		<-outDone
		h.done <- runOutcome{err: err}
		return
	case status := <-statusCh:
		returnCode = int(status.StatusCode)
	}
	logs.Close()
	<-outDone

	h.client.ContainerRemove(ctx, h.containerID, container.RemoveOptions{Force: true})

	if h.cfg.Handlers != nil {
		h.cfg.Handlers.OnJobCompletion(ctx, h.cfg.Job, returnCode)
	}

	result := RunResult{
		OutputDir:   h.outputDir,
		ReturnCode:  returnCode,
		StartedAt:   h.startedAt,
		CompletedAt: time.Now(),
	}
	switch {
	case returnCode != 0:
		result.Failed = true
		result.ErrorMessage = joinLines(stderrLines)
	case len(errorLines) > 0:
		result.Failed = true
		result.ReturnCode = 1
		result.ErrorMessage = joinLines(errorLines)
	}

	h.done <- runOutcome{result: result}
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l
	}
	return out
}

func (h *dockerHandle) Wait() (RunResult, error) {
	outcome := <-h.done
	return outcome.result, outcome.err
}

func (h *dockerHandle) Kill() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.client.ContainerKill(ctx, h.containerID, "SIGKILL")
}
