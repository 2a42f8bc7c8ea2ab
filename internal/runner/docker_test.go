package runner

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds/internal/entity"
)

func TestParseSandboxUlimits(t *testing.T) {
	ulimits, err := parseSandboxUlimits()
	require.NoError(t, err)
	require.Len(t, ulimits, len(sandboxUlimits))
	names := make([]string, 0, len(ulimits))
	for _, u := range ulimits {
		names = append(names, u.Name)
	}
	assert.Contains(t, names, "nproc")
	assert.Contains(t, names, "nofile")
	assert.Contains(t, names, "fsize")
}

func TestDockerfileTar(t *testing.T) {
	r, err := dockerfileTar("FROM python:3.11-slim\n")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBuildContainerSpecNoCmd(t *testing.T) {
	r := &DockerRunner{baseDir: t.TempDir()}
	codeDir := t.TempDir()
	dataDir := t.TempDir()
	outDir := t.TempDir()

	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime:  entity.Runtime{Envelope: entity.Envelope{UID: uuid.New()}},
	}
	paths := jobPaths{functionFolder: codeDir, dataPath: dataDir, outputDir: outDir}

	_, _, err := r.buildContainerSpec(cfg, paths, "some-image")
	assert.ErrorIs(t, err, ErrInvalidJobConfig)
}

func TestBuildContainerSpecMounts(t *testing.T) {
	r := &DockerRunner{baseDir: t.TempDir()}
	codeDir := t.TempDir()
	dataDir := t.TempDir()
	outDir := t.TempDir()

	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime:  entity.Runtime{Envelope: entity.Envelope{UID: uuid.New()}, Cmd: []string{"python"}},
	}
	paths := jobPaths{functionFolder: codeDir, dataPath: dataDir, outputDir: outDir}

	containerConfig, hostConfig, err := r.buildContainerSpec(cfg, paths, "some-image")
	require.NoError(t, err)

	assert.Equal(t, "some-image", containerConfig.Image)
	assert.Equal(t, []string{"none"}, []string{string(hostConfig.NetworkMode)})
	assert.Equal(t, []string{"ALL"}, hostConfig.CapDrop)
	assert.Len(t, hostConfig.Mounts, 3)
	assert.NotNil(t, hostConfig.Resources.PidsLimit)
	assert.Equal(t, int64(100), *hostConfig.Resources.PidsLimit)
}

func TestBuildContainerSpecWithMountProvider(t *testing.T) {
	r := &DockerRunner{baseDir: t.TempDir()}
	codeDir := t.TempDir()
	dataDir := t.TempDir()
	outDir := t.TempDir()

	RegisterMountProvider("docker-test-app", &stubMountProvider{
		mounts: []Mount{{Source: "/shared/cache", Target: "/app/cache", Mode: "ro"}},
	})

	cfg := JobConfig{
		Job:      entity.Job{Envelope: entity.Envelope{UID: uuid.New()}},
		UserCode: entity.UserCode{LocalDir: codeDir, Entrypoint: "main.py"},
		Dataset:  entity.Dataset{PrivatePath: dataDir},
		Runtime: entity.Runtime{
			Cmd:    []string{"python"},
			Config: entity.RuntimeConfig{Docker: &entity.DockerConfig{AppName: "docker-test-app"}},
		},
	}
	paths := jobPaths{functionFolder: codeDir, dataPath: dataDir, outputDir: outDir}

	_, hostConfig, err := r.buildContainerSpec(cfg, paths, "some-image")
	require.NoError(t, err)
	assert.Len(t, hostConfig.Mounts, 4)
}

func TestJoinLines(t *testing.T) {
	assert.Equal(t, "", joinLines(nil))
	assert.Equal(t, "a", joinLines([]string{"a"}))
	assert.Equal(t, "ab", joinLines([]string{"a", "b"}))
}
