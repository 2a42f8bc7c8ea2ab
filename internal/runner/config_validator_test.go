package runner

import (
	"testing"

	"rds/internal/enum"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	t.Run("ValidDockerConfig", func(t *testing.T) {
		configData := map[string]interface{}{
			"docker": map[string]interface{}{
				"host": "unix:///var/run/docker.sock",
			},
		}

		err := ValidateConfig(enum.RuntimeDocker, configData)
		assert.NoError(t, err)
	})

	t.Run("InvalidDockerConfig", func(t *testing.T) {
		configData := map[string]interface{}{
			"docker": map[string]interface{}{
				"network": "bridge", // Missing required 'host'
			},
		}

		err := ValidateConfig(enum.RuntimeDocker, configData)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "host is required")
	})

	t.Run("DockerConfigMissing", func(t *testing.T) {
		configData := map[string]interface{}{}

		err := ValidateConfig(enum.RuntimeDocker, configData)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "docker config not found")
	})

	t.Run("ValidPythonConfig", func(t *testing.T) {
		configData := map[string]interface{}{
			"python": map[string]interface{}{
				"version": "3.11",
			},
		}

		err := ValidateConfig(enum.RuntimePython, configData)
		assert.NoError(t, err)
	})

	t.Run("KubernetesNotSupported", func(t *testing.T) {
		configData := map[string]interface{}{
			"namespace": "default",
		}

		err := ValidateConfig(enum.RuntimeKubernetes, configData)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "kubernetes")
	})

	t.Run("NilConfig", func(t *testing.T) {
		err := ValidateConfig(enum.RuntimeDocker, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config cannot be nil")
	})

	t.Run("UnsupportedRuntimeKind", func(t *testing.T) {
		configData := map[string]interface{}{
			"host": "test",
		}

		err := ValidateConfig(enum.RuntimeKind("invalid"), configData)
		assert.Error(t, err)
	})
}
