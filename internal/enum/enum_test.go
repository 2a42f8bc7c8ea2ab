package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestParseRuntimeKind(t *testing.T) {
	k, err := ParseRuntimeKind("docker")
	assert.NoError(t, err)
	assert.Equal(t, RuntimeDocker, k)

	_, err = ParseRuntimeKind("nonsense")
	assert.Error(t, err)
}

func TestJobStatusValid(t *testing.T) {
	assert.True(t, JobStatusApproved.Valid())
	assert.False(t, JobStatus("bogus").Valid())
}

func TestJobStatusYAMLRoundTrip(t *testing.T) {
	encoded, err := yaml.Marshal(JobStatusRunFinished)
	assert.NoError(t, err)
	assert.Equal(t, "job_run_finished\n", string(encoded))

	var decoded JobStatus
	assert.NoError(t, yaml.Unmarshal(encoded, &decoded))
	assert.Equal(t, JobStatusRunFinished, decoded)
}

func TestRuntimeKindYAMLRoundTrip(t *testing.T) {
	encoded, err := yaml.Marshal(RuntimeKubernetes)
	assert.NoError(t, err)

	var decoded RuntimeKind
	assert.NoError(t, yaml.Unmarshal(encoded, &decoded))
	assert.Equal(t, RuntimeKubernetes, decoded)
}
