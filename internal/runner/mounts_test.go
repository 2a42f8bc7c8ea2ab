package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMountProvider struct {
	mounts []Mount
	err    error
}

func (s *stubMountProvider) GetMounts(cfg JobConfig) ([]Mount, error) {
	return s.mounts, s.err
}

func TestRegisterAndGetMountProvider(t *testing.T) {
	provider := &stubMountProvider{mounts: []Mount{{Source: "/cache", Target: "/app/cache", Mode: "ro"}}}
	RegisterMountProvider("test-app-register", provider)

	got, ok := GetMountProvider("test-app-register")
	require.True(t, ok)
	mounts, err := got.GetMounts(JobConfig{})
	require.NoError(t, err)
	assert.Equal(t, provider.mounts, mounts)
}

func TestGetMountProviderUnregistered(t *testing.T) {
	_, ok := GetMountProvider("no-such-app")
	assert.False(t, ok)
}

func TestRegisterMountProviderOverwrites(t *testing.T) {
	first := &stubMountProvider{mounts: []Mount{{Source: "/a", Target: "/b", Mode: "ro"}}}
	second := &stubMountProvider{mounts: []Mount{{Source: "/c", Target: "/d", Mode: "rw"}}}

	RegisterMountProvider("test-app-overwrite", first)
	RegisterMountProvider("test-app-overwrite", second)

	got, ok := GetMountProvider("test-app-overwrite")
	require.True(t, ok)
	mounts, err := got.GetMounts(JobConfig{})
	require.NoError(t, err)
	assert.Equal(t, second.mounts, mounts)
}
