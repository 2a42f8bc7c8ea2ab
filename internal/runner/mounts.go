package runner

import "sync"

// Mount describes one extra bind mount a MountProvider adds to a
// DockerRunner container, beyond the standard code/data/output binds.
type Mount struct {
	Source string
	Target string
	Mode   string // "ro" or "rw"
}

// MountProvider supplies extra mounts for jobs running under a given
// Docker app name, letting a Data Owner's deployment attach
// application-specific resources (e.g. a shared cache volume) without
// DockerRunner knowing about them.
type MountProvider interface {
	GetMounts(cfg JobConfig) ([]Mount, error)
}

var (
	mountProvidersMu sync.RWMutex
	mountProviders   = make(map[string]MountProvider)
)

// RegisterMountProvider registers a MountProvider under appName,
// overwriting any provider already registered for it.
func RegisterMountProvider(appName string, provider MountProvider) {
	mountProvidersMu.Lock()
	defer mountProvidersMu.Unlock()
	mountProviders[appName] = provider
}

// GetMountProvider returns the provider registered for appName, if
// any.
func GetMountProvider(appName string) (MountProvider, bool) {
	mountProvidersMu.RLock()
	defer mountProvidersMu.RUnlock()
	p, ok := mountProviders[appName]
	return p, ok
}
