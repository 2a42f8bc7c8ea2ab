package runner

import (
	"fmt"

	"rds/internal/enum"
)

// ValidateConfig validates a Runtime's config map against its Kind,
// before the Runtime is persisted.
func ValidateConfig(kind enum.RuntimeKind, configData map[string]interface{}) error {
	if configData == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidJobConfig)
	}

	switch kind {
	case enum.RuntimeDocker:
		inner, ok := configData["docker"].(map[string]interface{})
		if !ok || inner == nil {
			return fmt.Errorf("%w: docker config not found or invalid", ErrInvalidJobConfig)
		}
		_, err := ParseDockerConfig(inner)
		return err

	case enum.RuntimePython:
		return nil

	case enum.RuntimeKubernetes:
		return fmt.Errorf("%w: kubernetes", ErrRuntimeUnimplemented)

	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobConfig, kind)
	}
}
