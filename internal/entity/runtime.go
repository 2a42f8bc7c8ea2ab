package entity

import (
	"github.com/google/uuid"

	"rds/internal/enum"
)

// RuntimeConfig carries the kind-specific execution configuration.
// Exactly one of the sub-structs is populated, matching Runtime.Kind.
type RuntimeConfig struct {
	Python     *PythonConfig     `yaml:"python,omitempty"`
	Docker     *DockerConfig     `yaml:"docker,omitempty"`
	Kubernetes *KubernetesConfig `yaml:"kubernetes,omitempty"`
}

// PythonConfig configures the python RuntimeKind.
type PythonConfig struct {
	Version string `yaml:"version,omitempty"`
	UseUV   bool   `yaml:"use_uv,omitempty"`
}

// DockerConfig configures the docker RuntimeKind.
type DockerConfig struct {
	ImageName         string `yaml:"image_name,omitempty"`
	DockerfileContent string `yaml:"dockerfile_content,omitempty"`
	AppName           string `yaml:"app_name,omitempty"`
}

// KubernetesConfig configures the kubernetes RuntimeKind.
type KubernetesConfig struct {
	Image      string `yaml:"image"`
	Namespace  string `yaml:"namespace"`
	NumWorkers int    `yaml:"num_workers,omitempty"`
}

// Runtime is the execution context (interpreter, image, cluster spec)
// a Job runs under.
type Runtime struct {
	Envelope `yaml:",inline"`
	Kind     enum.RuntimeKind `yaml:"kind" rds:"coerce=enum"`
	Cmd      []string         `yaml:"cmd,omitempty"`
	Config   RuntimeConfig    `yaml:"config"`
}

func (Runtime) KindName() string { return "runtime" }

// RuntimeCreate carries the fields required to register a Runtime. Name
// is stored as given; nothing in this module generates a name when it
// is empty.
type RuntimeCreate struct {
	Name        string
	Kind        enum.RuntimeKind
	Cmd         []string
	Config      RuntimeConfig
	CreatedBy   string
	Tags        []string
	Description string
}

// RuntimeUpdate is the partial-update companion for Runtime.
type RuntimeUpdate struct {
	UID         uuid.UUID
	Name        *string
	Cmd         *[]string
	Config      *RuntimeConfig
	Description *string
	Tags        *[]string
}

func (u RuntimeUpdate) TargetUID() uuid.UUID { return u.UID }
