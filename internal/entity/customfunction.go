package entity

import "github.com/google/uuid"

// CustomFunction is a reusable code bundle a Data Owner publishes for
// Data Scientists to invoke against approved datasets.
type CustomFunction struct {
	Envelope       `yaml:",inline"`
	Entrypoint      string `yaml:"entrypoint"`
	ReadmeFilename  string `yaml:"readme_filename,omitempty"`
	FilesZipped     []byte `yaml:"-"`
	LocalDir        string `yaml:"local_dir,omitempty"`
}

func (CustomFunction) KindName() string { return "customfunction" }

// CustomFunctionCreate carries the fields required to publish a CustomFunction.
type CustomFunctionCreate struct {
	Name           string
	Entrypoint     string
	ReadmeFilename string
	FilesZipped    []byte
	CreatedBy      string
	Tags           []string
	Description    string
}

// CustomFunctionUpdate is the partial-update companion for CustomFunction.
type CustomFunctionUpdate struct {
	UID         uuid.UUID
	Description *string
	Tags        *[]string
}

func (u CustomFunctionUpdate) TargetUID() uuid.UUID { return u.UID }
