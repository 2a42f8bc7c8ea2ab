package entity

import "github.com/google/uuid"

// ColumnSchema describes one inferred column of a dataset's mock file.
type ColumnSchema struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Dataset is published by the Data Owner. PrivatePath and MockPath
// live in disjoint directory subtrees: the mock tree is synced, the
// private tree never leaves the owner's machine.
type Dataset struct {
	Envelope   `yaml:",inline"`
	Summary     string         `yaml:"summary,omitempty"`
	PrivatePath string         `yaml:"private_path"`
	MockPath    string         `yaml:"mock_path"`
	Schema      []ColumnSchema `yaml:"schema,omitempty"`
	RuntimeID   *uuid.UUID     `yaml:"runtime_id,omitempty" rds:"coerce=uuid"`
}

func (Dataset) KindName() string { return "dataset" }

// DatasetCreate carries the fields required to publish a Dataset.
type DatasetCreate struct {
	Name        string
	Summary     string
	PrivatePath string
	MockPath    string
	CreatedBy   string
	Tags        []string
	Description string
	RuntimeID   *uuid.UUID
}

// DatasetUpdate is the partial-update companion for Dataset.
type DatasetUpdate struct {
	UID         uuid.UUID
	Summary     *string
	Description *string
	Tags        *[]string
	Schema      *[]ColumnSchema
	RuntimeID   *uuid.UUID
}

func (u DatasetUpdate) TargetUID() uuid.UUID { return u.UID }
