package entity

import (
	"github.com/google/uuid"

	"rds/internal/enum"
)

// UserCode is the submitted code bundle: a single file or a folder
// with an entrypoint. FilesZipped only appears in-flight, over RPC; it
// is never persisted to the store once local_dir is resolved.
type UserCode struct {
	Envelope     `yaml:",inline"`
	Entrypoint    string        `yaml:"entrypoint"`
	CodeType      enum.CodeType `yaml:"code_type" rds:"coerce=enum"`
	LocalDir      string        `yaml:"local_dir,omitempty"`
	FilesZipped   []byte        `yaml:"-"`
}

func (UserCode) KindName() string { return "usercode" }

// UserCodeCreate carries the fields required to submit UserCode.
type UserCodeCreate struct {
	Name        string
	Entrypoint  string
	CodeType    enum.CodeType
	LocalDir    string
	FilesZipped []byte
	CreatedBy   string
	Tags        []string
	Description string
}

// UserCodeUpdate is the partial-update companion for UserCode.
type UserCodeUpdate struct {
	UID         uuid.UUID
	Description *string
	Tags        *[]string
}

func (u UserCodeUpdate) TargetUID() uuid.UUID { return u.UID }
