package entity

import (
	"github.com/google/uuid"

	"rds/internal/enum"
)

// Job is the unit of work submitted by a Data Scientist against a
// Dataset, reviewed and run by the Data Owner. See internal/job for
// the transition table that governs Status.
type Job struct {
	Envelope     `yaml:",inline"`
	DatasetName   string          `yaml:"dataset_name"`
	UserCodeID    uuid.UUID       `yaml:"user_code_id" rds:"coerce=uuid"`
	RuntimeID     *uuid.UUID      `yaml:"runtime_id,omitempty" rds:"coerce=uuid"`
	Status        enum.JobStatus  `yaml:"status" rds:"coerce=enum"`
	OutputURL     *string         `yaml:"output_url,omitempty"`
	ErrorMessage  *string         `yaml:"error_message,omitempty"`
	ReturnCode    *int            `yaml:"return_code,omitempty" rds:"coerce=int"`
}

func (Job) KindName() string { return "job" }

// JobCreate carries the fields required to submit a Job. The job state
// machine fills RuntimeID from a job.SubmitRequest's RuntimeName, when
// one is given, before the Job is created (see internal/job.Machine.Submit).
type JobCreate struct {
	Name        string
	DatasetName string
	UserCodeID  uuid.UUID
	RuntimeID   *uuid.UUID
	CreatedBy   string
	Tags        []string
	Description string
}

// JobUpdate is the partial-update companion for Job. It is deliberately
// permissive at the entity-model layer: the transition legality itself
// is enforced one level up, by internal/job.Machine, not here.
type JobUpdate struct {
	UID          uuid.UUID
	Status       *enum.JobStatus
	RuntimeID    *uuid.UUID
	OutputURL    *string
	ErrorMessage *string
	ReturnCode   *int
	Description  *string
	Tags         *[]string
}

func (u JobUpdate) TargetUID() uuid.UUID { return u.UID }
