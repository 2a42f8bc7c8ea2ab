// Package enum defines the small closed value sets shared by the entity
// and store packages: runtime kinds, job lifecycle states, code shapes,
// log levels and the field types the store's coercer understands.
package enum

import "fmt"

// RuntimeKind identifies the execution environment a Runtime targets.
type RuntimeKind string

const (
	RuntimePython     RuntimeKind = "python"
	RuntimeDocker     RuntimeKind = "docker"
	RuntimeKubernetes RuntimeKind = "kubernetes"
)

// Values returns all possible RuntimeKind values.
func (RuntimeKind) Values() []string {
	return []string{string(RuntimePython), string(RuntimeDocker), string(RuntimeKubernetes)}
}

func (k RuntimeKind) Valid() bool {
	switch k {
	case RuntimePython, RuntimeDocker, RuntimeKubernetes:
		return true
	}
	return false
}

// MarshalYAML implements yaml.Marshaler for RuntimeKind.
func (k RuntimeKind) MarshalYAML() (interface{}, error) {
	return string(k), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for RuntimeKind.
func (k *RuntimeKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*k = RuntimeKind(s)
	return nil
}

// CodeType identifies whether UserCode is a single file or a folder.
type CodeType string

const (
	CodeTypeFile   CodeType = "file"
	CodeTypeFolder CodeType = "folder"
)

func (CodeType) Values() []string {
	return []string{string(CodeTypeFile), string(CodeTypeFolder)}
}

// JobStatus is the Job lifecycle state, see internal/job for the
// transition table.
type JobStatus string

const (
	JobStatusPendingCodeReview JobStatus = "pending_code_review"
	JobStatusRejected          JobStatus = "rejected"
	JobStatusApproved          JobStatus = "approved"
	JobStatusInProgress        JobStatus = "job_in_progress"
	JobStatusRunFinished       JobStatus = "job_run_finished"
	JobStatusRunFailed         JobStatus = "job_run_failed"
	JobStatusShared            JobStatus = "shared"
)

// Values returns all possible JobStatus values.
func (JobStatus) Values() []string {
	return []string{
		string(JobStatusPendingCodeReview),
		string(JobStatusRejected),
		string(JobStatusApproved),
		string(JobStatusInProgress),
		string(JobStatusRunFinished),
		string(JobStatusRunFailed),
		string(JobStatusShared),
	}
}

func (s JobStatus) Valid() bool {
	for _, v := range JobStatus("").Values() {
		if string(s) == v {
			return true
		}
	}
	return false
}

func (s JobStatus) MarshalYAML() (interface{}, error) {
	return string(s), nil
}

func (s *JobStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v string
	if err := unmarshal(&v); err != nil {
		return err
	}
	*s = JobStatus(v)
	return nil
}

// LogLevel is the small set of levels the runner's log-line parser
// recognises at the start of a stderr line.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
	LogLevelUnknown  LogLevel = ""
)

// FieldType tags the semantic type of an entity field for the store's
// filter/update coercer (see internal/store/coerce.go).
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeUUID    FieldType = "uuid"
	FieldTypeInstant FieldType = "instant"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeInt     FieldType = "int"
	FieldTypeBool    FieldType = "bool"
)

// ErrInvalidEnumValue is returned by strict enum parsers.
func ErrInvalidEnumValue(kind string, value string) error {
	return fmt.Errorf("invalid %s value: %q", kind, value)
}

// ParseRuntimeKind parses a string into a RuntimeKind, rejecting unknown values.
func ParseRuntimeKind(s string) (RuntimeKind, error) {
	k := RuntimeKind(s)
	if !k.Valid() {
		return "", ErrInvalidEnumValue("runtime kind", s)
	}
	return k, nil
}
