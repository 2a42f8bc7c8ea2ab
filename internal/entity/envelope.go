package entity

import (
	"time"

	"github.com/google/uuid"
)

// Envelope holds the fields every entity kind shares. It is embedded
// by value in Dataset, Runtime, UserCode, Job and CustomFunction.
type Envelope struct {
	UID         uuid.UUID `yaml:"uid" rds:"coerce=uuid"`
	CreatedAt   time.Time `yaml:"created_at" rds:"coerce=instant"`
	UpdatedAt   time.Time `yaml:"updated_at" rds:"coerce=instant"`
	CreatedBy   string    `yaml:"created_by"`
	Tags        []string  `yaml:"tags,omitempty"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
}

// Kind identifies the entity kind for store routing and RPC endpoint
// namespacing (rds/<kind>/...).
type Kind interface {
	KindName() string
	GetUID() uuid.UUID
}

func (e Envelope) GetUID() uuid.UUID { return e.UID }

// NewEnvelope stamps a fresh UID and timestamps for entity creation.
func NewEnvelope(name, createdBy string, now time.Time) Envelope {
	return Envelope{
		UID:       uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
		Name:      name,
	}
}
