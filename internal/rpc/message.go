// Package rpc implements the file-backed mailbox transport: request
// and response envelopes exchanged as atomically-written files under a
// shared datasite directory, plus an in-process MockTransport for
// tests and co-located clients.
package rpc

import (
	"time"

	"github.com/google/uuid"
)

// Endpoint identifies one namespaced RPC handler, e.g. "dataset/create"
// or "health".
type Endpoint string

// Request is a single RPC call, addressed to an Endpoint and carrying
// an arbitrary body the handler knows how to decode.
type Request struct {
	ID        uuid.UUID `yaml:"id"`
	Endpoint  Endpoint  `yaml:"endpoint"`
	Sender    string    `yaml:"sender"`
	Body      []byte    `yaml:"body"`
	SentAt    time.Time `yaml:"sent_at"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// Expired reports whether the request's expiry has passed as of now.
func (r Request) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Response correlates to a Request by ID.
type Response struct {
	RequestID uuid.UUID `yaml:"request_id"`
	Status    int       `yaml:"status"`
	Body      []byte    `yaml:"body"`
	Error     string    `yaml:"error,omitempty"`
	SentAt    time.Time `yaml:"sent_at"`
}

// OK reports whether the response represents a successful call.
func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusInternalServerError = 500
)
