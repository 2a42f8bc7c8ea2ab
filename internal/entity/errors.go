package entity

import "errors"

// Sentinel error kinds, checked with errors.Is, mirroring the
// surface-independent error kinds in the error handling design.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrPermission        = errors.New("permission denied")
	ErrInvalidUpdate     = errors.New("invalid update")
	ErrMismatch          = errors.New("uid mismatch")
	ErrTransportTimeout  = errors.New("transport timeout")
	ErrRuntimeUnavailable = errors.New("runtime unavailable")
	ErrJobFailed         = errors.New("job failed")
	ErrNotReady          = errors.New("not ready")
)
