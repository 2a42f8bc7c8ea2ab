package server

import (
	"errors"

	"gopkg.in/yaml.v3"

	"rds/internal/entity"
	"rds/internal/rpc"
)

// decode unmarshals req.Body into v, responding with a 400 on failure.
// The returned bool reports whether decoding succeeded; callers should
// return the accompanying Response immediately when it is false.
func decode(req rpc.Request, v any) (rpc.Response, bool) {
	if len(req.Body) == 0 {
		return rpc.Response{}, true
	}
	if err := yaml.Unmarshal(req.Body, v); err != nil {
		return errResponse(req, rpc.StatusBadRequest, err), false
	}
	return rpc.Response{}, true
}

// reply encodes v as the body of a 200 response.
func reply(req rpc.Request, v any) rpc.Response {
	body, err := yaml.Marshal(v)
	if err != nil {
		return errResponse(req, rpc.StatusInternalServerError, err)
	}
	return rpc.Response{RequestID: req.ID, Status: rpc.StatusOK, Body: body}
}

// errResponse builds a Response carrying status and err's message.
func errResponse(req rpc.Request, status int, err error) rpc.Response {
	return rpc.Response{RequestID: req.ID, Status: status, Error: err.Error()}
}

// fail maps a domain error onto the Response status the transport
// convention expects, preserving the error text for the caller.
func fail(req rpc.Request, err error) rpc.Response {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return errResponse(req, rpc.StatusNotFound, err)
	case errors.Is(err, entity.ErrPermission):
		return errResponse(req, rpc.StatusForbidden, err)
	case errors.Is(err, entity.ErrAlreadyExists),
		errors.Is(err, entity.ErrMismatch),
		errors.Is(err, entity.ErrInvalidUpdate),
		errors.Is(err, entity.ErrNotReady):
		return errResponse(req, rpc.StatusConflict, err)
	default:
		return errResponse(req, rpc.StatusInternalServerError, err)
	}
}
