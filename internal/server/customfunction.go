package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/rpc"
	"rds/internal/store"
)

func (s *Server) registerCustomFunctionHandlers(r *rpc.Router) {
	r.Handle(CustomFunctionCreate, s.handleCustomFunctionCreate)
	r.Handle(CustomFunctionGetOne, s.handleCustomFunctionGetOne)
	r.Handle(CustomFunctionGetAll, s.handleCustomFunctionGetAll)
	r.Handle(CustomFunctionUpdate, s.handleCustomFunctionUpdate)
	r.Handle(CustomFunctionDelete, s.handleCustomFunctionDelete)
}

func (s *Server) handleCustomFunctionCreate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanCreateCustomFunction(ctx); err != nil {
		return fail(req, err)
	}

	var in entity.CustomFunctionCreate
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	cf := entity.CustomFunction{
		Envelope:       entity.NewEnvelope(in.Name, in.CreatedBy, time.Now().UTC()),
		Entrypoint:     in.Entrypoint,
		ReadmeFilename: in.ReadmeFilename,
	}
	cf.Tags = in.Tags
	cf.Description = in.Description

	created, err := s.customFunctions.Create(ctx, cf)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, created)
}

func (s *Server) handleCustomFunctionGetOne(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	cf, err := s.customFunctions.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, cf)
}

func (s *Server) handleCustomFunctionGetAll(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var q store.Query
	if resp, ok := decode(req, &q); !ok {
		return resp
	}
	all, err := s.customFunctions.GetAll(ctx, q)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, all)
}

func (s *Server) handleCustomFunctionUpdate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanUpdateCustomFunction(ctx); err != nil {
		return fail(req, err)
	}
	var in struct {
		UID     uuid.UUID
		Partial map[string]any
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	updated, err := s.customFunctions.Update(ctx, in.UID, in.Partial)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, updated)
}

func (s *Server) handleCustomFunctionDelete(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanDeleteCustomFunction(ctx); err != nil {
		return fail(req, err)
	}
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	deleted, err := s.customFunctions.Delete(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, map[string]bool{"deleted": deleted})
}
