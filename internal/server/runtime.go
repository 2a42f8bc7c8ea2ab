package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/rpc"
	"rds/internal/store"
)

func (s *Server) registerRuntimeHandlers(r *rpc.Router) {
	r.Handle(RuntimeCreate, s.handleRuntimeCreate)
	r.Handle(RuntimeGetOne, s.handleRuntimeGetOne)
	r.Handle(RuntimeGetAll, s.handleRuntimeGetAll)
	r.Handle(RuntimeUpdate, s.handleRuntimeUpdate)
	r.Handle(RuntimeDelete, s.handleRuntimeDelete)
}

func (s *Server) handleRuntimeCreate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanCreateRuntime(ctx); err != nil {
		return fail(req, err)
	}

	var in entity.RuntimeCreate
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	rt := entity.Runtime{
		Envelope: entity.NewEnvelope(in.Name, in.CreatedBy, time.Now().UTC()),
		Kind:     in.Kind,
		Cmd:      in.Cmd,
		Config:   in.Config,
	}
	rt.Tags = in.Tags
	rt.Description = in.Description

	created, err := s.runtimes.Create(ctx, rt)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, created)
}

func (s *Server) handleRuntimeGetOne(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	rt, err := s.runtimes.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, rt)
}

func (s *Server) handleRuntimeGetAll(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var q store.Query
	if resp, ok := decode(req, &q); !ok {
		return resp
	}
	all, err := s.runtimes.GetAll(ctx, q)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, all)
}

func (s *Server) handleRuntimeUpdate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanUpdateRuntime(ctx); err != nil {
		return fail(req, err)
	}
	var in struct {
		UID     uuid.UUID
		Partial map[string]any
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	updated, err := s.runtimes.Update(ctx, in.UID, in.Partial)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, updated)
}

func (s *Server) handleRuntimeDelete(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanDeleteRuntime(ctx); err != nil {
		return fail(req, err)
	}
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	deleted, err := s.runtimes.Delete(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, map[string]bool{"deleted": deleted})
}
