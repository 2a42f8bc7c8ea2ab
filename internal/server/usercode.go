package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/rpc"
	"rds/internal/store"
)

func (s *Server) registerUserCodeHandlers(r *rpc.Router) {
	r.Handle(UserCodeCreate, s.handleUserCodeCreate)
	r.Handle(UserCodeGetOne, s.handleUserCodeGetOne)
	r.Handle(UserCodeGetAll, s.handleUserCodeGetAll)
	r.Handle(UserCodeUpdate, s.handleUserCodeUpdate)
	r.Handle(UserCodeDelete, s.handleUserCodeDelete)
}

func (s *Server) handleUserCodeCreate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanCreateUserCode(ctx); err != nil {
		return fail(req, err)
	}

	var in entity.UserCodeCreate
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	uc := entity.UserCode{
		Envelope:   entity.NewEnvelope(in.Name, in.CreatedBy, time.Now().UTC()),
		Entrypoint: in.Entrypoint,
		CodeType:   in.CodeType,
		LocalDir:   in.LocalDir,
	}
	uc.Tags = in.Tags
	uc.Description = in.Description

	created, err := s.userCodes.Create(ctx, uc)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, created)
}

func (s *Server) handleUserCodeGetOne(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	uc, err := s.userCodes.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, uc)
}

func (s *Server) handleUserCodeGetAll(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var q store.Query
	if resp, ok := decode(req, &q); !ok {
		return resp
	}
	all, err := s.userCodes.GetAll(ctx, q)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, all)
}

func (s *Server) handleUserCodeUpdate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct {
		UID     uuid.UUID
		Partial map[string]any
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	existing, err := s.userCodes.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	if err := s.gate.CanUpdateUserCode(ctx, existing.CreatedBy); err != nil {
		return fail(req, err)
	}
	updated, err := s.userCodes.Update(ctx, in.UID, in.Partial)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, updated)
}

func (s *Server) handleUserCodeDelete(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanDeleteUserCode(ctx); err != nil {
		return fail(req, err)
	}
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	deleted, err := s.userCodes.Delete(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, map[string]bool{"deleted": deleted})
}
