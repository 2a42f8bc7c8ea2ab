package server

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rds/internal/entity"
	"rds/internal/rpc"
	"rds/internal/store"
)

func (s *Server) registerDatasetHandlers(r *rpc.Router) {
	r.Handle(DatasetCreate, s.handleDatasetCreate)
	r.Handle(DatasetGetOne, s.handleDatasetGetOne)
	r.Handle(DatasetGetAll, s.handleDatasetGetAll)
	r.Handle(DatasetUpdate, s.handleDatasetUpdate)
	r.Handle(DatasetDelete, s.handleDatasetDelete)
}

func (s *Server) handleDatasetCreate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanCreateDataset(ctx); err != nil {
		return fail(req, err)
	}

	var in entity.DatasetCreate
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	ds := entity.Dataset{
		Envelope:    entity.NewEnvelope(in.Name, in.CreatedBy, time.Now().UTC()),
		Summary:     in.Summary,
		PrivatePath: in.PrivatePath,
		MockPath:    in.MockPath,
		RuntimeID:   in.RuntimeID,
	}
	ds.Tags = in.Tags
	ds.Description = in.Description

	created, err := s.datasets.Create(ctx, ds)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, redactDataset(ctx, s.gate, created))
}

func (s *Server) handleDatasetGetOne(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	ds, err := s.datasets.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, redactDataset(ctx, s.gate, ds))
}

func (s *Server) handleDatasetGetAll(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var q store.Query
	if resp, ok := decode(req, &q); !ok {
		return resp
	}
	all, err := s.datasets.GetAll(ctx, q)
	if err != nil {
		return fail(req, err)
	}
	out := make([]entity.Dataset, len(all))
	for i, ds := range all {
		out[i] = redactDataset(ctx, s.gate, ds)
	}
	return reply(req, out)
}

func (s *Server) handleDatasetUpdate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanUpdateDataset(ctx); err != nil {
		return fail(req, err)
	}

	var in struct {
		UID     uuid.UUID
		Partial map[string]any
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	updated, err := s.datasets.Update(ctx, in.UID, in.Partial)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, redactDataset(ctx, s.gate, updated))
}

func (s *Server) handleDatasetDelete(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	if err := s.gate.CanDeleteDataset(ctx); err != nil {
		return fail(req, err)
	}
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	ds, err := s.datasets.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}

	deleted, err := s.datasets.Delete(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}

	// A deleted Dataset's mock and private trees go with it: a stale
	// handle must not be able to resolve either path afterward.
	if err := os.RemoveAll(ds.MockPath); err != nil {
		s.log.Warn("removing dataset mock path", zap.String("dataset", ds.UID.String()), zap.Error(err))
	}
	if err := os.RemoveAll(ds.PrivatePath); err != nil {
		s.log.Warn("removing dataset private path", zap.String("dataset", ds.UID.String()), zap.Error(err))
	}

	return reply(req, map[string]bool{"deleted": deleted})
}

// redactDataset blanks PrivatePath for any caller who cannot read it,
// so a guest listing datasets never sees the owner's private
// filesystem layout.
func redactDataset(ctx context.Context, gate gateChecker, ds entity.Dataset) entity.Dataset {
	if gate.CanReadDatasetPrivatePath(ctx) != nil {
		ds.PrivatePath = ""
	}
	return ds
}

// gateChecker is the subset of *authz.Gate redactDataset needs, kept
// narrow so it is trivially fakeable in tests.
type gateChecker interface {
	CanReadDatasetPrivatePath(ctx context.Context) error
}
