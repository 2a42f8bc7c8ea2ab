package client

import (
	"context"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/store"
)

// RuntimeClient is the Runtime CRUD surface.
type RuntimeClient struct{ c *Client }

func (r *RuntimeClient) Create(ctx context.Context, in entity.RuntimeCreate) (entity.Runtime, error) {
	var out entity.Runtime
	err := r.c.call(ctx, runtimeCreate, in, &out)
	return out, err
}

func (r *RuntimeClient) Get(ctx context.Context, uid uuid.UUID) (entity.Runtime, error) {
	var out entity.Runtime
	err := r.c.call(ctx, runtimeGetOne, uidRequest{UID: uid}, &out)
	return out, err
}

func (r *RuntimeClient) GetAll(ctx context.Context, q store.Query) ([]entity.Runtime, error) {
	var out []entity.Runtime
	err := r.c.call(ctx, runtimeGetAll, q, &out)
	return out, err
}

func (r *RuntimeClient) Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (entity.Runtime, error) {
	var out entity.Runtime
	err := r.c.call(ctx, runtimeUpdate, partialRequest{UID: uid, Partial: partial}, &out)
	return out, err
}

func (r *RuntimeClient) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	var out deletedResponse
	err := r.c.call(ctx, runtimeDelete, uidRequest{UID: uid}, &out)
	return out.Deleted, err
}
