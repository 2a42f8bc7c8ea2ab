package client

import (
	"context"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/store"
)

// UserCodeClient is the UserCode CRUD surface.
type UserCodeClient struct{ c *Client }

func (u *UserCodeClient) Create(ctx context.Context, in entity.UserCodeCreate) (entity.UserCode, error) {
	var out entity.UserCode
	err := u.c.call(ctx, userCodeCreate, in, &out)
	return out, err
}

func (u *UserCodeClient) Get(ctx context.Context, uid uuid.UUID) (entity.UserCode, error) {
	var out entity.UserCode
	err := u.c.call(ctx, userCodeGetOne, uidRequest{UID: uid}, &out)
	return out, err
}

func (u *UserCodeClient) GetAll(ctx context.Context, q store.Query) ([]entity.UserCode, error) {
	var out []entity.UserCode
	err := u.c.call(ctx, userCodeGetAll, q, &out)
	return out, err
}

func (u *UserCodeClient) Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (entity.UserCode, error) {
	var out entity.UserCode
	err := u.c.call(ctx, userCodeUpdate, partialRequest{UID: uid, Partial: partial}, &out)
	return out, err
}

func (u *UserCodeClient) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	var out deletedResponse
	err := u.c.call(ctx, userCodeDelete, uidRequest{UID: uid}, &out)
	return out.Deleted, err
}
