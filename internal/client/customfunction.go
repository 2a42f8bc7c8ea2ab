package client

import (
	"context"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/store"
)

// CustomFunctionClient is the CustomFunction CRUD surface.
type CustomFunctionClient struct{ c *Client }

func (f *CustomFunctionClient) Create(ctx context.Context, in entity.CustomFunctionCreate) (entity.CustomFunction, error) {
	var out entity.CustomFunction
	err := f.c.call(ctx, customFunctionCreate, in, &out)
	return out, err
}

func (f *CustomFunctionClient) Get(ctx context.Context, uid uuid.UUID) (entity.CustomFunction, error) {
	var out entity.CustomFunction
	err := f.c.call(ctx, customFunctionGetOne, uidRequest{UID: uid}, &out)
	return out, err
}

func (f *CustomFunctionClient) GetAll(ctx context.Context, q store.Query) ([]entity.CustomFunction, error) {
	var out []entity.CustomFunction
	err := f.c.call(ctx, customFunctionGetAll, q, &out)
	return out, err
}

func (f *CustomFunctionClient) Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (entity.CustomFunction, error) {
	var out entity.CustomFunction
	err := f.c.call(ctx, customFunctionUpdate, partialRequest{UID: uid, Partial: partial}, &out)
	return out, err
}

func (f *CustomFunctionClient) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	var out deletedResponse
	err := f.c.call(ctx, customFunctionDelete, uidRequest{UID: uid}, &out)
	return out.Deleted, err
}
