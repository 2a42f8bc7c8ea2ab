package client

import (
	"context"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/store"
)

// DatasetClient is the Dataset CRUD surface.
type DatasetClient struct{ c *Client }

func (d *DatasetClient) Create(ctx context.Context, in entity.DatasetCreate) (entity.Dataset, error) {
	var out entity.Dataset
	err := d.c.call(ctx, datasetCreate, in, &out)
	return out, err
}

func (d *DatasetClient) Get(ctx context.Context, uid uuid.UUID) (entity.Dataset, error) {
	var out entity.Dataset
	err := d.c.call(ctx, datasetGetOne, uidRequest{UID: uid}, &out)
	return out, err
}

func (d *DatasetClient) GetAll(ctx context.Context, q store.Query) ([]entity.Dataset, error) {
	var out []entity.Dataset
	err := d.c.call(ctx, datasetGetAll, q, &out)
	return out, err
}

func (d *DatasetClient) Update(ctx context.Context, uid uuid.UUID, partial map[string]any) (entity.Dataset, error) {
	var out entity.Dataset
	err := d.c.call(ctx, datasetUpdate, partialRequest{UID: uid, Partial: partial}, &out)
	return out, err
}

func (d *DatasetClient) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	var out deletedResponse
	err := d.c.call(ctx, datasetDelete, uidRequest{UID: uid}, &out)
	return out.Deleted, err
}
