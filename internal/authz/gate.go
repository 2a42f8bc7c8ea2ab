package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rds/internal/entity"
)

// Gate is the datasite owner's permission boundary. Every mutating RPC
// endpoint calls the matching guard before touching the store; read
// guards stay open except where the entity model says otherwise
// (PrivatePath, creator-restricted job reads).
type Gate struct {
	ownerEmail string
}

// NewGate builds a Gate for the given datasite owner email.
func NewGate(ownerEmail string) *Gate {
	return &Gate{ownerEmail: ownerEmail}
}

func (g *Gate) roleFor(ctx context.Context) Role {
	return DeriveRole(CallerEmail(ctx), g.ownerEmail)
}

func (g *Gate) requireAdmin(ctx context.Context, op string) error {
	if g.roleFor(ctx) != RoleAdmin {
		return fmt.Errorf("%w: %s requires the datasite owner", entity.ErrPermission, op)
	}
	return nil
}

// CanCreateDataset: admin-only.
func (g *Gate) CanCreateDataset(ctx context.Context) error {
	return g.requireAdmin(ctx, "create dataset")
}

// CanUpdateDataset: admin-only.
func (g *Gate) CanUpdateDataset(ctx context.Context) error {
	return g.requireAdmin(ctx, "update dataset")
}

// CanDeleteDataset: admin-only.
func (g *Gate) CanDeleteDataset(ctx context.Context) error {
	return g.requireAdmin(ctx, "delete dataset")
}

// CanReadDatasetPrivatePath: admin-only, even when the dataset record
// itself is visible to every caller.
func (g *Gate) CanReadDatasetPrivatePath(ctx context.Context) error {
	return g.requireAdmin(ctx, "read dataset private_path")
}

// CanCreateRuntime: admin-only.
func (g *Gate) CanCreateRuntime(ctx context.Context) error {
	return g.requireAdmin(ctx, "create runtime")
}

// CanUpdateRuntime: admin-only.
func (g *Gate) CanUpdateRuntime(ctx context.Context) error {
	return g.requireAdmin(ctx, "update runtime")
}

// CanDeleteRuntime: admin-only.
func (g *Gate) CanDeleteRuntime(ctx context.Context) error {
	return g.requireAdmin(ctx, "delete runtime")
}

// CanCreateJob: open to every caller.
func (g *Gate) CanCreateJob(ctx context.Context) error { return nil }

// CanMutateJobStatus: admin-only (approve/reject/run/share_results).
func (g *Gate) CanMutateJobStatus(ctx context.Context) error {
	return g.requireAdmin(ctx, "mutate job status")
}

// CanDeleteJob: admin-only.
func (g *Gate) CanDeleteJob(ctx context.Context) error {
	return g.requireAdmin(ctx, "delete job")
}

// CanReadJob: the job's creator or admin.
func (g *Gate) CanReadJob(ctx context.Context, createdBy string) error {
	if g.roleFor(ctx) == RoleAdmin {
		return nil
	}
	if CallerEmail(ctx) != "" && CallerEmail(ctx) == createdBy {
		return nil
	}
	return fmt.Errorf("%w: read job requires its creator or the datasite owner", entity.ErrPermission)
}

// CanCreateUserCode: open to every caller.
func (g *Gate) CanCreateUserCode(ctx context.Context) error { return nil }

// CanUpdateUserCode: the submitting Data Scientist or admin.
func (g *Gate) CanUpdateUserCode(ctx context.Context, createdBy string) error {
	if g.roleFor(ctx) == RoleAdmin {
		return nil
	}
	if CallerEmail(ctx) != "" && CallerEmail(ctx) == createdBy {
		return nil
	}
	return fmt.Errorf("%w: update usercode requires its submitter or the datasite owner", entity.ErrPermission)
}

// CanDeleteUserCode: admin-only.
func (g *Gate) CanDeleteUserCode(ctx context.Context) error {
	return g.requireAdmin(ctx, "delete usercode")
}

// CanCreateCustomFunction: admin-only.
func (g *Gate) CanCreateCustomFunction(ctx context.Context) error {
	return g.requireAdmin(ctx, "create customfunction")
}

// CanUpdateCustomFunction: admin-only.
func (g *Gate) CanUpdateCustomFunction(ctx context.Context) error {
	return g.requireAdmin(ctx, "update customfunction")
}

// CanDeleteCustomFunction: admin-only.
func (g *Gate) CanDeleteCustomFunction(ctx context.Context) error {
	return g.requireAdmin(ctx, "delete customfunction")
}

// Subject identifies the resource a guard decision applies to, used
// only for logging/error context by callers that want it.
type Subject struct {
	Kind string
	UID  uuid.UUID
}

func (s Subject) String() string { return fmt.Sprintf("%s/%s", s.Kind, s.UID) }
