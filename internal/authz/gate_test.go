package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"rds/internal/entity"
)

const ownerEmail = "owner@example.com"

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		name   string
		caller string
		want   Role
	}{
		{"matching email is admin", ownerEmail, RoleAdmin},
		{"other email is guest", "ds@example.com", RoleGuest},
		{"empty email is guest", "", RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRole(tt.caller, ownerEmail))
		})
	}
}

func TestGate_AdminOnlyGuards(t *testing.T) {
	g := NewGate(ownerEmail)
	adminCtx := WithCallerEmail(context.Background(), ownerEmail)
	guestCtx := WithCallerEmail(context.Background(), "ds@example.com")

	guards := []func(context.Context) error{
		g.CanCreateDataset,
		g.CanUpdateDataset,
		g.CanDeleteDataset,
		g.CanReadDatasetPrivatePath,
		g.CanCreateRuntime,
		g.CanUpdateRuntime,
		g.CanDeleteRuntime,
		g.CanMutateJobStatus,
		g.CanDeleteJob,
		g.CanDeleteUserCode,
		g.CanCreateCustomFunction,
		g.CanUpdateCustomFunction,
		g.CanDeleteCustomFunction,
	}
	for _, guard := range guards {
		assert.NoError(t, guard(adminCtx))
		assert.ErrorIs(t, guard(guestCtx), entity.ErrPermission)
	}
}

func TestGate_OpenGuards(t *testing.T) {
	g := NewGate(ownerEmail)
	guestCtx := WithCallerEmail(context.Background(), "ds@example.com")

	assert.NoError(t, g.CanCreateJob(guestCtx))
	assert.NoError(t, g.CanCreateUserCode(guestCtx))
}

func TestGate_CanReadJob(t *testing.T) {
	g := NewGate(ownerEmail)
	creator := "ds@example.com"
	creatorCtx := WithCallerEmail(context.Background(), creator)
	adminCtx := WithCallerEmail(context.Background(), ownerEmail)
	otherCtx := WithCallerEmail(context.Background(), "other@example.com")

	assert.NoError(t, g.CanReadJob(creatorCtx, creator))
	assert.NoError(t, g.CanReadJob(adminCtx, creator))
	assert.ErrorIs(t, g.CanReadJob(otherCtx, creator), entity.ErrPermission)
}

func TestGate_CanUpdateUserCode(t *testing.T) {
	g := NewGate(ownerEmail)
	submitter := "ds@example.com"
	submitterCtx := WithCallerEmail(context.Background(), submitter)
	adminCtx := WithCallerEmail(context.Background(), ownerEmail)
	otherCtx := WithCallerEmail(context.Background(), "other@example.com")

	assert.NoError(t, g.CanUpdateUserCode(submitterCtx, submitter))
	assert.NoError(t, g.CanUpdateUserCode(adminCtx, submitter))
	assert.ErrorIs(t, g.CanUpdateUserCode(otherCtx, submitter), entity.ErrPermission)
}
