package service

import (
	"context"
	"testing"

	"github.com/dorada-store/internal/authz"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRolesRecordsAudit(t *testing.T) {
	db := openTestDB(t)
	enforcer, err := authz.NewService(db)
	require.NoError(t, err)
	require.NoError(t, enforcer.BootstrapBuiltinRoles())

	admins := repository.NewAdminRepository(db)
	owner := &models.Admin{Username: "owner", PasswordHash: "x", IsSuper: true}
	clerk := &models.Admin{Username: "clerk", PasswordHash: "x"}
	require.NoError(t, admins.Create(owner))
	require.NoError(t, admins.Create(clerk))

	svc := NewAuthzAuditService(enforcer, admins, repository.NewAuthzAuditLogRepository(db))
	ctx := context.Background()
	operator := AdminIdentity{AdminID: owner.ID, Username: owner.Username, IsSuper: true}

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Contains(t, roles, "role:order_desk")

	_, err = svc.AssignRoles(ctx, operator, clerk.ID, []string{"ghost"}, "req-1")
	assert.ErrorIs(t, err, ErrRoleInvalid)
	_, err = svc.AssignRoles(ctx, operator, clerk.ID+10, []string{"order_desk"}, "req-1")
	assert.ErrorIs(t, err, ErrAdminNotFound)

	assigned, err := svc.AssignRoles(ctx, operator, clerk.ID, []string{"order_desk"}, " req-2 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"role:order_desk"}, assigned.Roles)

	allowed, err := enforcer.EnforceAdmin(clerk.ID, "/api/v1/admin/orders/:id/status", "PUT")
	require.NoError(t, err)
	assert.True(t, allowed)

	assignments, err := svc.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	logs, total, err := svc.ListAudit(ctx, repository.AuthzAuditLogListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "clerk", logs[0].TargetUsername)
	assert.Equal(t, "owner", logs[0].OperatorUsername)
	assert.Equal(t, "req-2", logs[0].RequestID)
	assert.Equal(t, "assign_roles", logs[0].Action)
}
