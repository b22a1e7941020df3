package service

import (
	"context"
	"strings"
	"time"

	"github.com/dorada-store/internal/authz"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"
)

// RoleAssignment is one admin with their casbin roles.
type RoleAssignment struct {
	AdminID  uint     `json:"admin_id"`
	Username string   `json:"username"`
	IsSuper  bool     `json:"is_super"`
	Roles    []string `json:"roles"`
}

// AuthzAuditService assigns admin roles and keeps the audit trail of every
// assignment.
type AuthzAuditService struct {
	authz  *authz.Service
	admins repository.AdminRepository
	repo   repository.AuthzAuditLogRepository
}

func NewAuthzAuditService(authzService *authz.Service, admins repository.AdminRepository, repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{authz: authzService, admins: admins, repo: repo}
}

// ListRoles returns the role names known to the enforcer.
func (s *AuthzAuditService) ListRoles(ctx context.Context) ([]string, error) {
	roles, err := s.authz.ListRoles()
	if err != nil {
		return nil, storageError("list roles", err)
	}
	return roles, nil
}

// ListAssignments returns every admin with their roles.
func (s *AuthzAuditService) ListAssignments(ctx context.Context) ([]RoleAssignment, error) {
	admins, err := s.admins.List()
	if err != nil {
		return nil, storageError("list admins", err)
	}
	out := make([]RoleAssignment, 0, len(admins))
	for _, admin := range admins {
		roles, err := s.authz.GetAdminRoles(admin.ID)
		if err != nil {
			return nil, storageError("get admin roles", err)
		}
		out = append(out, RoleAssignment{AdminID: admin.ID, Username: admin.Username, IsSuper: admin.IsSuper, Roles: roles})
	}
	return out, nil
}

// AssignRoles replaces the target admin's roles and records who did it.
func (s *AuthzAuditService) AssignRoles(ctx context.Context, operator AdminIdentity, targetID uint, roles []string, requestID string) (*RoleAssignment, error) {
	target, err := s.admins.GetByID(targetID)
	if err != nil {
		return nil, storageError("get admin", err)
	}
	if target == nil {
		return nil, ErrAdminNotFound
	}
	known, err := s.authz.ListRoles()
	if err != nil {
		return nil, storageError("list roles", err)
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, role := range known {
		knownSet[role] = struct{}{}
	}
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := authz.NormalizeRole(role)
		if err != nil {
			return nil, ErrRoleInvalid
		}
		if _, ok := knownSet[name]; !ok {
			return nil, ErrRoleInvalid
		}
		normalized = append(normalized, name)
	}
	if err := s.authz.SetAdminRoles(targetID, normalized); err != nil {
		return nil, storageError("set admin roles", err)
	}
	assigned, err := s.authz.GetAdminRoles(targetID)
	if err != nil {
		return nil, storageError("get admin roles", err)
	}

	entry := &models.AuthzAuditLog{
		OperatorAdminID:  operator.AdminID,
		OperatorUsername: operator.Username,
		TargetAdminID:    target.ID,
		TargetUsername:   target.Username,
		Action:           "assign_roles",
		Roles:            models.StringArray(assigned),
		RequestID:        strings.TrimSpace(requestID),
		CreatedAt:        time.Now(),
	}
	if err := s.repo.Create(entry); err != nil {
		logger.Warnw("authz_audit_record_failed", "target_admin_id", targetID, "error", err)
	}
	return &RoleAssignment{AdminID: target.ID, Username: target.Username, IsSuper: target.IsSuper, Roles: assigned}, nil
}

// ListAudit pages through the audit trail.
func (s *AuthzAuditService) ListAudit(ctx context.Context, filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	logs, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, storageError("list authz audit", err)
	}
	return logs, total, nil
}

