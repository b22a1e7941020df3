package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/repository"

	"github.com/gin-gonic/gin"
)

type assignRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListRoles returns every role with its route policies.
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzAuditService.ListRoles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	items := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		policies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondServiceError(c, err, "error.internal_error")
			return
		}
		items = append(items, gin.H{"role": role, "policies": policies})
	}
	response.Success(c, items)
}

// ListAssignments lists admins with their roles.
func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.AuthzAuditService.ListAssignments(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, assignments)
}

// AssignRoles replaces an admin's roles and records the change.
func (h *Handler) AssignRoles(c *gin.Context) {
	operator, ok := currentIdentity(c)
	if !ok {
		return
	}
	targetID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req assignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	assignment, err := h.AuthzAuditService.AssignRoles(c.Request.Context(), operator, targetID, req.Roles, handlershared.RequestID(c))
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, assignment)
}

// ListAuditLogs pages through role changes, optionally for one admin.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	var targetAdminID uint
	if raw := strings.TrimSpace(c.Query("target_admin_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		targetAdminID = uint(parsed)
	}
	logs, total, err := h.AuthzAuditService.ListAudit(c.Request.Context(), repository.AuthzAuditLogListFilter{
		Page:          page,
		PageSize:      pageSize,
		TargetAdminID: targetAdminID,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, logs, handlershared.BuildPagination(page, pageSize, total))
}
