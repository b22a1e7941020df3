package admin

import (
	"github.com/dorada-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

type createAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsSuper  bool   `json:"is_super"`
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.AdminAuthService.ListAdmins(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, admins)
}

// CreateAdmin adds an account; roles are assigned separately.
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	admin, err := h.AdminAuthService.CreateAdmin(c.Request.Context(), req.Username, req.Password, req.IsSuper)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_account_created", "admin_id", admin.ID, "username", admin.Username)
	response.Success(c, admin)
}
