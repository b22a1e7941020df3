package admin

import (
	"strings"

	"github.com/dorada-store/internal/constants"
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

type accessRequest struct {
	AccessKey string `json:"access_key" binding:"required"`
}

type setupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest admin credentials plus the optional captcha answer.
type LoginRequest struct {
	Username string                              `json:"username" binding:"required"`
	Password string                              `json:"password" binding:"required"`
	Captcha  handlershared.CaptchaPayloadRequest `json:"captcha"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// GrantAccess trades the admin area key for a short access session that
// the login form must present.
func (h *Handler) GrantAccess(c *gin.Context) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	session, err := h.AdminAuthService.GrantAccess(req.AccessKey)
	if err != nil {
		requestLog(c).Warnw("admin_access_denied", "client_ip", c.ClientIP())
		respondServiceError(c, err, "error.access_key_invalid")
		return
	}
	response.Success(c, session)
}

func (h *Handler) GetSetupStatus(c *gin.Context) {
	done, err := h.AdminAuthService.IsSetup(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, gin.H{
		"initialized":   done,
		"setup_enabled": h.Config.Admin.SetupEnabled && !done,
	})
}

// Setup creates the first admin while setup is enabled.
func (h *Handler) Setup(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	admin, err := h.AdminAuthService.Setup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, admin)
}

// Login requires the access session in the X-Admin-Access header.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	session, err := h.AdminAuthService.Login(
		c.Request.Context(),
		strings.TrimSpace(c.GetHeader(constants.HeaderAdminAccess)),
		service.LoginInput{
			Username: req.Username,
			Password: req.Password,
			Captcha:  req.Captcha.ToServicePayload(),
		},
		c.ClientIP(),
	)
	if err != nil {
		respondServiceError(c, err, "error.login_invalid")
		return
	}
	response.Success(c, session)
}

// Logout revokes every session of the caller.
func (h *Handler) Logout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if err := h.AdminAuthService.Logout(c.Request.Context(), adminID); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.logged_out"), nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AdminAuthService.Me(c.Request.Context(), adminID)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		requestLog(c).Warnw("admin_roles_fetch_failed", "admin_id", adminID, "error", err)
		roles = []string{}
	}
	response.Success(c, gin.H{
		"admin": admin,
		"roles": roles,
	})
}

// ChangePassword signs the caller out everywhere on success.
func (h *Handler) ChangePassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AdminAuthService.ChangePassword(c.Request.Context(), adminID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.password_changed"), nil)
}
