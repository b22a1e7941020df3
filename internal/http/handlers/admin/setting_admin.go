package admin

import (
	"errors"

	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

type telegramTestRequest struct {
	BotToken string `json:"botToken"`
	ChatID   string `json:"chatId"`
}

// GetTelegramSetting never returns the full bot token.
func (h *Handler) GetTelegramSetting(c *gin.Context) {
	setting, err := h.SettingService.GetTelegram(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, setting.Masked())
}

// UpdateTelegramSetting keeps the stored token when the form sends back the
// masked value.
func (h *Handler) UpdateTelegramSetting(c *gin.Context) {
	var req service.TelegramSettingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	setting, err := h.SettingService.UpdateTelegram(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.settings_saved"), setting.Masked())
}

// TestTelegram sends a test message with the given or stored credentials.
func (h *Handler) TestTelegram(c *gin.Context) {
	var req telegramTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	username, err := h.NotificationService.TestConnection(c.Request.Context(), req.BotToken, req.ChatID)
	if err != nil {
		respondNotifyError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.telegram_connected"), gin.H{"bot": username})
}

func respondNotifyError(c *gin.Context, err error) {
	var notifyErr *service.NotifyError
	if errors.As(err, &notifyErr) {
		requestLog(c).Warnw("telegram_test_failed", "op", notifyErr.Op, "error", err)
		response.ErrorWithData(c, response.CodeBadRequest,
			i18n.T(i18n.ResolveLocale(c), "error.telegram_connect_failed"),
			gin.H{"detail": notifyErr.Err.Error()},
		)
		return
	}
	respondServiceError(c, err, "error.telegram_connect_failed")
}
