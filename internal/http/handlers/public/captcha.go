package public

import (
	"errors"

	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha issues an image challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		if errors.Is(err, service.ErrCaptchaConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, challenge)
}
