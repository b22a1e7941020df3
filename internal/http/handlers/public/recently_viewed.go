package public

import (
	"strconv"
	"strings"

	"github.com/dorada-store/internal/constants"
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/logger"

	"github.com/gin-gonic/gin"
)

// recordView remembers the product for the calling device. Product pages are
// public, so a missing or malformed device id just skips the write.
func (h *Handler) recordView(c *gin.Context, productID uint) {
	if h.RecentlyViewed == nil {
		return
	}
	deviceID := strings.TrimSpace(c.GetHeader(constants.HeaderDeviceID))
	if localstore.ValidateDeviceID(deviceID) != nil {
		return
	}
	if err := h.RecentlyViewed.Record(c.Request.Context(), deviceID, productID); err != nil {
		logger.Warnw("public_record_view_failed", "product_id", productID, "error", err)
	}
}

// GetRecentlyViewed lists the device's last viewed products. exclude drops
// the product on screen; limit defaults to the storefront strip size.
func (h *Handler) GetRecentlyViewed(c *gin.Context) {
	var exclude uint
	if raw := strings.TrimSpace(c.Query("exclude")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		exclude = uint(id)
	}
	limit := constants.RecentlyViewedDisplayLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > constants.RecentlyViewedMax {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		limit = n
	}
	items, err := h.RecentlyViewed.List(c.Request.Context(), handlershared.DeviceID(c), exclude, limit)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, items)
}

func (h *Handler) ClearRecentlyViewed(c *gin.Context) {
	if err := h.RecentlyViewed.Clear(c.Request.Context(), handlershared.DeviceID(c)); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.recently_viewed_cleared"), nil)
}
