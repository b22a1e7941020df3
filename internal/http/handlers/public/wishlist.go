package public

import (
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"

	"github.com/gin-gonic/gin"
)

type wishlistItemRequest struct {
	ProductID uint `json:"product_id"`
}

func (h *Handler) GetWishlist(c *gin.Context) {
	items, err := h.WishlistService.List(c.Request.Context(), handlershared.DeviceID(c))
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, items)
}

func (h *Handler) AddWishlistItem(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.WishlistService.Add(c.Request.Context(), handlershared.DeviceID(c), req.ProductID); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, gin.H{"product_id": req.ProductID})
}

func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Remove(c.Request.Context(), handlershared.DeviceID(c), productID); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, gin.H{"product_id": productID})
}

// HasWishlistItem reports whether the product is saved on this device.
func (h *Handler) HasWishlistItem(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	saved, err := h.WishlistService.Contains(c.Request.Context(), handlershared.DeviceID(c), productID)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, gin.H{"product_id": productID, "saved": saved})
}

func (h *Handler) ClearWishlist(c *gin.Context) {
	if err := h.WishlistService.Clear(c.Request.Context(), handlershared.DeviceID(c)); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.wishlist_cleared"), nil)
}
