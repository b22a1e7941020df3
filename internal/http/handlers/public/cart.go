package public

import (
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CartItemRequest adds or sets one cart line.
type CartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.CartService.Get(c.Request.Context(), handlershared.DeviceID(c))
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, view)
}

// AddCartItem adds quantity units; an existing line is merged.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.CartService.AddItem(c.Request.Context(), handlershared.DeviceID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, view)
}

// UpdateCartItem sets the line quantity; zero removes the line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CartService.UpdateItem(c.Request.Context(), handlershared.DeviceID(c), productID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, view)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "product_id")
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), handlershared.DeviceID(c), productID)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartService.Clear(c.Request.Context(), handlershared.DeviceID(c)); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.cart_cleared"), nil)
}
