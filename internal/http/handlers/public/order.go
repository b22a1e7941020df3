package public

import (
	"strings"

	"github.com/dorada-store/internal/constants"
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest places the device's cart as an order.
type CheckoutRequest struct {
	Customer service.CustomerInfo                `json:"customer"`
	Captcha  handlershared.CaptchaPayloadRequest `json:"captcha"`
}

// trackedOrder is what a customer may see of their order.
type trackedOrder struct {
	OrderNo     string             `json:"order_no"`
	Status      string             `json:"status"`
	StatusAr    string             `json:"status_ar"`
	Subtotal    int64              `json:"subtotal"`
	ShippingFee int64              `json:"shipping_fee"`
	Total       int64              `json:"total"`
	Currency    string             `json:"currency"`
	Items       []models.OrderItem `json:"items"`
	City        string             `json:"city"`
	CreatedAt   string             `json:"created_at"`
}

// Checkout turns the cart into a pending order. The cart is cleared only
// when the order was stored.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneCheckout, req.Captcha.ToServicePayload()); err != nil {
		respondServiceError(c, err, "error.captcha_invalid")
		return
	}
	order, err := h.CartService.Checkout(c.Request.Context(), handlershared.DeviceID(c), req.Customer)
	if err != nil {
		respondServiceError(c, err, "error.order_create_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.order_created"), order)
}

// TrackOrder looks an order up by number and phone.
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Query("order_no"))
	phone := strings.TrimSpace(c.Query("phone"))
	order, err := h.OrderService.TrackOrder(c.Request.Context(), orderNo, phone)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, trackedOrder{
		OrderNo:     order.OrderNo,
		Status:      order.Status,
		StatusAr:    order.StatusAr,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		Total:       order.Total,
		Currency:    order.Currency,
		Items:       order.Items,
		City:        order.CustomerCity,
		CreatedAt:   order.CreatedAt.Format("2006-01-02 15:04"),
	})
}
