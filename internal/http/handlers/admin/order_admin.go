package admin

import (
	"strings"
	"time"

	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders filters by status, search text and created_from/created_to
// (YYYY-MM-DD or RFC3339).
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	from, err := parseTimeNullable(c.Query("created_from"), false)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	to, err := parseTimeNullable(c.Query("created_to"), true)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), service.OrderQuery{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		From:     from,
		To:       to,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus moves the order and its reserved stock together.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}
	order, err := h.OrderService.SetOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "error.order_status_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.order_status_updated"), order)
}

// parseTimeNullable reads an RFC3339 instant or a local date. With endOfDay a
// date means its last instant, so an inclusive upper bound keeps that day.
func parseTimeNullable(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
