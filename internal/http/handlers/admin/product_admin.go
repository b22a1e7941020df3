package admin

import (
	"strings"

	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

type stockAdjustRequest struct {
	Delta int `json:"delta"`
}

// ListProducts is the admin catalog listing with stock filters.
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	query := service.ProductQuery{
		CategoryRef: strings.TrimSpace(c.Query("category")),
		Search:      strings.TrimSpace(c.Query("search")),
		StockStatus: strings.TrimSpace(c.Query("stock")),
		Page:        page,
		PageSize:    pageSize,
	}
	result, err := h.CatalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, result.Items, handlershared.BuildPagination(page, pageSize, result.Total))
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.CatalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, product)
}

// UpdateProduct applies a partial update. A quantity change may carry
// expected_quantity to detect a concurrent edit.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.CatalogService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.product_deleted"), nil)
}

// AdjustStock adds delta (negative to remove) without going below zero.
func (h *Handler) AdjustStock(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req stockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
		return
	}
	product, err := h.CatalogService.AdjustQuantity(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, product)
}
