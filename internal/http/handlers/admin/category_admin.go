package admin

import (
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, gin.H{
		"items":         categories,
		"delete_policy": h.CategoryService.Policy(),
	})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	category, err := h.CategoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, category)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := h.CategoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := h.CategoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, category)
}

// DeleteCategory reports how many products moved to the system category.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	moved, err := h.CategoryService.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.category_deleted"), gin.H{"moved_products": moved})
}
