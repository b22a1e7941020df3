package admin

import (
	"errors"

	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

// Upload stores a product image and returns its public url.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	url, err := h.UploadService.SaveFile(file, c.DefaultPostForm("scene", "product"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadType):
			respondError(c, response.CodeBadRequest, "error.upload_type_invalid", nil)
		case errors.Is(err, service.ErrUploadTooLarge):
			respondError(c, response.CodeBadRequest, "error.upload_too_large", nil)
		default:
			respondError(c, response.CodeInternal, "error.upload_failed", err)
		}
		return
	}
	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
