package shared

import (
	"strconv"

	"github.com/dorada-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// NormalizePagination clamps page to >= 1 and page size to 1..100.
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// QueryPagination reads page and page_size from the query string.
func QueryPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return NormalizePagination(page, pageSize)
}

func BuildPagination(page, pageSize int, total int64) response.Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
