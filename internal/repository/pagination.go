package repository

import "gorm.io/gorm"

const maxPageSize = 200

// applyPagination applies limit/offset; pageSize <= 0 means no paging.
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	offset, limit := pageWindow(page, pageSize)
	return query.Limit(limit).Offset(offset)
}

// pageWindow clamps paging input into an offset and limit.
func pageWindow(page, pageSize int) (int, int) {
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}

// paginateSlice applies the same window to an in-memory result.
func paginateSlice[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	offset, limit := pageWindow(page, pageSize)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
