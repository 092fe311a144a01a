package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// ParseID parses a positive integer id from a path param or query value.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Pagination reads page/pageSize. ok is false when the caller asked for no paging.
func Pagination(c *gin.Context) (page, pageSize int, ok bool) {
	rawPage, hasPage := c.GetQuery("page")
	rawSize, hasSize := c.GetQuery("pageSize")
	if !hasPage && !hasSize {
		return 0, 0, false
	}

	page, _ = strconv.Atoi(rawPage)
	pageSize, _ = strconv.Atoi(rawSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = 20
	}
	return page, pageSize, true
}
