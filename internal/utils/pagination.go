package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/constants"
)

// PaginationParams holds the pagination parameters. Page is zero-based:
// the store offset is page*size, matching the client contract.
type PaginationParams struct {
	Page   int
	Size   int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(constants.DefaultPageSize)))

	if page < 0 {
		page = 0
	}
	if size < 1 || size > constants.MaxPageSize {
		size = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Size:   size,
		Offset: page * size,
	}
}
