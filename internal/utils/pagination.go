package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soratani/task-tracker-api/internal/constants"
)

// PageParams holds the raw paging and sorting values of a list request.
// Range and sort-field validation happens in the service layer, before any
// store access; this only converts the query string.
type PageParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// GetPageParams extracts pagination parameters from the request. Pages are
// zero-indexed.
func GetPageParams(c *gin.Context) (PageParams, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.DefaultPage)))
	if err != nil {
		return PageParams{}, fmt.Errorf("invalid page number")
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil {
		return PageParams{}, fmt.Errorf("invalid page size")
	}

	return PageParams{
		Page:    page,
		Size:    size,
		SortBy:  c.DefaultQuery("sortBy", constants.DefaultSortField),
		SortDir: c.DefaultQuery("sortDir", constants.DefaultSortDir),
	}, nil
}
