package services

import (
	"errors"
	"strings"
	"time"

	"github.com/soratani/task-tracker-api/internal/repository"
)

var (
	ErrInvalidPageSize   = errors.New("page size must be greater than zero")
	ErrInvalidPageNumber = errors.New("page number must not be negative")
	ErrInvalidSortField  = errors.New("unknown sort field")
)

// sortColumns whitelists the sortable fields and maps request names to
// column names. Anything else is rejected before a store is touched.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"status":      "status",
	"due_date":    "due_date",
	"dueDate":     "due_date",
	"created_at":  "created_at",
	"createdAt":   "created_at",
}

// ListTasksInput carries the optional filters and paging of a task listing.
// Nil means "filter not supplied", as opposed to supplied-but-empty.
type ListTasksInput struct {
	Status    *string
	DueBefore *time.Time
	Search    *string
	Page      int
	Size      int
	SortBy    string
	SortDir   string
}

type queryKind int

const (
	queryAll queryKind = iota
	querySearch
	queryStatus
	queryDueBefore
)

// queryIntent is the resolved retrieval strategy: exactly one branch of the
// precedence chain, plus validated paging.
type queryIntent struct {
	kind      queryKind
	search    string
	status    string
	dueBefore time.Time
	page      repository.PageRequest
}

// resolveQuery maps an arbitrary combination of optional filters onto a
// single intent. Precedence, first match wins: search, then status, then
// due-before, then unfiltered.
func resolveQuery(input ListTasksInput) (queryIntent, error) {
	page, err := pageRequest(input.Page, input.Size, input.SortBy, input.SortDir)
	if err != nil {
		return queryIntent{}, err
	}

	intent := queryIntent{kind: queryAll, page: page}

	switch {
	case input.Search != nil && *input.Search != "":
		intent.kind = querySearch
		intent.search = *input.Search
	case input.Status != nil:
		intent.kind = queryStatus
		intent.status = *input.Status
	case input.DueBefore != nil:
		intent.kind = queryDueBefore
		intent.dueBefore = *input.DueBefore
	}

	return intent, nil
}

// pageRequest validates paging and sorting before any store access.
func pageRequest(page, size int, sortBy, sortDir string) (repository.PageRequest, error) {
	if page < 0 {
		return repository.PageRequest{}, ErrInvalidPageNumber
	}
	if size <= 0 {
		return repository.PageRequest{}, ErrInvalidPageSize
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		return repository.PageRequest{}, ErrInvalidSortField
	}

	return repository.PageRequest{
		Page:       page,
		Size:       size,
		SortColumn: column,
		Desc:       strings.EqualFold(sortDir, "desc"),
	}, nil
}
