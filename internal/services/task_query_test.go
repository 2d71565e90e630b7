package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveQuery_Precedence(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	base := ListTasksInput{Size: 10, SortBy: "id", SortDir: "asc"}

	t.Run("search wins over everything", func(t *testing.T) {
		input := base
		input.Search = strPtr("foo")
		input.Status = strPtr("open")
		input.DueBefore = &due

		intent, err := resolveQuery(input)
		require.NoError(t, err)
		require.Equal(t, querySearch, intent.kind)
		require.Equal(t, "foo", intent.search)
	})

	t.Run("empty search string falls through", func(t *testing.T) {
		input := base
		input.Search = strPtr("")
		input.Status = strPtr("open")

		intent, err := resolveQuery(input)
		require.NoError(t, err)
		require.Equal(t, queryStatus, intent.kind)
	})

	t.Run("status wins over due date", func(t *testing.T) {
		input := base
		input.Status = strPtr("open")
		input.DueBefore = &due

		intent, err := resolveQuery(input)
		require.NoError(t, err)
		require.Equal(t, queryStatus, intent.kind)
		require.Equal(t, "open", intent.status)
	})

	t.Run("due date alone", func(t *testing.T) {
		input := base
		input.DueBefore = &due

		intent, err := resolveQuery(input)
		require.NoError(t, err)
		require.Equal(t, queryDueBefore, intent.kind)
		require.Equal(t, due, intent.dueBefore)
	})

	t.Run("no filters", func(t *testing.T) {
		intent, err := resolveQuery(base)
		require.NoError(t, err)
		require.Equal(t, queryAll, intent.kind)
	})
}

func TestResolveQuery_Validation(t *testing.T) {
	t.Run("zero page size", func(t *testing.T) {
		_, err := resolveQuery(ListTasksInput{Size: 0, SortBy: "id", SortDir: "asc"})
		require.ErrorIs(t, err, ErrInvalidPageSize)
	})

	t.Run("negative page size", func(t *testing.T) {
		_, err := resolveQuery(ListTasksInput{Size: -3, SortBy: "id", SortDir: "asc"})
		require.ErrorIs(t, err, ErrInvalidPageSize)
	})

	t.Run("negative page number", func(t *testing.T) {
		_, err := resolveQuery(ListTasksInput{Page: -1, Size: 10, SortBy: "id", SortDir: "asc"})
		require.ErrorIs(t, err, ErrInvalidPageNumber)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := resolveQuery(ListTasksInput{Size: 10, SortBy: "password_hash", SortDir: "asc"})
		require.ErrorIs(t, err, ErrInvalidSortField)
	})

	t.Run("sort direction is case-insensitive", func(t *testing.T) {
		intent, err := resolveQuery(ListTasksInput{Size: 10, SortBy: "dueDate", SortDir: "DESC"})
		require.NoError(t, err)
		require.True(t, intent.page.Desc)
		require.Equal(t, "due_date", intent.page.SortColumn)
	})
}
