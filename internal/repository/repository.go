package repository

import (
	"time"

	"github.com/soratani/task-tracker-api/internal/models"
)

// PageRequest describes one page of an ordered result set. Pages are
// zero-indexed: page 2 with size 10 covers rows [20, 30).
type PageRequest struct {
	// Page is the zero-indexed page number.
	Page int
	// Size is the page length; callers validate it is > 0 before the
	// request reaches a store.
	Size int
	// SortColumn is a column name already validated against the sortable
	// whitelist.
	SortColumn string
	// Desc orders the primary key descending when set.
	Desc bool
}

// Offset returns the first row index covered by the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// TaskPage is one slice of a filtered task set together with the total
// element count of the whole filtered set.
type TaskPage struct {
	Items []models.Task
	Total int64
}

// TaskRepository defines the interface for task data access. Every paginated
// finder returns the requested slice plus the true total count; a page index
// past the end of the data yields an empty slice, never an error.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID, preloading the owner when present
	FindByID(id uint64) (*models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// FindAll retrieves all tasks, paginated
	FindAll(page PageRequest) (TaskPage, error)

	// FindByStatus retrieves tasks with an exact status match
	FindByStatus(status string, page PageRequest) (TaskPage, error)

	// FindByDueDateBefore retrieves tasks due strictly before the given date
	FindByDueDateBefore(due time.Time, page PageRequest) (TaskPage, error)

	// FindByDueDateAfter retrieves tasks due strictly after the given date
	FindByDueDateAfter(due time.Time, page PageRequest) (TaskPage, error)

	// FindByDueDateBetween retrieves tasks due within [start, end] inclusive
	FindByDueDateBetween(start, end time.Time, page PageRequest) (TaskPage, error)

	// FindByTextMatch retrieves tasks whose title or description contains
	// the keyword, case-insensitively
	FindByTextMatch(keyword string, page PageRequest) (TaskPage, error)

	// FindByTitleContaining retrieves tasks whose title contains the
	// keyword, case-insensitively
	FindByTitleContaining(keyword string, page PageRequest) (TaskPage, error)

	// FindByDescriptionContaining retrieves tasks whose description
	// contains the keyword, case-insensitively
	FindByDescriptionContaining(keyword string, page PageRequest) (TaskPage, error)

	// CountByStatus counts tasks with an exact status match
	CountByStatus(status string) (int64, error)

	// DeleteByDueDateBefore bulk-deletes tasks due strictly before the
	// given date and reports how many rows were removed
	DeleteByDueDateBefore(due time.Time) (int64, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user together with its role rows
	Create(user *models.User) error

	// Update persists changes to a user
	Update(user *models.User) error

	// FindByID finds a user by ID with roles preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with roles preloaded
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsername reports whether a username is already taken
	ExistsByUsername(username string) (bool, error)

	// FindAll lists every user with roles preloaded
	FindAll() ([]models.User, error)

	// Delete removes a user and its role rows
	Delete(id uint64) error

	// Count returns the number of users
	Count() (int64, error)
}
