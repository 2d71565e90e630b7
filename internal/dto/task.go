package dto

import (
	"fmt"
	"time"

	"github.com/soratani/task-tracker-api/internal/constants"
	"github.com/soratani/task-tracker-api/internal/models"
	"github.com/soratani/task-tracker-api/internal/repository"
)

// TaskDTO represents a task in API responses. Due dates travel as plain
// calendar dates.
type TaskDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	OwnerUserID *uint64   `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     FormatDate(task.DueDate),
		OwnerUserID: task.OwnerUserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts one repository page to the list response shape.
// The total count always describes the whole filtered set, not the slice.
func ToTaskListResponse(page repository.TaskPage, pageNumber, pageSize int) TaskListResponse {
	items := make([]TaskDTO, len(page.Items))
	for i, task := range page.Items {
		items[i] = ToTaskDTO(task)
	}

	totalPages := int(page.Total) / pageSize
	if int(page.Total)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       pageNumber,
		PageSize:   pageSize,
		TotalCount: page.Total,
		TotalPages: totalPages,
	}
}

// ParseDate parses a calendar date in the wire format.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", value, constants.DateLayout)
	}
	return t, nil
}

// FormatDate renders an optional due date in the wire format.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateLayout)
	return &s
}
