package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/soratani/task-tracker-api/internal/constants"
	"github.com/soratani/task-tracker-api/internal/models"
	"github.com/soratani/task-tracker-api/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTitleRequired     = errors.New("title is required")
	ErrDueDateInPast     = errors.New("due date cannot be in the past")
	ErrOrphanedTask      = errors.New("task has no associated owner")
	ErrPrincipalNotFound = errors.New("no user exists for the authenticated principal")
	ErrPermissionDenied  = errors.New("permission denied")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	authz    Authorizer
	now      func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, authz Authorizer) *TaskService {
	if authz == nil {
		authz = AllowAllAuthorizer{}
	}
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		authz:    authz,
		now:      time.Now,
	}
}

// ListTasks resolves the filter combination to a single retrieval strategy
// and executes it.
func (s *TaskService) ListTasks(input ListTasksInput) (repository.TaskPage, error) {
	intent, err := resolveQuery(input)
	if err != nil {
		return repository.TaskPage{}, err
	}

	var page repository.TaskPage
	switch intent.kind {
	case querySearch:
		page, err = s.taskRepo.FindByTextMatch(intent.search, intent.page)
	case queryStatus:
		page, err = s.taskRepo.FindByStatus(intent.status, intent.page)
	case queryDueBefore:
		page, err = s.taskRepo.FindByDueDateBefore(intent.dueBefore, intent.page)
	default:
		page, err = s.taskRepo.FindAll(intent.page)
	}
	if err != nil {
		return repository.TaskPage{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return page, nil
}

// GetTask returns a task by ID.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
}

// CreateTask creates a task owned by the authenticated principal. The
// principal must resolve to an existing user; a valid token whose subject
// has no backing row is rejected.
func (s *TaskService) CreateTask(input CreateTaskInput, principal string) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := s.checkDueDate(input.DueDate); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByUsername(principal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	status := input.Status
	if strings.TrimSpace(status) == "" {
		status = constants.DefaultTaskStatus
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		OwnerUserID: &owner.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTaskInput represents input for a full task update.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     *time.Time
}

// UpdateTask replaces a task's title, description, status and due date. The
// owner reference is left untouched. Ownership is not consulted here; the
// authorizer holds the policy.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput, principal string) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := s.checkDueDate(input.DueDate); err != nil {
		return nil, err
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	if !s.authz.Authorize(principal, ActionUpdateTask, task) {
		return nil, ErrPermissionDenied
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateStatus sets a task's status. A task without an owner is a
// data-integrity violation and is rejected rather than silently updated.
func (s *TaskService) UpdateStatus(taskID uint64, status string) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.OwnerUserID == nil {
		return nil, ErrOrphanedTask
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(taskID uint64, principal string) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}

	if !s.authz.Authorize(principal, ActionDeleteTask, task) {
		return ErrPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CountByStatus counts tasks with an exact status match.
func (s *TaskService) CountByStatus(status string) (int64, error) {
	count, err := s.taskRepo.CountByStatus(status)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// FindDueAfter retrieves tasks due strictly after the given date.
func (s *TaskService) FindDueAfter(due time.Time, page, size int, sortBy, sortDir string) (repository.TaskPage, error) {
	req, err := pageRequest(page, size, sortBy, sortDir)
	if err != nil {
		return repository.TaskPage{}, err
	}
	result, err := s.taskRepo.FindByDueDateAfter(due, req)
	if err != nil {
		return repository.TaskPage{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return result, nil
}

// FindDueBetween retrieves tasks due within [start, end], bounds inclusive.
func (s *TaskService) FindDueBetween(start, end time.Time, page, size int, sortBy, sortDir string) (repository.TaskPage, error) {
	req, err := pageRequest(page, size, sortBy, sortDir)
	if err != nil {
		return repository.TaskPage{}, err
	}
	result, err := s.taskRepo.FindByDueDateBetween(start, end, req)
	if err != nil {
		return repository.TaskPage{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return result, nil
}

// SearchTitle retrieves tasks whose title contains the keyword.
func (s *TaskService) SearchTitle(keyword string, page, size int, sortBy, sortDir string) (repository.TaskPage, error) {
	req, err := pageRequest(page, size, sortBy, sortDir)
	if err != nil {
		return repository.TaskPage{}, err
	}
	result, err := s.taskRepo.FindByTitleContaining(keyword, req)
	if err != nil {
		return repository.TaskPage{}, fmt.Errorf("failed to search tasks: %w", err)
	}
	return result, nil
}

// SearchDescription retrieves tasks whose description contains the keyword.
func (s *TaskService) SearchDescription(keyword string, page, size int, sortBy, sortDir string) (repository.TaskPage, error) {
	req, err := pageRequest(page, size, sortBy, sortDir)
	if err != nil {
		return repository.TaskPage{}, err
	}
	result, err := s.taskRepo.FindByDescriptionContaining(keyword, req)
	if err != nil {
		return repository.TaskPage{}, fmt.Errorf("failed to search tasks: %w", err)
	}
	return result, nil
}

// DeleteDueBefore bulk-deletes tasks due strictly before the given date and
// returns the number of removed tasks.
func (s *TaskService) DeleteDueBefore(due time.Time) (int64, error) {
	deleted, err := s.taskRepo.DeleteByDueDateBefore(due)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}
	return deleted, nil
}

// checkDueDate rejects due dates before today. Today itself is allowed.
// Calendar dates compare in UTC, the zone the wire format parses in, so the
// server's local zone never shifts the boundary.
func (s *TaskService) checkDueDate(due *time.Time) error {
	if due == nil {
		return nil
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := due.UTC()
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if dueDay.Before(today) {
		return ErrDueDateInPast
	}
	return nil
}
