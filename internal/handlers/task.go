package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soratani/task-tracker-api/internal/dto"
	apierrors "github.com/soratani/task-tracker-api/internal/errors"
	"github.com/soratani/task-tracker-api/internal/middleware"
	"github.com/soratani/task-tracker-api/internal/repository"
	"github.com/soratani/task-tracker-api/internal/services"
	"github.com/soratani/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskWriteRequest is the body shape shared by create and full update.
type taskWriteRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description string  `json:"description" binding:"required,max=500"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

func (r taskWriteRequest) dueDate() (*time.Time, error) {
	if r.DueDate == nil || *r.DueDate == "" {
		return nil, nil
	}
	due, err := dto.ParseDate(*r.DueDate)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// ListTasks returns tasks filtered by the optional status, dueDate and
// search parameters. Exactly one filter branch applies; search wins over
// status, which wins over dueDate.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params, err := utils.GetPageParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.ListTasksInput{
		Page:    params.Page,
		Size:    params.Size,
		SortBy:  params.SortBy,
		SortDir: params.SortDir,
	}

	if status, ok := c.GetQuery("status"); ok {
		input.Status = &status
	}
	if search, ok := c.GetQuery("search"); ok {
		input.Search = &search
	}
	if raw, ok := c.GetQuery("dueDate"); ok {
		due, err := dto.ParseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.DueBefore = &due
	}

	page, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Size))
}

// ListAllTasks returns the unfiltered paginated task list.
func (h *TaskHandler) ListAllTasks(c *gin.Context) {
	params, err := utils.GetPageParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	page, err := h.taskService.ListTasks(services.ListTasksInput{
		Page:    params.Page,
		Size:    params.Size,
		SortBy:  params.SortBy,
		SortDir: params.SortDir,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Size))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task owned by the authenticated user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	username, exists := middleware.GetUsername(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req taskWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	due, err := req.dueDate()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     due,
	}, username)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces a task's fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	username, _ := middleware.GetUsername(c)

	var req taskWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	due, err := req.dueDate()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(id, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     due,
	}, username)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus patches a task's status.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, exists := c.GetQuery("status")
	if !exists || status == "" {
		apierrors.BadRequest(c, "status parameter is required")
		return
	}

	task, err := h.taskService.UpdateStatus(id, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	username, _ := middleware.GetUsername(c)

	if err := h.taskService.DeleteTask(id, username); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CountByStatus counts tasks with the given status.
func (h *TaskHandler) CountByStatus(c *gin.Context) {
	status, exists := c.GetQuery("status")
	if !exists {
		apierrors.BadRequest(c, "status parameter is required")
		return
	}

	count, err := h.taskService.CountByStatus(status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "count": count})
}

// DueAfter lists tasks due strictly after the given date.
func (h *TaskHandler) DueAfter(c *gin.Context) {
	params, err := utils.GetPageParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	due, ok := parseDateQuery(c, "dueDate")
	if !ok {
		return
	}

	page, err := h.taskService.FindDueAfter(due, params.Page, params.Size, params.SortBy, params.SortDir)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Size))
}

// DueBetween lists tasks due within the inclusive [start, end] range.
func (h *TaskHandler) DueBetween(c *gin.Context) {
	params, err := utils.GetPageParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	page, err := h.taskService.FindDueBetween(start, end, params.Page, params.Size, params.SortBy, params.SortDir)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Size))
}

// DeleteDueBefore bulk-deletes tasks due strictly before the given date.
func (h *TaskHandler) DeleteDueBefore(c *gin.Context) {
	due, ok := parseDateQuery(c, "dueDate")
	if !ok {
		return
	}

	if _, err := h.taskService.DeleteDueBefore(due); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchTitle lists tasks whose title contains the keyword.
func (h *TaskHandler) SearchTitle(c *gin.Context) {
	h.search(c, h.taskService.SearchTitle)
}

// SearchDescription lists tasks whose description contains the keyword.
func (h *TaskHandler) SearchDescription(c *gin.Context) {
	h.search(c, h.taskService.SearchDescription)
}

func (h *TaskHandler) search(c *gin.Context, fn func(string, int, int, string, string) (repository.TaskPage, error)) {
	params, err := utils.GetPageParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	keyword, exists := c.GetQuery("keyword")
	if !exists {
		apierrors.BadRequest(c, "keyword parameter is required")
		return
	}

	page, err := fn(keyword, params.Page, params.Size, params.SortBy, params.SortDir)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Size))
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw, exists := c.GetQuery(name)
	if !exists {
		apierrors.BadRequest(c, name+" parameter is required")
		return time.Time{}, false
	}
	due, err := dto.ParseDate(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return time.Time{}, false
	}
	return due, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPageSize),
		errors.Is(err, services.ErrInvalidPageNumber),
		errors.Is(err, services.ErrInvalidSortField),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDueDateInPast):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPrincipalNotFound):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrphanedTask):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
