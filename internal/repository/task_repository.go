package repository

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/soratani/task-tracker-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Owner").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// FindAll retrieves all tasks, paginated
func (r *GormTaskRepository) FindAll(page PageRequest) (TaskPage, error) {
	return r.paginate(r.db.Model(&models.Task{}), page)
}

// FindByStatus retrieves tasks with an exact status match
func (r *GormTaskRepository) FindByStatus(status string, page PageRequest) (TaskPage, error) {
	return r.paginate(r.db.Model(&models.Task{}).Where("status = ?", status), page)
}

// FindByDueDateBefore retrieves tasks due strictly before the given date
func (r *GormTaskRepository) FindByDueDateBefore(due time.Time, page PageRequest) (TaskPage, error) {
	return r.paginate(r.db.Model(&models.Task{}).Where("due_date < ?", due), page)
}

// FindByDueDateAfter retrieves tasks due strictly after the given date
func (r *GormTaskRepository) FindByDueDateAfter(due time.Time, page PageRequest) (TaskPage, error) {
	return r.paginate(r.db.Model(&models.Task{}).Where("due_date > ?", due), page)
}

// FindByDueDateBetween retrieves tasks due within [start, end] inclusive
func (r *GormTaskRepository) FindByDueDateBetween(start, end time.Time, page PageRequest) (TaskPage, error) {
	return r.paginate(
		r.db.Model(&models.Task{}).Where("due_date >= ? AND due_date <= ?", start, end),
		page,
	)
}

// FindByTextMatch retrieves tasks whose title or description contains the keyword
func (r *GormTaskRepository) FindByTextMatch(keyword string, page PageRequest) (TaskPage, error) {
	pattern := containsPattern(keyword)
	return r.paginate(
		r.db.Model(&models.Task{}).
			Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", pattern, pattern),
		page,
	)
}

// FindByTitleContaining retrieves tasks whose title contains the keyword
func (r *GormTaskRepository) FindByTitleContaining(keyword string, page PageRequest) (TaskPage, error) {
	return r.paginate(
		r.db.Model(&models.Task{}).Where("LOWER(title) LIKE ? ESCAPE '\\'", containsPattern(keyword)),
		page,
	)
}

// FindByDescriptionContaining retrieves tasks whose description contains the keyword
func (r *GormTaskRepository) FindByDescriptionContaining(keyword string, page PageRequest) (TaskPage, error) {
	return r.paginate(
		r.db.Model(&models.Task{}).Where("LOWER(description) LIKE ? ESCAPE '\\'", containsPattern(keyword)),
		page,
	)
}

// CountByStatus counts tasks with an exact status match
func (r *GormTaskRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// DeleteByDueDateBefore bulk-deletes tasks due strictly before the given date
func (r *GormTaskRepository) DeleteByDueDateBefore(due time.Time) (int64, error) {
	result := r.db.Where("due_date < ?", due).Delete(&models.Task{})
	return result.RowsAffected, result.Error
}

// paginate counts the filtered set, then fetches one ordered slice of it.
// A secondary "id ASC" keeps the ordering stable: rows with equal sort keys
// come back in insertion order.
func (r *GormTaskRepository) paginate(query *gorm.DB, page PageRequest) (TaskPage, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return TaskPage{}, err
	}

	var tasks []models.Task
	err := query.
		Order(orderClause(page)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&tasks).Error
	if err != nil {
		return TaskPage{}, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	return TaskPage{Items: tasks, Total: total}, nil
}

func orderClause(page PageRequest) string {
	dir := "ASC"
	if page.Desc {
		dir = "DESC"
	}
	if page.SortColumn == "id" {
		return fmt.Sprintf("id %s", dir)
	}
	return fmt.Sprintf("%s %s, id ASC", page.SortColumn, dir)
}

// likeEscaper neutralizes LIKE metacharacters so a keyword matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
}
