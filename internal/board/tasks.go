package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    models.Priority
	ProjectID   uint
	AssigneeID  uint
	DueDate     *time.Time
	Tags        []string
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	AssigneeID  *uint
	DueDate     *time.Time
	Tags        []string
}

type TaskFilter struct {
	ProjectID  uint
	Status     string
	AssigneeID uint
}

func (s *Service) GetTask(id uint) (*models.Task, error) {
	var task models.Task

	err := s.db.
		Preload("Subtasks").
		Preload("Comments").
		Preload("Attachments").
		First(&task, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	return &task, nil
}

func (s *Service) ListTasks(filter TaskFilter) ([]models.Task, error) {
	query := s.db.Preload("Subtasks").Order("created_at DESC")

	if filter.ProjectID != 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.AssigneeID != 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *Service) CreateTask(actor *permissions.Actor, input TaskInput) (*models.Task, error) {
	if !permissions.Can(actor, permissions.ActionCreateTask) {
		return nil, types.ErrPermissionDenied
	}

	exists, err := s.statusExists(s.db, input.Status)

	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, types.ErrInvalidTransition
	}

	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}

	if !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidPriority, input.Priority)
	}

	var project models.Project

	if err := s.db.First(&project, input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	assignee := input.AssigneeID

	if assignee == 0 {
		assignee = actor.ID
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		CreatorID:   actor.ID,
		AssigneeID:  assignee,
		DueDate:     input.DueDate,
		Tags:        marshalTags(input.Tags),
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil && assignee != actor.ID {
		s.notifier.Emit(assignee, "Nova tarefa atribuída",
			fmt.Sprintf("Você foi designado para %q", task.Title), models.NotifyInfo)
	}

	s.publishBoard("task created")
	return &task, nil
}

// QuickCreateTask creates a task with sensible defaults straight into a
// column: empty description, NORMAL priority, the actor as both creator and
// assignee, due today unless told otherwise.
func (s *Service) QuickCreateTask(actor *permissions.Actor, title, status string, projectID uint, dueDate *time.Time) (*models.Task, error) {
	if dueDate == nil {
		today := time.Now()
		dueDate = &today
	}

	return s.CreateTask(actor, TaskInput{
		Title:     title,
		Status:    status,
		Priority:  models.PriorityNormal,
		ProjectID: projectID,
		DueDate:   dueDate,
	})
}

// MoveTask reassigns a task to another column. Both the drag-and-drop path
// and the explicit action land here, so the permission check holds even when
// a client fails to disable dragging.
func (s *Service) MoveTask(actor *permissions.Actor, taskID uint, newStatus string) (*models.Task, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	exists, err := s.statusExists(s.db, newStatus)

	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, types.ErrInvalidTransition
	}

	if err := s.db.Model(task).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	s.publishBoard("task moved")
	return task, nil
}

// RescheduleTask is the calendar drag path: same edit gate, different field.
func (s *Service) RescheduleTask(actor *permissions.Actor, taskID uint, dueDate time.Time) (*models.Task, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	if err := s.db.Model(task).Update("due_date", dueDate).Error; err != nil {
		return nil, err
	}

	s.publishBoard("task rescheduled")
	return task, nil
}

func (s *Service) UpdateTask(actor *permissions.Actor, taskID uint, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	updates := make(map[string]interface{})

	if update.Title != nil {
		updates["title"] = *update.Title
	}

	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if update.Priority != nil {
		if !update.Priority.Valid() {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidPriority, *update.Priority)
		}
		updates["priority"] = *update.Priority
	}

	if update.AssigneeID != nil {
		updates["assignee_id"] = *update.AssigneeID
	}

	if update.DueDate != nil {
		updates["due_date"] = *update.DueDate
	}

	if update.Tags != nil {
		updates["tags"] = marshalTags(update.Tags)
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.publishBoard("task updated")
	return task, nil
}

// ApproveTask is the managerial sign-off: it closes the task into DONE and
// tells the creator.
func (s *Service) ApproveTask(actor *permissions.Actor, taskID uint) (*models.Task, error) {
	if !permissions.Can(actor, permissions.ActionApproveTask) {
		return nil, types.ErrPermissionDenied
	}

	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if err := s.db.Model(task).Update("status", models.StatusDone).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil && task.CreatorID != actor.ID {
		s.notifier.Emit(task.CreatorID, "Tarefa aprovada",
			fmt.Sprintf("%q foi aprovada e concluída", task.Title), models.NotifySuccess)
	}

	s.publishBoard("task approved")
	return task, nil
}

func (s *Service) DeleteTask(actor *permissions.Actor, taskID uint) error {
	task, err := s.GetTask(taskID)

	if err != nil {
		return err
	}

	if !permissions.CanEditTask(actor, task) {
		return types.ErrPermissionDenied
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})

	if err != nil {
		return err
	}

	s.publishBoard("task deleted")
	return nil
}

// marshalTags dedupes tags preserving first occurrence and stores them as a
// JSON array.
func marshalTags(tags []string) datatypes.JSON {
	seen := make(map[string]bool, len(tags))
	unique := make([]string, 0, len(tags))

	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		unique = append(unique, tag)
	}

	data, err := json.Marshal(unique)

	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(data)
}
