package board

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TemplateInput struct {
	Name               string
	DefaultTitle       string
	DefaultDescription string
	DefaultSubtasks    []string
}

func (s *Service) ListTemplates() ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate

	if err := s.db.Order("created_at ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (s *Service) CreateTemplate(actor *permissions.Actor, input TemplateInput) (*models.TaskTemplate, error) {
	if !permissions.Can(actor, permissions.ActionManageTemplates) {
		return nil, types.ErrPermissionDenied
	}

	subtasks, err := json.Marshal(input.DefaultSubtasks)

	if err != nil {
		return nil, err
	}

	template := models.TaskTemplate{
		Name:               input.Name,
		DefaultTitle:       input.DefaultTitle,
		DefaultDescription: input.DefaultDescription,
		DefaultSubtasks:    datatypes.JSON(subtasks),
	}

	if err := s.db.Create(&template).Error; err != nil {
		return nil, err
	}

	return &template, nil
}

func (s *Service) DeleteTemplate(actor *permissions.Actor, templateID uint) error {
	if !permissions.Can(actor, permissions.ActionManageTemplates) {
		return types.ErrPermissionDenied
	}

	result := s.db.Delete(&models.TaskTemplate{}, templateID)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

// InstantiateTemplate creates a backlog task pre-filled from a template,
// checklist included.
func (s *Service) InstantiateTemplate(actor *permissions.Actor, templateID, projectID uint, dueDate *time.Time) (*models.Task, error) {
	var template models.TaskTemplate

	err := s.db.First(&template, templateID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	task, err := s.CreateTask(actor, TaskInput{
		Title:       template.DefaultTitle,
		Description: template.DefaultDescription,
		Status:      models.StatusBacklog,
		Priority:    models.PriorityNormal,
		ProjectID:   projectID,
		DueDate:     dueDate,
	})

	if err != nil {
		return nil, err
	}

	var titles []string

	if len(template.DefaultSubtasks) > 0 {
		if err := json.Unmarshal(template.DefaultSubtasks, &titles); err != nil {
			return nil, err
		}
	}

	for _, title := range titles {
		subtask := models.Subtask{TaskID: task.ID, Title: title}

		if err := s.db.Create(&subtask).Error; err != nil {
			return nil, err
		}

		task.Subtasks = append(task.Subtasks, subtask)
	}

	return task, nil
}
