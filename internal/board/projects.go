package board

import (
	"errors"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"gorm.io/gorm"
)

type ProjectInput struct {
	Name         string
	Color        string
	Description  string
	Observations string
}

func (s *Service) ListProjects() ([]models.Project, error) {
	var projects []models.Project

	if err := s.db.Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (s *Service) CreateProject(actor *permissions.Actor, input ProjectInput) (*models.Project, error) {
	if !permissions.Can(actor, permissions.ActionCreateProject) {
		return nil, types.ErrPermissionDenied
	}

	project := models.Project{
		Name:         input.Name,
		Color:        input.Color,
		Description:  input.Description,
		Observations: input.Observations,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	s.publishBoard("project created")
	return &project, nil
}

func (s *Service) UpdateProject(actor *permissions.Actor, projectID uint, input ProjectInput) (*models.Project, error) {
	if !permissions.Can(actor, permissions.ActionCreateProject) {
		return nil, types.ErrPermissionDenied
	}

	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         input.Name,
		"color":        input.Color,
		"description":  input.Description,
		"observations": input.Observations,
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.publishBoard("project updated")
	return &project, nil
}

// DeleteProject removes a space and every task referencing it in one
// transaction.
func (s *Service) DeleteProject(actor *permissions.Actor, projectID uint) error {
	if !permissions.Can(actor, permissions.ActionDeleteProject) {
		return types.ErrPermissionDenied
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		var taskIDs []uint

		if err := tx.Model(&models.Task{}).Where("project_id = ?", project.ID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		return err
	}

	s.publishBoard("project deleted")
	return nil
}
