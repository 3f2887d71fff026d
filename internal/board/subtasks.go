package board

import (
	"errors"
	"fmt"

	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"gorm.io/gorm"
)

func (s *Service) AddSubtask(actor *permissions.Actor, taskID uint, title string) (*models.Subtask, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	subtask := models.Subtask{TaskID: task.ID, Title: title}

	if err := s.db.Create(&subtask).Error; err != nil {
		return nil, err
	}

	if err := s.touchTask(task.ID); err != nil {
		return nil, err
	}

	s.publishBoard("subtask added")
	return &subtask, nil
}

func (s *Service) ToggleSubtask(actor *permissions.Actor, taskID, subtaskID uint) (*models.Subtask, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	var subtask models.Subtask

	err = s.db.Where("id = ? AND task_id = ?", subtaskID, task.ID).First(&subtask).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&subtask).Update("completed", !subtask.Completed).Error; err != nil {
		return nil, err
	}

	if err := s.touchTask(task.ID); err != nil {
		return nil, err
	}

	s.publishBoard("subtask toggled")
	return &subtask, nil
}

func (s *Service) RemoveSubtask(actor *permissions.Actor, taskID, subtaskID uint) error {
	task, err := s.GetTask(taskID)

	if err != nil {
		return err
	}

	if !permissions.CanEditTask(actor, task) {
		return types.ErrPermissionDenied
	}

	result := s.db.Where("id = ? AND task_id = ?", subtaskID, task.ID).Delete(&models.Subtask{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	if err := s.touchTask(task.ID); err != nil {
		return err
	}

	s.publishBoard("subtask removed")
	return nil
}

// CompletionPercent derives how much of a task's checklist is done.
func CompletionPercent(subtasks []models.Subtask) int {
	if len(subtasks) == 0 {
		return 0
	}

	completed := 0

	for _, subtask := range subtasks {
		if subtask.Completed {
			completed++
		}
	}

	return completed * 100 / len(subtasks)
}

// AddComment records a comment and, when the author is not the assignee,
// notifies the assignee.
func (s *Service) AddComment(actor *permissions.Actor, taskID uint, text string) (*models.Comment, error) {
	if !permissions.Can(actor, permissions.ActionCommentTask) {
		return nil, types.ErrPermissionDenied
	}

	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	comment := models.Comment{TaskID: task.ID, AuthorID: actor.ID, Text: text}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.touchTask(task.ID); err != nil {
		return nil, err
	}

	if s.notifier != nil && task.AssigneeID != 0 && task.AssigneeID != actor.ID {
		s.notifier.Emit(task.AssigneeID, "Novo comentário",
			fmt.Sprintf("Um comentário foi adicionado em %q", task.Title), models.NotifyInfo)
	}

	s.publishBoard("comment added")
	return &comment, nil
}

func (s *Service) AddAttachment(actor *permissions.Actor, taskID uint, name, url, contentType, size string) (*models.Attachment, error) {
	task, err := s.GetTask(taskID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanEditTask(actor, task) {
		return nil, types.ErrPermissionDenied
	}

	attachment := models.Attachment{TaskID: task.ID, Name: name, URL: url, Type: contentType, Size: size}

	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}

	if err := s.touchTask(task.ID); err != nil {
		return nil, err
	}

	s.publishBoard("attachment added")
	return &attachment, nil
}

func (s *Service) RemoveAttachment(actor *permissions.Actor, taskID, attachmentID uint) error {
	task, err := s.GetTask(taskID)

	if err != nil {
		return err
	}

	if !permissions.CanEditTask(actor, task) {
		return types.ErrPermissionDenied
	}

	result := s.db.Where("id = ? AND task_id = ?", attachmentID, task.ID).Delete(&models.Attachment{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	if err := s.touchTask(task.ID); err != nil {
		return err
	}

	s.publishBoard("attachment removed")
	return nil
}

func (s *Service) touchTask(taskID uint) error {
	return s.db.Model(&models.Task{}).Where("id = ?", taskID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
