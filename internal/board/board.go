// Package board owns the task set, its partition into status columns and the
// column lifecycle. Every mutation is gated by the permission evaluator and
// refreshes the task's updated_at.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"gorm.io/gorm"
)

// Notifier is the delivery hook the board emits through; rendering and
// transport live elsewhere.
type Notifier interface {
	Emit(userID uint, title, message string, kind models.NotificationKind)
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
	hub      *broadcast.Hub
}

func NewService(db *gorm.DB, notifier Notifier, hub *broadcast.Hub) *Service {
	return &Service{db: db, notifier: notifier, hub: hub}
}

type ColumnConfig struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Snapshot is the entire contract the presentation layer consumes.
type Snapshot struct {
	Tasks        []models.Task           `json:"tasks"`
	StatusOrder  []string                `json:"status_order"`
	StatusConfig map[string]ColumnConfig `json:"status_config"`
}

func (s *Service) Snapshot() (*Snapshot, error) {
	columns, err := s.Columns()

	if err != nil {
		return nil, err
	}

	var tasks []models.Task

	err = s.db.
		Preload("Subtasks").
		Preload("Comments").
		Preload("Attachments").
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Tasks:        tasks,
		StatusOrder:  make([]string, 0, len(columns)),
		StatusConfig: make(map[string]ColumnConfig, len(columns)),
	}

	for _, column := range columns {
		snapshot.StatusOrder = append(snapshot.StatusOrder, column.Slug)
		snapshot.StatusConfig[column.Slug] = ColumnConfig{Label: column.Label, Color: column.Color}
	}

	return snapshot, nil
}

// Columns returns the status columns in board order.
func (s *Service) Columns() ([]models.StatusColumn, error) {
	var columns []models.StatusColumn

	if err := s.db.Order("position ASC").Find(&columns).Error; err != nil {
		return nil, err
	}

	return columns, nil
}

func (s *Service) statusExists(tx *gorm.DB, status string) (bool, error) {
	var count int64

	err := tx.Model(&models.StatusColumn{}).Where("slug = ?", status).Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// columnSlug derives a column id from its label: "Em Teste" -> "EM_TESTE".
func columnSlug(label string) string {
	return strings.ToUpper(strings.ReplaceAll(slug.Make(label), "-", "_"))
}

// CreateColumn appends a new status column, inserted immediately before DONE
// when a DONE column exists. Ids derive from the label; collisions get a
// monotonic _2, _3... suffix.
func (s *Service) CreateColumn(actor *permissions.Actor, label, color string) (*models.StatusColumn, error) {
	if !permissions.Can(actor, permissions.ActionManageColumns) {
		return nil, types.ErrPermissionDenied
	}

	label = strings.TrimSpace(label)

	if label == "" {
		return nil, fmt.Errorf("column label is required: %w", types.ErrInvalidTransition)
	}

	var column *models.StatusColumn

	err := s.db.Transaction(func(tx *gorm.DB) error {
		base := columnSlug(label)
		candidate := base

		for n := 2; ; n++ {
			taken, err := s.statusExists(tx, candidate)
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			candidate = fmt.Sprintf("%s_%d", base, n)
		}

		position, err := insertionPosition(tx)
		if err != nil {
			return err
		}

		column = &models.StatusColumn{
			Slug:     candidate,
			Label:    label,
			Color:    color,
			Position: position,
		}

		return tx.Create(column).Error
	})

	if err != nil {
		return nil, err
	}

	s.publishBoard("column created")
	return column, nil
}

// insertionPosition shifts DONE (and anything after it) one slot right and
// returns the freed position, or the end of the sequence when no DONE column
// is configured.
func insertionPosition(tx *gorm.DB) (int, error) {
	var done models.StatusColumn

	err := tx.Where("slug = ?", models.StatusDone).First(&done).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		var max *int
		if err := tx.Model(&models.StatusColumn{}).Select("MAX(position)").Scan(&max).Error; err != nil {
			return 0, err
		}
		if max == nil {
			return 0, nil
		}
		return *max + 1, nil
	}

	if err != nil {
		return 0, err
	}

	err = tx.Model(&models.StatusColumn{}).
		Where("position >= ?", done.Position).
		Update("position", gorm.Expr("position + 1")).Error

	if err != nil {
		return 0, err
	}

	return done.Position, nil
}

// DeleteColumn removes a non-protected column. Member tasks fall back to
// BACKLOG inside the same transaction, so no task is ever left referencing a
// removed status.
func (s *Service) DeleteColumn(actor *permissions.Actor, statusSlug string) error {
	if !permissions.Can(actor, permissions.ActionManageColumns) {
		return types.ErrPermissionDenied
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var column models.StatusColumn

		if err := tx.Where("slug = ?", statusSlug).First(&column).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		if column.Protected {
			return types.ErrProtectedColumn
		}

		err := tx.Model(&models.Task{}).
			Where("status = ?", column.Slug).
			Update("status", models.StatusBacklog).Error

		if err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&column).Error; err != nil {
			return err
		}

		return tx.Model(&models.StatusColumn{}).
			Where("position > ?", column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})

	if err != nil {
		return err
	}

	s.publishBoard("column deleted")
	return nil
}

func (s *Service) publishBoard(message string) {
	if s.hub != nil {
		s.hub.Publish(broadcast.Event{Type: broadcast.EventBoard, Message: message})
	}
}
