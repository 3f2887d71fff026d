// Package services holds delivery-side collaborators the core emits through.
package services

import (
	"log"

	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
	"gorm.io/gorm"
)

// Notifier persists in-app notifications and nudges connected clients to
// re-fetch. Delivery failures are logged, never propagated into the caller's
// mutation.
type Notifier struct {
	db  *gorm.DB
	hub *broadcast.Hub
}

func NewNotifier(db *gorm.DB, hub *broadcast.Hub) *Notifier {
	return &Notifier{db: db, hub: hub}
}

func (n *Notifier) Emit(userID uint, title, message string, kind models.NotificationKind) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to store notification for user %d: %v", userID, err)
		return
	}

	if n.hub != nil {
		n.hub.Publish(broadcast.Event{Type: broadcast.EventNotification, Message: title})
	}
}

func (n *Notifier) ListForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification

	err := n.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error

	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (n *Notifier) MarkRead(userID, notificationID uint) error {
	return n.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}
