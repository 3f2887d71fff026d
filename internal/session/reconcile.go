package session

import (
	"log"
	"time"

	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
)

type Effect string

const (
	EffectNone    Effect = "none"
	EffectRefresh Effect = "refresh"
	EffectRevoked Effect = "revoked"
	EffectRemoved Effect = "removed"
)

const (
	ReasonAccessRevoked  = "access revoked"
	ReasonAccountRemoved = "account removed"
)

// Reconcile compares a session against the latest canonical record for the
// same user and returns the session as it should be persisted, plus the
// effects the caller must apply. It is a pure function: applying the same
// snapshot twice yields EffectNone the second time.
func Reconcile(sess models.Session, latest *models.User) (models.Session, []Effect) {
	if sess.Revoked {
		return sess, []Effect{EffectNone}
	}

	if latest == nil {
		sess.Revoked = true
		sess.RevokedReason = ReasonAccountRemoved
		return sess, []Effect{EffectRemoved}
	}

	if latest.Status == models.UserDisabled {
		sess.Revoked = true
		sess.RevokedReason = ReasonAccessRevoked
		sess.Status = models.UserDisabled
		return sess, []Effect{EffectRevoked}
	}

	if sess.Name == latest.Name && sess.Role == latest.Role && sess.Status == latest.Status {
		return sess, []Effect{EffectNone}
	}

	sess.Name = latest.Name
	sess.Role = latest.Role
	sess.Status = latest.Status
	return sess, []Effect{EffectRefresh}
}

// ReconcileAll re-reads the user directory and applies Reconcile to every
// live session. Changed sessions are persisted with a guarded update so a
// concurrent logout wins over a stale reconcile result.
func (s *Store) ReconcileAll() error {
	var sessions []models.Session

	if err := s.db.Where("revoked = ?", false).Find(&sessions).Error; err != nil {
		return err
	}

	if len(sessions) == 0 {
		return nil
	}

	var users []models.User

	if err := s.db.Find(&users).Error; err != nil {
		return err
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for _, sess := range sessions {
		updated, effects := Reconcile(sess, byID[sess.UserID])

		for _, effect := range effects {
			switch effect {
			case EffectNone:
				continue
			case EffectRefresh:
				s.applyReconciled(updated, broadcast.EventSession, "session refreshed")
			case EffectRevoked, EffectRemoved:
				s.applyReconciled(updated, broadcast.EventSession, updated.RevokedReason)
			}
		}
	}

	return nil
}

func (s *Store) applyReconciled(sess models.Session, eventType, message string) {
	result := s.db.Model(&models.Session{}).
		Where("token = ? AND revoked = ?", sess.Token, false).
		Updates(map[string]interface{}{
			"name":           sess.Name,
			"role":           sess.Role,
			"status":         sess.Status,
			"revoked":        sess.Revoked,
			"revoked_reason": sess.RevokedReason,
			"reconciled_at":  time.Now(),
		})

	if result.Error != nil {
		log.Printf("Failed to persist reconciled session %s: %v", sess.Token, result.Error)
		return
	}

	// Zero rows means the session was logged out mid-flight; drop the result.
	if result.RowsAffected == 0 {
		return
	}

	if s.hub != nil {
		s.hub.Publish(broadcast.Event{Type: eventType, Message: message})
	}
}
