// Package session holds the authenticated identities and keeps them in step
// with the canonical user directory.
package session

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

type Store struct {
	db    *gorm.DB
	hub   *broadcast.Hub
	phase atomic.Int32

	// Optional bcrypt hash of a legacy shared passphrase. Empty disables the
	// fallback, which is the default.
	legacyMasterHash string
}

type Option func(*Store)

func WithLegacyMasterHash(hash string) Option {
	return func(s *Store) { s.legacyMasterHash = hash }
}

func NewStore(db *gorm.DB, hub *broadcast.Hub, opts ...Option) *Store {
	s := &Store{db: db, hub: hub}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Phase() Phase {
	return Phase(s.phase.Load())
}

// Restore loads persisted sessions at startup, distinguishing "not yet
// determined" from "confirmed absent" for callers that ask before Ready.
func (s *Store) Restore() error {
	s.phase.Store(int32(PhaseLoading))

	var count int64
	if err := s.db.Model(&models.Session{}).Where("revoked = ?", false).Count(&count).Error; err != nil {
		return err
	}

	s.phase.Store(int32(PhaseReady))
	log.Printf("Session store ready with %d live sessions", count)
	return nil
}

// Login authenticates against the canonical user list. The returned session
// record is sanitized: it carries a snapshot of the user without the password
// hash.
func (s *Store) Login(email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	err := s.db.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status == models.UserDisabled {
		return nil, types.ErrAccountSuspended
	}

	if !s.passwordMatches(user.PasswordHash, password) {
		return nil, types.ErrInvalidCredentials
	}

	sess := models.Session{
		Token:        uuid.NewString(),
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Status:       user.Status,
		ReconciledAt: time.Now(),
	}

	if err := s.db.Create(&sess).Error; err != nil {
		return nil, err
	}

	return &sess, nil
}

func (s *Store) passwordMatches(hash, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
		return true
	}

	if s.legacyMasterHash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(s.legacyMasterHash), []byte(password)) == nil
}

// Current resolves a session token. Revoked sessions surface the distinct
// suspended error so the boundary can tell "access revoked" from "not found".
func (s *Store) Current(token string) (*models.Session, error) {
	var sess models.Session

	err := s.db.Where("token = ?", token).First(&sess).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if sess.Revoked || sess.Status == models.UserDisabled {
		return nil, types.ErrAccountSuspended
	}

	return &sess, nil
}

// Logout deletes the session record. Reconciliation results that arrive for a
// deleted session update zero rows, so an in-flight reconcile cannot resurrect
// it.
func (s *Store) Logout(token string) error {
	result := s.db.Where("token = ?", token).Delete(&models.Session{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	if s.hub != nil {
		s.hub.Publish(broadcast.Event{Type: broadcast.EventSession, Message: "logged out"})
	}

	return nil
}

// PurgeStale removes revoked sessions and sessions older than maxAge.
func (s *Store) PurgeStale(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	return s.db.
		Where("revoked = ? OR created_at < ?", true, cutoff).
		Delete(&models.Session{}).Error
}
