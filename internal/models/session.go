package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is a sanitized snapshot of the authenticated user. It never holds
// the password hash; the reconciler keeps Name/Role/Status in step with the
// canonical user record.
type Session struct {
	gorm.Model

	Token  string `gorm:"uniqueIndex;not null"`
	UserID uint   `gorm:"not null;index"`

	Name   string     `gorm:"not null"`
	Email  string     `gorm:"not null"`
	Role   Role       `gorm:"not null"`
	Status UserStatus `gorm:"not null"`

	Revoked       bool `gorm:"not null;default:false"`
	RevokedReason string
	ReconciledAt  time.Time
}
