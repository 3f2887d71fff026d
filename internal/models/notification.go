package models

import "gorm.io/gorm"

type NotificationKind string

const (
	NotifyInfo    NotificationKind = "INFO"
	NotifySuccess NotificationKind = "SUCCESS"
	NotifyWarning NotificationKind = "WARNING"
	NotifyError   NotificationKind = "ERROR"
)

type Notification struct {
	gorm.Model

	UserID  uint             `gorm:"not null;index"`
	Title   string           `gorm:"not null"`
	Message string
	Kind    NotificationKind `gorm:"not null;default:INFO"`
	Read    bool             `gorm:"not null;default:false"`
}
