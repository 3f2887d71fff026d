package models

import "gorm.io/gorm"

// StatusColumn is one partition of the board. Position defines the canonical
// left-to-right order; Protected columns (backlog, done) cannot be deleted.
type StatusColumn struct {
	gorm.Model

	Slug      string `gorm:"uniqueIndex;not null"`
	Label     string `gorm:"not null"`
	Color     string `gorm:"not null"`
	Position  int    `gorm:"not null"`
	Protected bool   `gorm:"not null;default:false"`
}

const (
	StatusBacklog = "BACKLOG"
	StatusDone    = "DONE"
)
