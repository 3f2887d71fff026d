package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskTemplate pre-fills recurring process tasks (title, description and a
// checklist of subtask titles stored as a JSON array of strings).
type TaskTemplate struct {
	gorm.Model

	Name               string `gorm:"not null"`
	DefaultTitle       string `gorm:"not null"`
	DefaultDescription string
	DefaultSubtasks    datatypes.JSON
}
