package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// Weight orders priorities by severity, 0 being the most severe.
func (p Priority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	// Status references a StatusColumn slug; columns are user-extensible so this
	// is validated against the column set at the boundary, not a closed enum.
	Status    string   `gorm:"not null;index"`
	Priority  Priority `gorm:"not null;default:NORMAL"`
	ProjectID uint     `gorm:"not null;index"`
	// Creator and assignee are soft references: deleting a user leaves them in
	// place rather than cascading to the user's tasks.
	CreatorID  uint `gorm:"not null;index"`
	AssigneeID uint `gorm:"index"`
	DueDate    *time.Time
	Tags       datatypes.JSON

	// Relationships
	Project     Project      `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Subtasks    []Subtask    `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments    []Comment    `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type Subtask struct {
	gorm.Model

	TaskID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`
}

// Attachment carries metadata only; there is no file storage behind it.
type Attachment struct {
	gorm.Model

	TaskID uint   `gorm:"not null;index"`
	Name   string `gorm:"not null"`
	URL    string
	Type   string
	Size   string
}

type Comment struct {
	gorm.Model

	TaskID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"`
	Text     string `gorm:"not null"`
}
