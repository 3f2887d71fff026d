package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Color        string `gorm:"not null"`
	Description  string
	Observations string

	// Relationships
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
