package models

import "gorm.io/gorm"

type Role string

const (
	RoleAdministrador Role = "ADMINISTRADOR"
	RoleGerente       Role = "GERENTE"
	RoleSupervisor    Role = "SUPERVISOR"
	RoleTecnico       Role = "TECNICO"
	RoleAnalista      Role = "ANALISTA"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserPending  UserStatus = "PENDING"
	UserDisabled UserStatus = "DISABLED"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"` // stored lowercase
	Avatar       string
	Role         Role       `gorm:"not null"`
	Status       UserStatus `gorm:"not null;default:ACTIVE"`
	PasswordHash string     `gorm:"not null"`

	// Relationships
	Sessions      []Session      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
