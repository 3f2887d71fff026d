// Package directory is CRUD over the canonical user list, gated by the
// permission evaluator and guarded against self-lockout.
package directory

import (
	"errors"
	"strings"

	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	hub *broadcast.Hub
}

func NewService(db *gorm.DB, hub *broadcast.Hub) *Service {
	return &Service{db: db, hub: hub}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Avatar   string
	Role     models.Role
	Status   models.UserStatus
	Password string
}

type UpdateUserInput struct {
	Name   *string
	Avatar *string
	Role   *models.Role
	Status *models.UserStatus
}

func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User

	if err := s.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Service) GetUser(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *Service) CreateUser(actor *permissions.Actor, input CreateUserInput) (*models.User, error) {
	if !permissions.Can(actor, permissions.ActionManageUsers) {
		return nil, types.ErrPermissionDenied
	}

	return s.insertUser(input)
}

// Register is the self-registration path: no actor, the account lands in
// PENDING with the lowest-privilege role until someone with MANAGE_USERS
// promotes it.
func (s *Service) Register(name, email, password string) (*models.User, error) {
	return s.insertUser(CreateUserInput{
		Name:     name,
		Email:    email,
		Role:     models.RoleAnalista,
		Status:   models.UserPending,
		Password: password,
	})
}

func (s *Service) insertUser(input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User

	err := s.db.Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil, types.ErrEmailTaken
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.UserActive
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Avatar:       input.Avatar,
		Role:         input.Role,
		Status:       input.Status,
		PasswordHash: string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.publishDirectory("user created")
	return &user, nil
}

// UpdateUser mutates a user record. Role and status changes require
// MANAGE_USERS; a user may always rename themselves; nobody may disable their
// own account.
func (s *Service) UpdateUser(actor *permissions.Actor, targetID uint, input UpdateUserInput) (*models.User, error) {
	if actor == nil {
		return nil, types.ErrPermissionDenied
	}

	user, err := s.GetUser(targetID)

	if err != nil {
		return nil, err
	}

	manager := permissions.Can(actor, permissions.ActionManageUsers)
	self := actor.ID == targetID

	updates := make(map[string]interface{})

	if input.Name != nil {
		if !manager && !self {
			return nil, types.ErrPermissionDenied
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}

	if input.Avatar != nil {
		if !manager && !self {
			return nil, types.ErrPermissionDenied
		}
		updates["avatar"] = *input.Avatar
	}

	if input.Role != nil {
		if !manager {
			return nil, types.ErrPermissionDenied
		}
		updates["role"] = *input.Role
	}

	if input.Status != nil {
		if !manager {
			return nil, types.ErrPermissionDenied
		}
		if self && *input.Status == models.UserDisabled {
			return nil, types.ErrSelfLockout
		}
		updates["status"] = *input.Status
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.publishDirectory("user updated")
	return user, nil
}

// DisableUser suspends an account; the reconciler will force its sessions out
// on the next pass.
func (s *Service) DisableUser(actor *permissions.Actor, targetID uint) (*models.User, error) {
	disabled := models.UserDisabled
	return s.UpdateUser(actor, targetID, UpdateUserInput{Status: &disabled})
}

func (s *Service) DeleteUser(actor *permissions.Actor, targetID uint) error {
	if !permissions.Can(actor, permissions.ActionManageUsers) {
		return types.ErrPermissionDenied
	}

	if actor.ID == targetID {
		return types.ErrSelfLockout
	}

	user, err := s.GetUser(targetID)

	if err != nil {
		return err
	}

	// Tasks created by or assigned to the user are left in place; their
	// creator/assignee ids become soft references.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})

	if err != nil {
		return err
	}

	s.publishDirectory("user deleted")
	return nil
}

// ChangePassword rehashes a user's own password after proving the current one.
func (s *Service) ChangePassword(actor *permissions.Actor, current, next string) error {
	if actor == nil {
		return types.ErrPermissionDenied
	}

	user, err := s.GetUser(actor.ID)

	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return types.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password_hash", string(hash)).Error
}

func (s *Service) publishDirectory(message string) {
	if s.hub != nil {
		s.hub.Publish(broadcast.Event{Type: broadcast.EventDirectory, Message: message})
	}
}
