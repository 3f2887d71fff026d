package types

import "github.com/quadro-dev/quadro/internal/models"

type UserResponse struct {
	ID     uint              `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Avatar string            `json:"avatar"`
	Role   models.Role       `json:"role"`
	Status models.UserStatus `json:"status"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
		Status: u.Status,
	}
}
