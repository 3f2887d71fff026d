package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/directory"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/types"
	"github.com/quadro-dev/quadro/internal/utils"
)

type CreateUserRequest struct {
	Name     string            `json:"name" binding:"required"`
	Email    string            `json:"email" binding:"required,email"`
	Avatar   string            `json:"avatar"`
	Role     models.Role       `json:"role" binding:"required"`
	Status   models.UserStatus `json:"status"`
	Password string            `json:"password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	Name   *string            `json:"name"`
	Avatar *string            `json:"avatar"`
	Role   *models.Role       `json:"role"`
	Status *models.UserStatus `json:"status"`
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	users, err := h.Directory.ListUsers()

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Directory.CreateUser(actor, directory.CreateUserInput{
		Name:     body.Name,
		Email:    body.Email,
		Avatar:   body.Avatar,
		Role:     body.Role,
		Status:   body.Status,
		Password: body.Password,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": types.NewUserResponse(*user)})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, err := parseID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Directory.UpdateUser(actor, targetID, directory.UpdateUserInput{
		Name:   body.Name,
		Avatar: body.Avatar,
		Role:   body.Role,
		Status: body.Status,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(*user)})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, err := parseID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.Directory.DeleteUser(actor, targetID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
