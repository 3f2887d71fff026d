package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/middleware"
	"github.com/quadro-dev/quadro/internal/permissions"
	"github.com/quadro-dev/quadro/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

// GetActor adapts the request user into the permission evaluator's identity.
func GetActor(ctx *gin.Context) (*permissions.Actor, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return nil, err
	}

	return &permissions.Actor{ID: user.ID, Role: user.Role}, nil
}
