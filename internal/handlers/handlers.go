package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/board"
	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/directory"
	"github.com/quadro-dev/quadro/internal/services"
	"github.com/quadro-dev/quadro/internal/session"
	"github.com/quadro-dev/quadro/internal/types"
)

type Handler struct {
	Board     *board.Service
	Directory *directory.Service
	Sessions  *session.Store
	Notifier  *services.Notifier
	Hub       *broadcast.Hub
}

func New(boardSvc *board.Service, dir *directory.Service, sessions *session.Store, notifier *services.Notifier, hub *broadcast.Hub) *Handler {
	return &Handler{
		Board:     boardSvc,
		Directory: dir,
		Sessions:  sessions,
		Notifier:  notifier,
		Hub:       hub,
	}
}

// respondError maps the domain error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an internal error and never leaks its message.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrPermissionDenied.Error()})
	case errors.Is(err, types.ErrAccountSuspended):
		ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrAccountSuspended.Error()})
	case errors.Is(err, types.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrNotFound.Error()})
	case errors.Is(err, types.ErrInvalidTransition):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": types.ErrInvalidTransition.Error()})
	case errors.Is(err, types.ErrInvalidCredentials),
		errors.Is(err, types.ErrProtectedColumn),
		errors.Is(err, types.ErrSelfLockout),
		errors.Is(err, types.ErrEmailTaken),
		errors.Is(err, types.ErrInvalidPriority):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(ctx *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

func parseQueryID(ctx *gin.Context, key string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Query(key), 10, 32)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
