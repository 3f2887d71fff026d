package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/utils"
)

type CreateColumnRequest struct {
	Label string `json:"label" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// GetBoard serves the (tasks, statusOrder, statusConfig) triple the views
// render from.
func (h *Handler) GetBoard(ctx *gin.Context) {
	snapshot, err := h.Board.Snapshot()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (h *Handler) CreateColumn(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateColumnRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.Board.CreateColumn(actor, body.Label, body.Color)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, column)
}

func (h *Handler) DeleteColumn(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Board.DeleteColumn(actor, ctx.Param("slug")); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Column deleted successfully"})
}
