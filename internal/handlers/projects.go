package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/board"
	"github.com/quadro-dev/quadro/internal/utils"
)

type ProjectRequest struct {
	Name         string `json:"name" binding:"required"`
	Color        string `json:"color" binding:"required"`
	Description  string `json:"description"`
	Observations string `json:"observations"`
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	projects, err := h.Board.ListProjects()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.Board.CreateProject(actor, board.ProjectInput{
		Name:         body.Name,
		Color:        body.Color,
		Description:  body.Description,
		Observations: body.Observations,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := parseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	var body ProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.Board.UpdateProject(actor, projectID, board.ProjectInput{
		Name:         body.Name,
		Color:        body.Color,
		Description:  body.Description,
		Observations: body.Observations,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := parseID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	if err := h.Board.DeleteProject(actor, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
