package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/board"
	"github.com/quadro-dev/quadro/internal/utils"
)

type TemplateRequest struct {
	Name               string   `json:"name" binding:"required"`
	DefaultTitle       string   `json:"default_title" binding:"required"`
	DefaultDescription string   `json:"default_description"`
	DefaultSubtasks    []string `json:"default_subtasks"`
}

type InstantiateTemplateRequest struct {
	ProjectID uint       `json:"project_id" binding:"required"`
	DueDate   *time.Time `json:"due_date"`
}

func (h *Handler) ListTemplates(ctx *gin.Context) {
	templates, err := h.Board.ListTemplates()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, templates)
}

func (h *Handler) CreateTemplate(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	template, err := h.Board.CreateTemplate(actor, board.TemplateInput{
		Name:               body.Name,
		DefaultTitle:       body.DefaultTitle,
		DefaultDescription: body.DefaultDescription,
		DefaultSubtasks:    body.DefaultSubtasks,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, template)
}

func (h *Handler) DeleteTemplate(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	templateID, err := parseID(ctx, "template_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	if err := h.Board.DeleteTemplate(actor, templateID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func (h *Handler) InstantiateTemplate(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	templateID, err := parseID(ctx, "template_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	var body InstantiateTemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.InstantiateTemplate(actor, templateID, body.ProjectID, body.DueDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}
