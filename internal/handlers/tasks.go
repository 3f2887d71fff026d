package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/board"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/utils"
)

type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status" binding:"required"`
	Priority    models.Priority `json:"priority"`
	ProjectID   uint            `json:"project_id" binding:"required"`
	AssigneeID  uint            `json:"assignee_id"`
	DueDate     *time.Time      `json:"due_date"`
	Tags        []string        `json:"tags"`
}

type QuickCreateTaskRequest struct {
	Title     string     `json:"title" binding:"required"`
	Status    string     `json:"status" binding:"required"`
	ProjectID uint       `json:"project_id" binding:"required"`
	DueDate   *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *models.Priority `json:"priority"`
	AssigneeID  *uint            `json:"assignee_id"`
	DueDate     *time.Time       `json:"due_date"`
	Tags        []string         `json:"tags"`
}

type MoveTaskRequest struct {
	Status string `json:"status" binding:"required"`
}

type RescheduleTaskRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

type SubtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type AttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size string `json:"size"`
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	var filter board.TaskFilter

	if projectID, err := parseQueryID(ctx, "project_id"); err == nil {
		filter.ProjectID = projectID
	}

	if assigneeID, err := parseQueryID(ctx, "assignee_id"); err == nil {
		filter.AssigneeID = assigneeID
	}

	filter.Status = ctx.Query("status")

	tasks, err := h.Board.ListTasks(filter)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(ctx *gin.Context) {
	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.Board.GetTask(taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"task":       task,
		"completion": board.CompletionPercent(task.Subtasks),
	})
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.CreateTask(actor, board.TaskInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		ProjectID:   body.ProjectID,
		AssigneeID:  body.AssigneeID,
		DueDate:     body.DueDate,
		Tags:        body.Tags,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func (h *Handler) QuickCreateTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body QuickCreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.QuickCreateTask(actor, body.Title, body.Status, body.ProjectID, body.DueDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.UpdateTask(actor, taskID, board.TaskUpdate{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		AssigneeID:  body.AssigneeID,
		DueDate:     body.DueDate,
		Tags:        body.Tags,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// MoveTask backs both the board drag-and-drop drop commit and the explicit
// move action.
func (h *Handler) MoveTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body MoveTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.MoveTask(actor, taskID, body.Status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

// RescheduleTask backs the calendar drag path (dropping a task on a day).
func (h *Handler) RescheduleTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body RescheduleTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.Board.RescheduleTask(actor, taskID, body.DueDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *Handler) ApproveTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.Board.ApproveTask(actor, taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	if err := h.Board.DeleteTask(actor, taskID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) AddSubtask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body SubtaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	subtask, err := h.Board.AddSubtask(actor, taskID, body.Title)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, subtask)
}

func (h *Handler) ToggleSubtask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	subtaskID, err := parseID(ctx, "subtask_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask id"})
		return
	}

	subtask, err := h.Board.ToggleSubtask(actor, taskID, subtaskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, subtask)
}

func (h *Handler) RemoveSubtask(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	subtaskID, err := parseID(ctx, "subtask_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask id"})
		return
	}

	if err := h.Board.RemoveSubtask(actor, taskID, subtaskID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Subtask removed successfully"})
}

func (h *Handler) AddComment(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := h.Board.AddComment(actor, taskID, body.Text)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

func (h *Handler) AddAttachment(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var body AttachmentRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	attachment, err := h.Board.AddAttachment(actor, taskID, body.Name, body.URL, body.Type, body.Size)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, attachment)
}

func (h *Handler) RemoveAttachment(ctx *gin.Context) {
	actor, err := utils.GetActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := parseID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	attachmentID, err := parseID(ctx, "attachment_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment id"})
		return
	}

	if err := h.Board.RemoveAttachment(actor, taskID, attachmentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Attachment removed successfully"})
}
