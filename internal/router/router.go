package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/handlers"
	"github.com/quadro-dev/quadro/internal/middleware"
	"github.com/quadro-dev/quadro/internal/session"
	"github.com/quadro-dev/quadro/internal/types"
)

func NewRouter(h *handlers.Handler, sessions *session.Store) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(sessions)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", authRequired, h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", authRequired, h.Logout)
			auth.GET("/me", authRequired, h.Me)
			auth.PATCH("/password", authRequired, h.ChangePassword)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.PATCH("/:user_id", h.UpdateUser)
			users.DELETE("/:user_id", h.DeleteUser)
		}

		board := api.Group("/board", authRequired)
		{
			board.GET("", h.GetBoard)
			board.POST("/columns", h.CreateColumn)
			board.DELETE("/columns/:slug", h.DeleteColumn)
		}

		tasks := api.Group("/tasks", authRequired)
		{
			tasks.GET("", h.ListTasks)
			tasks.POST("", h.CreateTask)
			tasks.POST("/quick", h.QuickCreateTask)
			tasks.GET("/:task_id", h.GetTask)
			tasks.PATCH("/:task_id", h.UpdateTask)
			tasks.DELETE("/:task_id", h.DeleteTask)
			tasks.PATCH("/:task_id/move", h.MoveTask)
			tasks.PATCH("/:task_id/reschedule", h.RescheduleTask)
			tasks.POST("/:task_id/approve", h.ApproveTask)

			tasks.POST("/:task_id/subtasks", h.AddSubtask)
			tasks.PATCH("/:task_id/subtasks/:subtask_id", h.ToggleSubtask)
			tasks.DELETE("/:task_id/subtasks/:subtask_id", h.RemoveSubtask)

			tasks.POST("/:task_id/comments", h.AddComment)

			tasks.POST("/:task_id/attachments", h.AddAttachment)
			tasks.DELETE("/:task_id/attachments/:attachment_id", h.RemoveAttachment)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.GET("", h.ListProjects)
			projects.POST("", h.CreateProject)
			projects.PATCH("/:project_id", h.UpdateProject)
			projects.DELETE("/:project_id", h.DeleteProject)
		}

		templates := api.Group("/templates", authRequired)
		{
			templates.GET("", h.ListTemplates)
			templates.POST("", h.CreateTemplate)
			templates.DELETE("/:template_id", h.DeleteTemplate)
			templates.POST("/:template_id/instantiate", h.InstantiateTemplate)
		}

		notifications := api.Group("/notifications", authRequired)
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/:notification_id/read", h.MarkNotificationRead)
		}

		api.GET("/dashboard", authRequired, h.GetDashboard)
	}

	return r
}
