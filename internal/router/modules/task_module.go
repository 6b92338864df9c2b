package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub-api/internal/container"
	"github.com/taskhub/taskhub-api/internal/domain/repository"
	handlers "github.com/taskhub/taskhub-api/internal/interface/http"
	"github.com/taskhub/taskhub-api/internal/interface/middleware"
	"github.com/taskhub/taskhub-api/pkg/helpers"
)

// TaskModule wires the task CRUD routes, all behind the auth gate.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, users repository.UserRepository, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, Users: users, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Users, m.JWT))
	// Softer limits on authenticated traffic; private IPs bypass
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		auth.GET("/tasks", m.Handler.List)
		auth.POST("/tasks", m.Handler.Create)
		auth.GET("/tasks/:id", m.Handler.Get)
		auth.PUT("/tasks/:id", m.Handler.Update)
		auth.DELETE("/tasks/:id", m.Handler.Delete)
	}
}
