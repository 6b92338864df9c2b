package router

import (
	"github.com/taskhub/taskhub-api/internal/application"
	"github.com/taskhub/taskhub-api/internal/container"
	"github.com/taskhub/taskhub-api/internal/domain/repository"
	pginfra "github.com/taskhub/taskhub-api/internal/infrastructure/postgres"
	handlers "github.com/taskhub/taskhub-api/internal/interface/http"
	"github.com/taskhub/taskhub-api/internal/router/modules"
)

type authDeps struct {
	Repo    repository.UserRepository
	Service *application.AuthService
	Handler *handlers.AuthHandler
}

type taskDeps struct {
	Repo    repository.TaskRepository
	Service *application.TaskService
	Handler *handlers.TaskHandler
}

func buildAuthDeps() authDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())
	service := application.NewAuthService(repo, container.GetJWT(), container.GetLogger(), cfg.BcryptCost)
	handler := handlers.NewAuthHandler(service, container.GetLogger(), cfg.Env)
	return authDeps{Repo: repo, Service: service, Handler: handler}
}

func buildTaskDeps() taskDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewTaskRepository(container.GetPGPool())
	service := application.NewTaskService(repo, container.GetLogger())
	handler := handlers.NewTaskHandler(service, container.GetLogger(), cfg.Env)
	return taskDeps{Repo: repo, Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	auth := buildAuthDeps()
	tasks := buildTaskDeps()

	r.Add(modules.NewAuthModule(auth.Handler, auth.Repo, container.GetJWT()))
	r.Add(modules.NewTaskModule(tasks.Handler, auth.Repo, container.GetJWT()))
	r.Add(modules.NewOpsModule())
}
