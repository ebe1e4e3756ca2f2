package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/planner/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}

	// Auth routes
	r.POST("/auth/register", handlers.Auth.Register)
	r.POST("/auth/login", handlers.Auth.Login)
	r.POST("/auth/logout", handlers.Auth.Logout)

	// Protected routes
	r.GET("/auth/me", authMiddleware(handlers.Auth.Me))

	r.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PATCH("/tasks/{id}", authMiddleware(handlers.Task.PatchTask))
	r.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
