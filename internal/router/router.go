// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/go-todo/internal/handler"
	"github.com/deppfellow/go-todo/internal/middleware"
	"github.com/deppfellow/go-todo/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance serving the whole API.
//
// Middleware order matters: the request id and the New Relic transaction
// must exist before the context enhancer builds the request logger, and
// rejected requests (rate limit, CORS) are still logged.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerTodoRoutes(api, h)

	return router
}

func registerTodoRoutes(api *echo.Group, h *handler.Handlers) {
	todos := api.Group("/todos")

	todos.GET("", handler.Handle(h.Todo.ListTodos, http.StatusOK))
	todos.POST("", handler.Handle(h.Todo.CreateTodo, http.StatusOK))
	todos.GET("/:id", handler.Handle(h.Todo.GetTodo, http.StatusOK))
	todos.PUT("/:id", handler.Handle(h.Todo.UpdateTodo, http.StatusOK))
	todos.DELETE("/:id", handler.HandleNoContent(h.Todo.DeleteTodo, http.StatusNoContent))
}
