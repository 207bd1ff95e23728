package handler

import (
	"errors"

	"github.com/deppfellow/go-todo/internal/errs"
	"github.com/deppfellow/go-todo/internal/model"
	"github.com/deppfellow/go-todo/internal/server"
	"github.com/deppfellow/go-todo/internal/service"
	"github.com/deppfellow/go-todo/internal/validation"
	"github.com/labstack/echo/v4"
)

type TodoHandler struct {
	Handler
	todos *service.TodoService
}

func NewTodoHandler(s *server.Server, todos *service.TodoService) *TodoHandler {
	return &TodoHandler{
		Handler: NewHandler(s),
		todos:   todos,
	}
}

func (h *TodoHandler) ListTodos(c echo.Context, _ *ListTodosRequest) ([]model.Todo, error) {
	todos, err := h.todos.ListAll(c.Request().Context())
	if err != nil {
		return nil, translateError(err)
	}
	return todos, nil
}

func (h *TodoHandler) CreateTodo(c echo.Context, req *CreateTodoRequest) (model.Todo, error) {
	todo, err := h.todos.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return model.Todo{}, translateError(err)
	}
	return todo, nil
}

func (h *TodoHandler) GetTodo(c echo.Context, req *TodoIDRequest) (model.Todo, error) {
	todo, err := h.todos.Get(c.Request().Context(), req.ID)
	if err != nil {
		return model.Todo{}, translateError(err)
	}
	return todo, nil
}

// UpdateTodo answers 404 for an unknown id before the body is read, so a
// malformed body for a missing todo is still a 404.
func (h *TodoHandler) UpdateTodo(c echo.Context, req *UpdateTodoRequest) (model.Todo, error) {
	todo, err := h.todos.Update(c.Request().Context(), req.ID, func() (model.TodoChanges, error) {
		var body UpdateTodoBody
		if err := validation.BindBodyAndValidate(c, &body); err != nil {
			return model.TodoChanges{}, err
		}
		return body.toChanges(), nil
	})
	if err != nil {
		return model.Todo{}, translateError(err)
	}
	return todo, nil
}

// DeleteTodo succeeds whether or not the todo existed.
func (h *TodoHandler) DeleteTodo(c echo.Context, req *TodoIDRequest) error {
	if err := h.todos.Delete(c.Request().Context(), req.ID); err != nil {
		return translateError(err)
	}
	return nil
}

// translateError maps service outcomes onto HTTP errors. Storage failures
// pass through untouched; the global error handler sanitizes them.
func translateError(err error) error {
	if errors.Is(err, model.ErrTodoNotFound) {
		return errs.NewNotFoundError("Todo not found", false, nil).WithoutBody()
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return errs.ValidationError(validationErr.Field, validationErr.Message)
	}

	return err
}
