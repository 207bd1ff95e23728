package handler

import (
	"github.com/deppfellow/go-todo/internal/model"
	"github.com/deppfellow/go-todo/internal/validation"
)

// ListTodosRequest takes no input.
type ListTodosRequest struct{}

func (r *ListTodosRequest) Validate() error {
	return nil
}

// CreateTodoRequest is the body of POST /api/todos. Any id or createdOn
// sent by the client is ignored.
type CreateTodoRequest struct {
	Title     string `json:"title" validate:"required,notblank"`
	Completed bool   `json:"completed"`
}

func (r *CreateTodoRequest) Validate() error {
	return validation.Validator().Struct(r)
}

func (r *CreateTodoRequest) toInput() model.NewTodoInput {
	return model.NewTodoInput{Title: r.Title, Completed: r.Completed}
}

// TodoIDRequest addresses a single todo by path.
type TodoIDRequest struct {
	ID int64 `param:"id"`
}

func (r *TodoIDRequest) Validate() error {
	return validation.Validator().Struct(r)
}

func (r *TodoIDRequest) BindPathOnly() {}

// UpdateTodoRequest binds only the id of PUT /api/todos/:id. The body is
// read as UpdateTodoBody once the todo is known to exist.
type UpdateTodoRequest struct {
	ID int64 `param:"id"`
}

func (r *UpdateTodoRequest) Validate() error {
	return validation.Validator().Struct(r)
}

func (r *UpdateTodoRequest) BindPathOnly() {}

// UpdateTodoBody carries the overwritable fields. An omitted completed
// means false.
type UpdateTodoBody struct {
	Title     string `json:"title" validate:"required,notblank"`
	Completed bool   `json:"completed"`
}

func (b *UpdateTodoBody) Validate() error {
	return validation.Validator().Struct(b)
}

func (b *UpdateTodoBody) toChanges() model.TodoChanges {
	return model.TodoChanges{Title: b.Title, Completed: b.Completed}
}
