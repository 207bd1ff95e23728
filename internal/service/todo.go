package service

import (
	"context"
	"time"

	"github.com/deppfellow/go-todo/internal/model"
	"github.com/deppfellow/go-todo/internal/repository"
	"github.com/rs/zerolog"
)

// TodoService implements the todo operations on top of a repository.
//
// There is no locking across calls: two concurrent updates of the same
// todo both succeed and the last write wins.
type TodoService struct {
	todos repository.TodoRepository
	now   func() time.Time
}

func NewTodoService(todos repository.TodoRepository) *TodoService {
	return &TodoService{
		todos: todos,
		now:   time.Now,
	}
}

// ListAll returns every todo in ascending id order. The slice is never nil.
func (s *TodoService) ListAll(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.todos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Create stores a new todo stamped with the current time.
//
// A blank title yields a *model.ValidationError and nothing is stored.
func (s *TodoService) Create(ctx context.Context, input model.NewTodoInput) (model.Todo, error) {
	todo := model.NewTodo(input.Title, input.Completed, s.now())
	if err := todo.Validate(); err != nil {
		return model.Todo{}, err
	}

	created, err := s.todos.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("todo_id", created.ID).
		Msg("todo created")

	return created, nil
}

// Get returns model.ErrTodoNotFound when id is unknown.
func (s *TodoService) Get(ctx context.Context, id int64) (model.Todo, error) {
	return s.todos.Get(ctx, id)
}

// Update overwrites title and completed of an existing todo.
//
// The todo is looked up first; when it does not exist the result is
// model.ErrTodoNotFound and decode is never called. Otherwise decode
// supplies the new values, and a blank title yields a
// *model.ValidationError without touching the stored record.
func (s *TodoService) Update(ctx context.Context, id int64, decode func() (model.TodoChanges, error)) (model.Todo, error) {
	todo, err := s.todos.Get(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	changes, err := decode()
	if err != nil {
		return model.Todo{}, err
	}

	todo.Apply(changes)
	if err := todo.Validate(); err != nil {
		return model.Todo{}, err
	}

	updated, err := s.todos.Update(ctx, todo)
	if err != nil {
		return model.Todo{}, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("todo_id", updated.ID).
		Bool("completed", updated.Completed).
		Msg("todo updated")

	return updated, nil
}

// Delete removes the todo. Deleting an unknown id succeeds.
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.todos.Delete(ctx, id); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Int64("todo_id", id).
		Msg("todo deleted")

	return nil
}
