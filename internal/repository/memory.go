package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/go-todo/internal/model"
)

// MemoryTodoRepository keeps todos in process memory.
//
// The mutex only protects the map itself; there is no cross-operation
// isolation, matching the other stores.
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]model.Todo
	nextID int64
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		todos: make(map[int64]model.Todo),
	}
}

func (r *MemoryTodoRepository) ListAll(_ context.Context) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}
	slices.SortFunc(todos, func(a, b model.Todo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return todos, nil
}

func (r *MemoryTodoRepository) Get(_ context.Context, id int64) (model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[id]
	if !ok {
		return model.Todo{}, model.ErrTodoNotFound
	}
	return todo, nil
}

func (r *MemoryTodoRepository) Create(_ context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	todo.ID = r.nextID
	r.todos[todo.ID] = todo
	return todo, nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.todos[todo.ID]
	if !ok {
		return model.Todo{}, model.ErrTodoNotFound
	}
	stored.Title = todo.Title
	stored.Completed = todo.Completed
	r.todos[todo.ID] = stored
	return stored, nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.todos, id)
	return nil
}
