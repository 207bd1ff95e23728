// Package repository handles all interactions with the backing store.
//
// It contains the raw queries and commands used to fetch, persist,
// or delete Todo records, abstracting storage logic away from the
// service layer.
package repository

import (
	"context"

	"github.com/deppfellow/go-todo/internal/model"
)

// TodoRepository is the storage contract every backing store implements.
//
// Get and Update return model.ErrTodoNotFound when no record exists.
// Delete of a missing id is not an error.
type TodoRepository interface {
	// ListAll returns every stored record in ascending id order.
	ListAll(ctx context.Context) ([]model.Todo, error)
	Get(ctx context.Context, id int64) (model.Todo, error)
	// Create assigns a fresh id and keeps todo.CreatedOn as given.
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	// Update overwrites title and completed of the record with todo.ID.
	Update(ctx context.Context, todo model.Todo) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}
