// Package model holds the domain types shared by the repository, service
// and handler layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// ErrTodoNotFound is the absence indicator returned by repositories when no
// record exists for an id. It is a normal outcome, not a failure.
var ErrTodoNotFound = errors.New("todo not found")

// Todo is the only entity of the system.
//
// The db tags are read by pgx.RowToStructByName and sqlx.
type Todo struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedOn time.Time `json:"createdOn" db:"created_on"`
	Completed bool      `json:"completed" db:"completed"`
}

// NewTodo builds a record that has not been persisted yet.
//
// CreatedOn is truncated to microseconds so the value survives a round trip
// through PostgreSQL timestamptz unchanged.
func NewTodo(title string, completed bool, now time.Time) Todo {
	return Todo{
		Title:     title,
		CreatedOn: now.UTC().Truncate(time.Microsecond),
		Completed: completed,
	}
}

// NewTodoInput is what a client supplies to create a todo.
type NewTodoInput struct {
	Title     string
	Completed bool
}

// TodoChanges is the set of fields a client may overwrite on update.
type TodoChanges struct {
	Title     string
	Completed bool
}

// Apply copies title and completed onto t. ID and CreatedOn are left alone.
func (t *Todo) Apply(changes TodoChanges) {
	t.Title = changes.Title
	t.Completed = changes.Completed
}

// Validate reports a *ValidationError when the record cannot be stored.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be blank"}
	}
	return nil
}

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}
