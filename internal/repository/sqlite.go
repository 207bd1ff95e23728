package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/go-todo/internal/model"
	"github.com/jmoiron/sqlx"
)

// SQLiteTodoRepository stores todos in an embedded SQLite database.
//
// created_on is stored as unix microseconds.
type SQLiteTodoRepository struct {
	db *sqlx.DB
}

func NewSQLiteTodoRepository(db *sqlx.DB) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{db: db}
}

type sqliteTodoRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	CreatedOn int64  `db:"created_on"`
	Completed bool   `db:"completed"`
}

func (row sqliteTodoRow) toModel() model.Todo {
	return model.Todo{
		ID:        row.ID,
		Title:     row.Title,
		CreatedOn: time.UnixMicro(row.CreatedOn).UTC(),
		Completed: row.Completed,
	}
}

func (r *SQLiteTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	var rows []sqliteTodoRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+todoColumns+` FROM todos ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, row.toModel())
	}
	return todos, nil
}

func (r *SQLiteTodoRepository) Get(ctx context.Context, id int64) (model.Todo, error) {
	var row sqliteTodoRow
	err := r.db.GetContext(ctx, &row, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, model.ErrTodoNotFound
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return row.toModel(), nil
}

func (r *SQLiteTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, created_on, completed) VALUES (?, ?, ?)`,
		todo.Title, todo.CreatedOn.UnixMicro(), todo.Completed,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting last insert id: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *SQLiteTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ? WHERE id = ?`,
		todo.Title, todo.Completed, todo.ID,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", todo.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return model.Todo{}, model.ErrTodoNotFound
	}

	return r.Get(ctx, todo.ID)
}

func (r *SQLiteTodoRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}
