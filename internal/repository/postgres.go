package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/go-todo/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxQuerier is the subset of *pgxpool.Pool (and pgx.Tx) the repository uses.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresTodoRepository stores todos in the PostgreSQL `todos` table.
type PostgresTodoRepository struct {
	db PgxQuerier
}

func NewPostgresTodoRepository(db PgxQuerier) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

const todoColumns = "id, title, created_on, completed"

func (r *PostgresTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Todo])
	if err != nil {
		return nil, fmt.Errorf("scanning todos: %w", err)
	}
	return todos, nil
}

func (r *PostgresTodoRepository) Get(ctx context.Context, id int64) (model.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting todo %d: %w", id, err)
	}

	return collectOne(rows, id)
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO todos (title, created_on, completed)
		VALUES ($1, $2, $3)
		RETURNING `+todoColumns,
		todo.Title, todo.CreatedOn, todo.Completed,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Todo])
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	return created, nil
}

func (r *PostgresTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE todos
		SET title = $2, completed = $3
		WHERE id = $1
		RETURNING `+todoColumns,
		todo.ID, todo.Title, todo.Completed,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", todo.ID, err)
	}

	return collectOne(rows, todo.ID)
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}

// collectOne scans a single todo and turns pgx.ErrNoRows into the absence
// indicator.
func collectOne(rows pgx.Rows, id int64) (model.Todo, error) {
	todo, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Todo])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Todo{}, model.ErrTodoNotFound
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("scanning todo %d: %w", id, err)
	}
	return todo, nil
}
