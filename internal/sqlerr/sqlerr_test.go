package sqlerr

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/go-todo/internal/database"
	"github.com/deppfellow/go-todo/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := []struct {
		state string
		want  Code
	}{
		{"23502", NotNullViolation},
		{"23503", ForeignKeyViolation},
		{"23505", UniqueViolation},
		{"23514", CheckViolation},
		{"57014", QueryCanceled},
		{"08006", ConnectionFailure},
		{"42P01", Other},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, MapCode(tt.state))
		})
	}
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, MapSeverity("ERROR"))
	assert.Equal(t, SeverityFatal, MapSeverity("fatal"))
	assert.Equal(t, SeverityUnknown, MapSeverity("LOUD"))
}

func TestHandleErrorPostgres(t *testing.T) {
	t.Run("check violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23514",
			Severity:       "ERROR",
			Message:        `new row for relation "todos" violates check constraint "todos_title_check"`,
			TableName:      "todos",
			ConstraintName: "todos_title_check",
		}

		err := HandleError(fmt.Errorf("creating todo: %w", pgErr))

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "TODO_INVALID", httpErr.Code)
		assert.Equal(t, CheckViolation, ErrCode(Convert(pgErr)))
	})

	t.Run("unique violation names the column", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23505",
			TableName:      "todos",
			ConstraintName: "todos_title_key",
		}

		var httpErr *errs.HTTPError
		require.True(t, errors.As(HandleError(pgErr), &httpErr))
		assert.Equal(t, "TODO_ALREADY_EXISTS", httpErr.Code)
		assert.Equal(t, "A Todo with this Title already exists", httpErr.Message)
	})

	t.Run("unknown sqlstate is internal", func(t *testing.T) {
		var httpErr *errs.HTTPError
		require.True(t, errors.As(HandleError(&pgconn.PgError{Code: "42P01"}), &httpErr))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	})
}

func TestHandleErrorSQLite(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.DB.ExecContext(ctx, "INSERT INTO todos (title, created_on) VALUES (NULL, 0)")
	require.Error(t, err)

	sqlErr := Convert(err)
	require.NotNil(t, sqlErr)
	assert.Equal(t, NotNullViolation, sqlErr.Code)
	assert.Equal(t, "todos", sqlErr.TableName)
	assert.Equal(t, "title", sqlErr.ColumnName)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(err), &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)

	_, err = db.DB.ExecContext(ctx, "INSERT INTO todos (title, created_on) VALUES ('   ', 0)")
	require.Error(t, err)
	assert.Equal(t, CheckViolation, ErrCode(Convert(err)))
}

func TestHandleErrorFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"http error passes through", errs.NewNotFoundError("gone", false, nil), http.StatusNotFound},
		{"pgx no rows", pgx.ErrNoRows, http.StatusNotFound},
		{"sql no rows", fmt.Errorf("get: %w", sql.ErrNoRows), http.StatusNotFound},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			require.True(t, errors.As(HandleError(tt.err), &httpErr))
			assert.Equal(t, tt.wantStatus, httpErr.Status)
		})
	}
}
