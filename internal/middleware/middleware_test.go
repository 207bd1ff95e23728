package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/go-todo/internal/config"
	"github.com/deppfellow/go-todo/internal/errs"
	"github.com/deppfellow/go-todo/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(rateLimit float64) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rateLimit,
			},
			Store: config.StoreConfig{Driver: config.DriverMemory},
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	mw := NewMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext(), mw.RateLimit.Limit())
	return e
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newEcho(newTestServer(0))

	e.GET("/bodiless", func(c echo.Context) error {
		return errs.NewNotFoundError("Todo not found", false, nil).WithoutBody()
	})
	e.GET("/validation", func(c echo.Context) error {
		return errs.ValidationError("title", "must not be blank")
	})
	e.GET("/driver", func(c echo.Context) error {
		return fmt.Errorf("creating todo: %w", &pgconn.PgError{Code: "23514", TableName: "todos"})
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connection reset by peer")
	})

	t.Run("bodiless error writes status only", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/bodiless")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("validation error carries field errors", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/validation")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "BAD_REQUEST", body.Code)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "title", body.Errors[0].Field)
	})

	t.Run("driver constraint error becomes bad request", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/driver")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "TODO_INVALID")
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/boom")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/nowhere")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Route not found")
	})
}

func TestRequestID(t *testing.T) {
	e := newEcho(newTestServer(0))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := serve(e, http.MethodGet, "/")
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		e := newEcho(newTestServer(0))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		for range 20 {
			assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/").Code)
		}
	})

	t.Run("denies over budget", func(t *testing.T) {
		e := newEcho(newTestServer(1))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/").Code)

		rec := serve(e, http.MethodGet, "/")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
	})
}
