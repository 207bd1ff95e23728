package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-todo/internal/config"
	"github.com/deppfellow/go-todo/internal/errs"
	"github.com/deppfellow/go-todo/internal/model"
	"github.com/deppfellow/go-todo/internal/repository"
	"github.com/deppfellow/go-todo/internal/server"
	"github.com/deppfellow/go-todo/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	t.Run("not found is bodiless", func(t *testing.T) {
		var httpErr *errs.HTTPError
		require.True(t, errors.As(translateError(fmt.Errorf("get: %w", model.ErrTodoNotFound)), &httpErr))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.True(t, httpErr.Bodiless)
	})

	t.Run("validation names the field", func(t *testing.T) {
		var httpErr *errs.HTTPError
		require.True(t, errors.As(translateError(&model.ValidationError{Field: "title", Message: "must not be blank"}), &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "title", httpErr.Errors[0].Field)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, translateError(boom))
	})
}

func newTodoHandler(t *testing.T) *TodoHandler {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}},
		Logger: &logger,
	}
	return NewTodoHandler(s, service.NewTodoService(repository.NewMemoryTodoRepository()))
}

func serveJSON(h echo.HandlerFunc, method, body string, id string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return rec, h(c)
}

// Requests must not share state: a completed flag sent once must not stick
// to the next request that omits it.
func TestHandleAllocatesFreshRequests(t *testing.T) {
	h := newTodoHandler(t)
	create := Handle(h.CreateTodo, http.StatusOK)

	rec, err := serveJSON(create, http.MethodPost, `{"title":"first","completed":true}`, "")
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"completed":true`)

	rec, err = serveJSON(create, http.MethodPost, `{"title":"second"}`, "")
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), `"completed":false`)
}

func TestHandleNoContent(t *testing.T) {
	h := newTodoHandler(t)

	rec, err := serveJSON(HandleNoContent(h.DeleteTodo, http.StatusNoContent), http.MethodDelete, "", "5")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUpdateTodoReadsBodyOnlyForExistingTodo(t *testing.T) {
	h := newTodoHandler(t)
	update := Handle(h.UpdateTodo, http.StatusOK)

	_, err := serveJSON(update, http.MethodPut, `{"title":`, "1")
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	_, err = serveJSON(Handle(h.CreateTodo, http.StatusOK), http.MethodPost, `{"title":"exists"}`, "")
	require.NoError(t, err)

	_, err = serveJSON(update, http.MethodPut, `{"title":`, "1")
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}
