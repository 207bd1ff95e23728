package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	custom := "TODO_MISSING"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"bad request", NewBadRequestError("bad", false, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request custom code", NewBadRequestError("bad", false, &custom, nil), http.StatusBadRequest, custom},
		{"not found", NewNotFoundError("gone", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.False(t, tt.err.Bodiless)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("title", "must not be blank")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	require.Len(t, err.Errors, 1)
	assert.Equal(t, FieldError{Field: "title", Error: "must not be blank"}, err.Errors[0])
}

func TestCopiesDoNotMutate(t *testing.T) {
	base := NewNotFoundError("Todo not found", false, nil)

	bodiless := base.WithoutBody()
	renamed := base.WithMessage("gone")

	assert.True(t, bodiless.Bodiless)
	assert.False(t, base.Bodiless)
	assert.Equal(t, "gone", renamed.Message)
	assert.Equal(t, "Todo not found", base.Message)
}

func TestIsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("gone", false, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
