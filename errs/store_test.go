package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_UnwrapsToSentinel(t *testing.T) {
	err := NewStoreError("update", fmt.Errorf("project x: %w", ErrNotFound))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "store update")
}

func TestFromStoreError_StatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewStoreError("update", ErrNotFound), http.StatusNotFound},
		{NewStoreError("create", ErrAlreadyExists), http.StatusConflict},
		{NewStoreError("fetch", ErrStoreUnavailable), http.StatusServiceUnavailable},
		{NewStoreError("create", ErrReadOnly), http.StatusServiceUnavailable},
		{ErrGalleryFull, http.StatusConflict},
		{ErrButtonLimit, http.StatusBadRequest},
		{ErrSubmitInProgress, http.StatusConflict},
		{fmt.Errorf("reorder: %w", ErrIndexOutOfRange), http.StatusBadRequest},
		{NewStoreError("delete", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, FromStoreError(c.err).StatusCode, c.err.Error())
	}
}

func TestFromStoreError_KeepsApiErr(t *testing.T) {
	apiErr := NewMissingRequiredFieldError("name.en")
	assert.Same(t, apiErr, FromStoreError(fmt.Errorf("wrapped: %w", apiErr)))
}

func TestApiErr_GetFullError(t *testing.T) {
	err := NewInternalErrorWithCause("outer", NewMissingRequiredFieldError("name.en"))
	assert.Equal(t, "outer -> missing required field: Missing required field: name.en", err.GetFullError())
}
