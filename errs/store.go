package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Catalog errors
var (
	ErrStoreUnavailable = errors.New("catalog store unavailable")
	ErrGalleryFull      = errors.New("gallery is full")
	ErrButtonLimit      = errors.New("button limit reached")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNotAnImage       = errors.New("media item is not an image")
)

// StoreError is returned by every catalog store operation.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func NewStoreError(op string, cause error) *StoreError {
	return &StoreError{Op: op, Cause: cause}
}

func NewGalleryFullError(limit int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrGalleryFull,
		Details:    fmt.Sprintf("At most %d projects can be shown in the gallery", limit),
		Field:      "is_in_gallery",
	}
}

func NewButtonLimitError(limit int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrButtonLimit,
		Details:    fmt.Sprintf("A project can have at most %d buttons", limit),
		Field:      "buttons",
	}
}

// FromStoreError maps a store or editor failure onto the API error taxonomy.
func FromStoreError(err error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}

	op := "access"
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		op = storeErr.Op
	}

	switch {
	case errors.Is(err, ErrGalleryFull):
		return &ApiErr{StatusCode: http.StatusConflict, err: ErrGalleryFull, Field: "is_in_gallery", Cause: err}
	case errors.Is(err, ErrButtonLimit):
		return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrButtonLimit, Field: "buttons", Cause: err}
	case errors.Is(err, ErrSubmitInProgress):
		return &ApiErr{StatusCode: http.StatusConflict, err: ErrSubmitInProgress, Cause: err}
	case errors.Is(err, ErrIndexOutOfRange):
		return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrIndexOutOfRange, Field: "index", Cause: err}
	case errors.Is(err, ErrNotAnImage):
		return &ApiErr{StatusCode: http.StatusBadRequest, err: ErrNotAnImage, Field: "media", Cause: err}
	case errors.Is(err, ErrStoreUnavailable):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrStoreUnavailable,
			Details:    fmt.Sprintf("Failed to %s catalog", op),
			Cause:      err,
		}
	}
	return NewDatabaseError(op, "project", err)
}
