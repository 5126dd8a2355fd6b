package client

import (
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
)

// APIResponse is the envelope most laboratory endpoints wrap their payload in.
type APIResponse[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Unwrap returns Data, or ErrMalformedResponse carrying the server message when success is false.
func (r APIResponse[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		return zero, apperrors.Wrapf(apperrors.ErrMalformedResponse, "unsuccessful response %q", r.Message)
	}
	return r.Data, nil
}

// PageResponse is a server-side page of results.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}
