package auth

import (
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
)

// DefaultLoginErrorMessage is shown when the server gives no reason for a failed login.
const DefaultLoginErrorMessage = "Ha ocurrido un error inesperado."

// LoginError describes a rejected login attempt. The session store is never
// touched when one is returned.
type LoginError struct {
	StatusCode        int
	Message           string
	RemainingAttempts *int
	Blocked           bool
	UnblockTime       time.Time
	cause             error
}

func (e *LoginError) Error() string {
	if e.Blocked && !e.UnblockTime.IsZero() {
		return fmt.Sprintf("login failed (%d): %s, locked until %s", e.StatusCode, e.Message, e.UnblockTime.Format(time.RFC3339))
	}
	return fmt.Sprintf("login failed (%d): %s", e.StatusCode, e.Message)
}

func (e *LoginError) Unwrap() []error {
	errs := []error{}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	if e.Blocked {
		errs = append(errs, apperrors.ErrAccountLocked)
	} else {
		errs = append(errs, apperrors.ErrInvalidCredentials)
	}
	return errs
}
