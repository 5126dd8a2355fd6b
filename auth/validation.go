package auth

import (
	"strings"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
)

// ValidateCredentials rejects blank input before any network call is made.
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "Por favor complete todos los campos")
	}
	return nil
}

// ValidateSucursal rejects an empty branch selection.
func ValidateSucursal(sucursal string) error {
	if strings.TrimSpace(sucursal) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "sucursal is required")
	}
	return nil
}
