package users

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/pkg/errors"
)

// RoleType is a laboratory role as issued by the API.
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleMedico    RoleType = "MEDICO"
	RoleTecnologo RoleType = "TECNOLOGO"
	RoleBiologo   RoleType = "BIOLOGO"
	RolePaciente  RoleType = "PACIENTE" // Assigned when the server sends no roles
)

// NormalizeRole strips the Spring "ROLE_" prefix and upper-cases the name.
func NormalizeRole(role string) RoleType {
	return RoleType(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_"))
}

// HasRole reports whether the session carries role in any form.
func HasRole(s *sessions.Session, role RoleType) bool {
	if !s.Valid() {
		return false
	}
	if NormalizeRole(s.Role) == role {
		return true
	}
	for _, r := range s.Roles {
		if NormalizeRole(r) == role {
			return true
		}
	}
	return false
}

const minPasswordLength = 6

// ChangePasswordRequest is the body of POST /v1/users/{id}/change-password.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the request before it is sent:
// - all fields present
// - new password at least 6 characters long
// - confirmation matches
func (r ChangePasswordRequest) Validate() error {
	if r.OldPassword == "" || r.NewPassword == "" || r.ConfirmPassword == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "all password fields are required")
	}
	if utf8.RuneCountInString(r.NewPassword) < minPasswordLength {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "password must be at least %d characters long", minPasswordLength)
	}
	if r.NewPassword != r.ConfirmPassword {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "passwords do not match")
	}
	return nil
}

// API is the subset of the JSON client used here.
type API interface {
	Post(ctx context.Context, path string, body any, out any) error
}

// SessionSource supplies the current session, nil when signed out.
type SessionSource interface {
	GetCurrent() *sessions.Session
}

// Service wraps the remote user self-service endpoints.
type Service struct {
	api      API
	sessions SessionSource
}

func NewService(api API, sessions SessionSource) *Service {
	return &Service{api: api, sessions: sessions}
}

type apiResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChangePassword changes the signed-in user's password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if !s.sessions.GetCurrent().Valid() {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "[Users ChangePassword]")
	}
	if userID <= 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "[Users ChangePassword] user id is required")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var result apiResult
	if err := s.api.Post(ctx, fmt.Sprintf("/v1/users/%d/change-password", userID), req, &result); err != nil {
		return errors.Wrap(err, "[Users ChangePassword]")
	}
	if !result.Success {
		return apperrors.Wrapf(apperrors.ErrMalformedResponse, "[Users ChangePassword] %s", result.Message)
	}
	return nil
}
