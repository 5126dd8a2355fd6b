package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-lab-console/client"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage/repofake"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/stretchr/testify/require"
)

func TestChangePasswordRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   users.ChangePasswordRequest
		valid bool
	}{
		{name: "missing field", req: users.ChangePasswordRequest{OldPassword: "old123", NewPassword: "new123"}},
		{name: "too short", req: users.ChangePasswordRequest{OldPassword: "old123", NewPassword: "abc", ConfirmPassword: "abc"}},
		{name: "mismatch", req: users.ChangePasswordRequest{OldPassword: "old123", NewPassword: "new1234", ConfirmPassword: "new1235"}},
		{name: "valid", req: users.ChangePasswordRequest{OldPassword: "old123", NewPassword: "señal1", ConfirmPassword: "señal1"}, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		})
	}
}

func TestChangePassword(t *testing.T) {
	var got users.ChangePasswordRequest
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.OldPassword != "old123" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "La contraseña actual es incorrecta"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := sessions.NewStore(repofake.NewFakeStorageRepo())
	api := client.New(srv.URL, http.DefaultTransport, time.Second)
	service := users.NewService(api, store)
	req := users.ChangePasswordRequest{OldPassword: "old123", NewPassword: "new123", ConfirmPassword: "new123"}

	require.ErrorIs(t, service.ChangePassword(context.Background(), 7, req), apperrors.ErrSessionNotFound)

	require.NoError(t, store.SetCurrent(sessions.Session{Username: "jdoe", Token: "t", UserID: 7}))
	require.NoError(t, service.ChangePassword(context.Background(), 7, req))
	require.Equal(t, "/v1/users/7/change-password", gotPath)
	require.Equal(t, req, got)

	req.OldPassword = "wrong1"
	err := service.ChangePassword(context.Background(), 7, req)
	require.True(t, client.IsStatus(err, http.StatusBadRequest))
	require.Contains(t, err.Error(), "La contraseña actual es incorrecta")

	require.ErrorIs(t, service.ChangePassword(context.Background(), 0, req), apperrors.ErrInvalidRequest)
}

func TestRoles(t *testing.T) {
	require.Equal(t, users.RoleAdmin, users.NormalizeRole("ROLE_ADMIN"))
	require.Equal(t, users.RoleBiologo, users.NormalizeRole(" biologo "))

	s := &sessions.Session{Token: "t", Role: "DOCTOR", Roles: []string{"DOCTOR", "ROLE_ADMIN"}}
	require.True(t, users.HasRole(s, users.RoleAdmin))
	require.False(t, users.HasRole(s, users.RoleTecnologo))
	require.False(t, users.HasRole(nil, users.RoleAdmin))
}
