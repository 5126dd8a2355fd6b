package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-lab-console/users"
)

// ChangePasswordHandler changes the signed-in user's password (POST /users/change-password)
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.ChangePasswordRequest
		if err := decodeBody(r, &req, func(form url.Values) {
			req.OldPassword = form.Get("oldPassword")
			req.NewPassword = form.Get("newPassword")
			req.ConfirmPassword = form.Get("confirmPassword")
		}); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		session := sessionFrom(r.Context())
		if err := s.users.ChangePassword(r.Context(), session.UserID, req); err != nil {
			s.handleServiceError(w, r, "ChangePassword", err)
			return
		}
		writeJSON(w, http.StatusOK, statusBody{Success: true, Message: "Contraseña actualizada correctamente"})
	}
}
