package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-lab-console/client"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// HealthHandler reports liveness and whether the caller owns the held session.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"authenticated": s.ownsSession(r),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("[writeJSON] encode response")
	}
}

// statusBody is the JSON shape of console errors and acknowledgements.
type statusBody struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, statusBody{Success: false, Message: message})
}

// wantsJSON is true for fetch/XHR style callers.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// toLogin sends the caller to the login page in the form it understands and drops
// its console cookie. The server side key goes too once the session has ended.
func (s *Server) toLogin(w http.ResponseWriter, r *http.Request, loginPath, message string) {
	if loginPath == "" {
		loginPath = RouteLogin
	}
	if !s.store.GetCurrent().Valid() {
		s.consoleKey.revoke()
	}
	clearConsoleCookie(w, r)
	if wantsJSON(r) {
		writeJSON(w, http.StatusUnauthorized, statusBody{Success: false, Message: message, Redirect: loginPath})
		return
	}
	redirectWithError(w, r, loginPath, message)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path
	if errorMsg != "" {
		fullPath += "?error=" + url.QueryEscape(errorMsg)
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// handleServiceError maps a failed upstream call to a console response.
// A 401 means the authenticator has already ended the session.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var httpErr *client.HTTPError
	switch {
	case client.IsUnauthorized(err), apperrors.Is(err, apperrors.ErrSessionNotFound):
		s.toLogin(w, r, RouteLogin, "Tu sesión ha finalizado.")
	case apperrors.As(err, &httpErr):
		writeJSONError(w, httpErr.Message, httpErr.StatusCode)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Err(err).Str("op", op).Msg("[Server] upstream call failed")
		writeJSONError(w, "No se pudo completar la operación.", http.StatusBadGateway)
	}
}

// decodeBody reads a JSON body or a form into dst fields via fill.
func decodeBody(r *http.Request, dst any, fill func(url.Values)) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid JSON body")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid form data")
	}
	fill(r.PostForm)
	return nil
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid id %q", r.PathValue("id"))
	}
	return id, nil
}
