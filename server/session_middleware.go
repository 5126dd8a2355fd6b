package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the session snapshot the request was admitted with
const ContextKeySession ContextKey = "session"

const loginPrompt = "Inicia sesión para continuar."

// RequireSession admits a request only when the route guard lets it through and the
// caller holds the console cookie issued at login.
// HTML requests are redirected to the login page, API requests get a 401 JSON body.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			decision := s.guard.CanEnter(r.URL.Path)
			if !decision.Allowed {
				s.toLogin(w, r, decision.Redirect, loginPrompt)
				return
			}
			session := s.store.GetCurrent()
			if !session.Valid() {
				// Ended between the guard check and now
				s.toLogin(w, r, RouteLogin, loginPrompt)
				return
			}
			if !s.ownsSession(r) {
				log.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("[RequireSession] request without the console cookie")
				s.toLogin(w, r, RouteLogin, loginPrompt)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole admits sessions carrying any of roles. It must run after RequireSession.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session := sessionFrom(r.Context())
			if !slices.ContainsFunc(roles, func(role users.RoleType) bool { return users.HasRole(session, role) }) {
				writeJSONError(w, "No tienes permisos para acceder a esta sección.", http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}

// sessionFrom returns the session stored by RequireSession.
func sessionFrom(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(ContextKeySession).(*sessions.Session)
	return session
}
