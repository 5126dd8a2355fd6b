package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-lab-console/auth"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/token"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/rs/zerolog/log"
)

// SessionView is the browser-facing view of a session. The bearer token never leaves the console.
type SessionView struct {
	Username    string        `json:"username"`
	DisplayName string        `json:"displayName"`
	Role        string        `json:"role"`
	RoleLabel   string        `json:"roleLabel"`
	Roles       []string      `json:"roles"`
	Permissions []string      `json:"permissions"`
	UserID      int64         `json:"userId"`
	Email       string        `json:"email,omitempty"`
	Sucursal    string        `json:"sucursal,omitempty"`
	Avatar      string        `json:"avatar"`
	Greeting    string        `json:"greeting"`
	Clock       *token.Status `json:"clock,omitempty"`
	Notice      *Notice       `json:"notice,omitempty"`
}

func (s *Server) sessionView(session *sessions.Session, withClock bool) SessionView {
	avatar, greeting := session.Avatar()
	view := SessionView{
		Username:    session.Username,
		DisplayName: session.DisplayName(),
		Role:        session.Role,
		RoleLabel:   string(users.NormalizeRole(session.Role)),
		Roles:       session.Roles,
		Permissions: session.Permissions,
		UserID:      session.UserID,
		Email:       session.Email,
		Sucursal:    session.Sucursal,
		Avatar:      avatar,
		Greeting:    greeting,
	}
	if withClock {
		if s.supervisor != nil {
			if clock := s.supervisor.Current(); clock != nil {
				status := clock.Status()
				view.Clock = &status
			}
		}
		view.Notice = s.notices.Latest()
	}
	return view
}

// SessionHandler returns the held session with its countdown (GET /api/session)
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.sessionView(sessionFrom(r.Context()), true))
	}
}

// SucursalHandler records the branch chosen after login (POST /auth/sucursal)
func (s *Server) SucursalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SucursalRequest
		if err := decodeBody(r, &req, func(form url.Values) {
			req.Sucursal = form.Get("sucursal")
		}); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.gateway.UpdateSucursal(r.Context(), req.Sucursal); err != nil {
			s.handleServiceError(w, r, "UpdateSucursal", err)
			return
		}
		writeJSON(w, http.StatusOK, s.sessionView(s.store.GetCurrent(), false))
	}
}

// IndexPageData contains data for rendering the home page
type IndexPageData struct {
	AppName string
	Session SessionView
}

// IndexHandler renders the home page (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := IndexPageData{
			AppName: s.config.GetAppName(),
			Session: s.sessionView(sessionFrom(r.Context()), true),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render index template")
		}
	}
}
