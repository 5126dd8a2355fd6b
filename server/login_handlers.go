package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-lab-console/auth"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/internal/utils"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName          string
	Error            string
	Username         string // Preserve username on error
	LockoutCountdown string // m:ss while logins are blocked
	LockoutSeconds   int
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if s.ownsSession(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		data := LoginPageData{
			AppName:  s.config.GetAppName(),
			Error:    r.URL.Query().Get("error"),
			Username: r.URL.Query().Get("username"),
		}
		if lockout := s.gateway.Lockout(); lockout != nil {
			now := s.nowTime()
			data.LockoutCountdown = lockout.Countdown(now)
			data.LockoutSeconds = int(lockout.Remaining(now).Seconds())
			if data.Error == "" {
				data.Error = lockout.Message
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// loginFailureBody mirrors the API's rejected-login body for JSON callers.
type loginFailureBody struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
	Blocked           bool   `json:"blocked"`
	UnblockTime       string `json:"unblockTime,omitempty"`
	Countdown         string `json:"countdown,omitempty"`
}

// LoginSubmissionHandler processes the login form submission (POST /auth/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := decodeBody(r, &req, func(form url.Values) {
			req.Username = form.Get("username")
			req.Password = form.Get("password")
		}); err != nil {
			s.loginFailed(w, r, req.Username, http.StatusBadRequest, loginFailureBody{Message: err.Error()})
			return
		}

		session, err := s.gateway.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			s.handleLoginError(w, r, req.Username, err)
			return
		}
		s.notices.Dismiss()
		setConsoleCookie(w, r, s.consoleKey.issue(session.Token))

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, s.sessionView(session, false))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleLoginError(w http.ResponseWriter, r *http.Request, username string, err error) {
	var loginErr *auth.LoginError
	switch {
	case apperrors.As(err, &loginErr):
		body := loginFailureBody{
			Message:           loginErr.Message,
			RemainingAttempts: loginErr.RemainingAttempts,
			Blocked:           loginErr.Blocked,
		}
		if lockout := s.gateway.Lockout(); lockout != nil {
			body.UnblockTime = lockout.Until.Format("2006-01-02T15:04:05")
			body.Countdown = lockout.Countdown(s.nowTime())
		}
		status := loginErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusUnauthorized
		}
		s.loginFailed(w, r, username, status, body)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		s.loginFailed(w, r, username, http.StatusBadRequest, loginFailureBody{Message: "Por favor complete todos los campos"})
	default:
		log.Err(err).Str("username", username).Msg("[LoginSubmissionHandler] login failed")
		s.loginFailed(w, r, username, http.StatusBadGateway, loginFailureBody{Message: auth.DefaultLoginErrorMessage})
	}
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, username string, status int, body loginFailureBody) {
	if wantsJSON(r) {
		writeJSON(w, status, body)
		return
	}
	message := body.Message
	if body.RemainingAttempts != nil && !body.Blocked {
		message += " Intentos restantes: " + strconv.Itoa(utils.Value(body.RemainingAttempts))
	}
	fullPath := RouteLogin + "?error=" + url.QueryEscape(message)
	if username != "" {
		fullPath += "&username=" + url.QueryEscape(username)
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// LogoutHandler ends the session (POST /auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.gateway.Logout(r.Context()); err != nil {
			log.Err(err).Msg("[LogoutHandler] logout")
		}
		s.notices.Dismiss()
		s.consoleKey.revoke()
		clearConsoleCookie(w, r)
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, statusBody{Success: true, Message: "Sesión cerrada", Redirect: RouteLogin})
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
