package sessions

import (
	"strings"

	"golang.org/x/oauth2"
)

// Session is the authenticated user as seen by the console.
// A session is either absent (nil) or carries a non-empty Token.
type Session struct {
	Username    string   `json:"username"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        string   `json:"role"`
	Sexo        string   `json:"sexo,omitempty"`
	Token       string   `json:"token"`
	Sucursal    string   `json:"sucursal,omitempty"`
	UserID      int64    `json:"userId,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// TokenInfo is the server's view of the current token lifetime.
type TokenInfo struct {
	TimeRemaining int64 // milliseconds, never negative
	Expired       bool
}

// NewTokenInfo normalises a server reading: an expired token has no time remaining.
func NewTokenInfo(remainingMs int64, expired bool) TokenInfo {
	if expired || remainingMs < 0 {
		remainingMs = 0
	}
	return TokenInfo{TimeRemaining: remainingMs, Expired: expired}
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

func (s *Session) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Avatar returns the avatar image path and greeting for the session's sexo marker.
func (s *Session) Avatar() (path string, greeting string) {
	switch strings.ToUpper(s.Sexo) {
	case "M":
		return "/male-avatar.jpg", "Bienvenido"
	case "F":
		return "/female-avatar.png", "Bienvenida"
	default:
		return "/default-avatar.png", "Bienvenide"
	}
}

// OAuth2Token exposes the bearer token in x/oauth2 form so it can set request headers.
func (s *Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
}

// Clone returns a deep copy; nil stays nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = append([]string(nil), s.Roles...)
	c.Permissions = append([]string(nil), s.Permissions...)
	return &c
}
