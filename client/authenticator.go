package client

import (
	"net/http"

	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/rs/zerolog/log"
)

// SessionSource supplies the current session, nil when signed out.
type SessionSource interface {
	GetCurrent() *sessions.Session
}

// SessionEnder tears the local session down. It reports whether anything was torn down.
type SessionEnder interface {
	EndSession(reason string) bool
}

var _ http.RoundTripper = (*Authenticator)(nil)

// Authenticator attaches the bearer token to outgoing requests and ends the
// session when the API answers 401. Responses are always passed through.
type Authenticator struct {
	base     http.RoundTripper
	sessions SessionSource
	ender    SessionEnder
}

func NewAuthenticator(base http.RoundTripper, sessions SessionSource, ender SessionEnder) *Authenticator {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticator{base: base, sessions: sessions, ender: ender}
}

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	outgoing := req
	if s := a.sessions.GetCurrent(); s.Valid() {
		outgoing = req.Clone(req.Context())
		s.OAuth2Token().SetAuthHeader(outgoing)
	}

	resp, err := a.base.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && a.ender != nil {
		if a.ender.EndSession("unauthorized " + req.Method + " " + req.URL.Path) {
			log.Info().Str("path", req.URL.Path).Msg("[Authenticator] session ended by 401")
		}
	}
	return resp, nil
}
