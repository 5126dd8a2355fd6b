package guard

import "github.com/jrsteele09/go-lab-console/sessions"

// SessionSource supplies the current session, nil when signed out.
type SessionSource interface {
	GetCurrent() *sessions.Session
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard gates protected destinations on the presence of a session token.
// It never mutates the session.
type Guard struct {
	sessions  SessionSource
	navigator Navigator
}

func New(sessions SessionSource, navigator Navigator) *Guard {
	if navigator == nil {
		navigator = LogNavigator{}
	}
	return &Guard{sessions: sessions, navigator: navigator}
}

// CanEnter allows the destination only when a session with a token is held.
func (g *Guard) CanEnter(destination string) Decision {
	if g.sessions.GetCurrent().Valid() {
		return Decision{Allowed: true}
	}
	g.navigator.ToLogin("guard denied " + destination)
	return Decision{Redirect: LoginRoute}
}

// CanEnterChild applies the same rule to nested destinations.
func (g *Guard) CanEnterChild(destination string) Decision {
	return g.CanEnter(destination)
}
