package guard

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// LoginRoute is where unauthenticated users are sent.
const LoginRoute = "/login"

// Navigator moves the user to the login screen.
type Navigator interface {
	ToLogin(reason string)
}

// LogNavigator only records the navigation, for headless use.
type LogNavigator struct{}

func (LogNavigator) ToLogin(reason string) {
	log.Info().Str("route", LoginRoute).Str("reason", reason).Msg("[Navigator] redirect to login")
}

// RecordingNavigator keeps every reason it was given.
type RecordingNavigator struct {
	lock    sync.Mutex
	reasons []string
}

func (r *RecordingNavigator) ToLogin(reason string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *RecordingNavigator) Reasons() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.reasons...)
}
