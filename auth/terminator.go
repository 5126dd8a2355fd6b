package auth

import (
	"github.com/jrsteele09/go-lab-console/guard"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/rs/zerolog/log"
)

// Terminator is the single path that tears a session down locally.
type Terminator struct {
	store     *sessions.Store
	repo      storage.Repo
	navigator guard.Navigator
}

func NewTerminator(store *sessions.Store, repo storage.Repo, navigator guard.Navigator) *Terminator {
	if navigator == nil {
		navigator = guard.LogNavigator{}
	}
	return &Terminator{store: store, repo: repo, navigator: navigator}
}

// EndSession clears the session, removes the auxiliary keys and navigates to
// login. Only the caller that actually cleared a session navigates, so the
// result is true at most once per session.
func (t *Terminator) EndSession(reason string) bool {
	if !t.store.Clear() {
		return false
	}
	t.cleanup()
	log.Info().Str("reason", reason).Msg("[Terminator] session ended")
	t.navigator.ToLogin(reason)
	return true
}

func (t *Terminator) cleanup() {
	if err := t.repo.Remove(storage.AuxiliaryKeys()...); err != nil {
		log.Err(err).Msg("[Terminator] unable to remove auxiliary keys")
	}
}
