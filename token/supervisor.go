package token

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/rs/zerolog/log"
)

// SessionObserver is the part of the session store the supervisor watches.
type SessionObserver interface {
	Observe() *sessions.Subscription
}

// ClockFactory builds a fresh clock for a newly established session.
type ClockFactory func() *Clock

// Supervisor keeps exactly one running clock per held session token.
type Supervisor struct {
	store    SessionObserver
	newClock ClockFactory

	lock    sync.Mutex
	current *Clock
	token   string
	sub     *sessions.Subscription
	done    chan struct{}
}

func NewSupervisor(store SessionObserver, newClock ClockFactory) *Supervisor {
	return &Supervisor{store: store, newClock: newClock}
}

// Start follows the session store until Close or ctx cancellation.
func (s *Supervisor) Start(ctx context.Context) {
	s.lock.Lock()
	if s.sub != nil {
		s.lock.Unlock()
		return
	}
	s.sub = s.store.Observe()
	s.done = make(chan struct{})
	sub, done := s.sub, s.done
	s.lock.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				s.stopCurrent()
				return
			case session, ok := <-sub.C():
				if !ok {
					return
				}
				s.follow(ctx, session)
			}
		}
	}()
}

func (s *Supervisor) follow(ctx context.Context, session *sessions.Session) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if session.Valid() && session.Token == s.token && s.current != nil {
		return
	}
	if s.current != nil {
		s.current.Stop()
		s.current = nil
		s.token = ""
	}
	if !session.Valid() {
		return
	}

	clock := s.newClock()
	clock.Seed(session.Token)
	clock.Start(ctx)
	s.current = clock
	s.token = session.Token
	log.Debug().Str("clock", clock.ID()).Str("username", session.Username).Msg("[Supervisor] clock started for session")
}

func (s *Supervisor) stopCurrent() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.current != nil {
		s.current.Stop()
		s.current = nil
		s.token = ""
	}
}

// Current returns the running clock, nil when no session is held.
func (s *Supervisor) Current() *Clock {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.current
}

// Close stops following the store and stops the current clock.
func (s *Supervisor) Close() {
	s.lock.Lock()
	sub, done := s.sub, s.done
	s.lock.Unlock()

	if sub != nil {
		sub.Close()
		<-done
	}
	s.stopCurrent()
}
