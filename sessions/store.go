package sessions

import (
	"encoding/json"
	"sync"

	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/rs/zerolog/log"
)

// Store is the single owner of the current session and its persisted form.
type Store struct {
	lock        sync.Mutex
	repo        storage.Repo
	current     *Session
	subscribers map[*Subscription]struct{}
}

// NewStore rehydrates any persisted session. Unreadable data is discarded.
func NewStore(repo storage.Repo) *Store {
	s := &Store{
		repo:        repo,
		subscribers: make(map[*Subscription]struct{}),
	}
	s.current = s.load()
	return s
}

func (s *Store) load() *Session {
	raw, err := s.repo.Get(storage.KeyCurrentUser)
	if err != nil {
		if !apperrors.Is(err, storage.ErrNotFound) {
			log.Err(err).Msg("[Store] unable to read persisted session")
		}
		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.discard(apperrors.Wrapf(apperrors.ErrMalformedSession, "decode: %v", err))
		return nil
	}
	if session.Token == "" {
		if token, err := s.repo.Get(storage.KeyToken); err == nil {
			session.Token = token
		}
	}
	if !session.Valid() {
		s.discard(apperrors.Wrapf(apperrors.ErrMalformedSession, "missing token"))
		return nil
	}
	return &session
}

func (s *Store) discard(reason error) {
	log.Warn().Err(reason).Msg("[Store] discarding persisted session")
	if err := s.repo.Remove(storage.KeyCurrentUser, storage.KeyToken); err != nil {
		log.Err(err).Msg("[Store] unable to remove persisted session")
	}
}

// GetCurrent returns a copy of the current session, nil when absent.
func (s *Store) GetCurrent() *Session {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.current.Clone()
}

// Observe replays the current value then every later change.
func (s *Store) Observe() *Subscription {
	sub := newSubscription(s)

	s.lock.Lock()
	sub.enqueue(s.current.Clone())
	s.subscribers[sub] = struct{}{}
	s.lock.Unlock()

	go sub.pump()
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.subscribers, sub)
}

// SetCurrent replaces the session. Observers see the new value even when
// persisting it fails; the persistence error is returned.
func (s *Store) SetCurrent(session Session) error {
	if !session.Valid() {
		return apperrors.Wrapf(apperrors.ErrMalformedSession, "[Store SetCurrent] empty token")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.current = session.Clone()
	s.notify()
	return s.persist()
}

// Clear removes the session. It returns false when there was nothing to clear.
func (s *Store) Clear() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.current == nil {
		return false
	}
	s.current = nil
	s.notify()
	if err := s.repo.Remove(storage.KeyCurrentUser, storage.KeyToken); err != nil {
		log.Err(err).Msg("[Store Clear] unable to remove persisted session")
	}
	return true
}

// SetSucursal attaches the selected branch to the current session.
func (s *Store) SetSucursal(sucursal string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.current == nil {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "[Store SetSucursal]")
	}
	updated := s.current.Clone()
	updated.Sucursal = sucursal
	s.current = updated
	s.notify()

	if err := s.persist(); err != nil {
		return err
	}
	if err := s.repo.Set(storage.KeySucursal, sucursal); err != nil {
		return apperrors.Wrapf(err, "[Store SetSucursal] persist sucursal")
	}
	return nil
}

// notify must be called with the lock held so deliveries follow mutation order.
func (s *Store) notify() {
	for sub := range s.subscribers {
		sub.enqueue(s.current.Clone())
	}
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return apperrors.Wrapf(err, "[Store] encode session")
	}
	if err := s.repo.Set(storage.KeyCurrentUser, string(data)); err != nil {
		return apperrors.Wrapf(err, "[Store] persist session")
	}
	if err := s.repo.Set(storage.KeyToken, s.current.Token); err != nil {
		return apperrors.Wrapf(err, "[Store] persist token")
	}
	return nil
}
