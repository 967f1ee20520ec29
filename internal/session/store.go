// Package session provides the process-wide in-memory session table.
// Sessions are keyed by an opaque identifier carried in a cookie and are
// lost on restart; persistent sessions are an explicit non-goal.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IdentityTokenKey is the session value under which the identity
// middleware and the login handler exchange the caller's token.
const IdentityTokenKey = "identity_token"

type Session struct {
	id string

	mu       sync.Mutex
	values   map[string]string
	lastSeen time.Time
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Session) Unset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store holds all live sessions. Idle sessions are swept in the
// background once they exceed the configured TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	stopSweep chan struct{}
	stopOnce  sync.Once
}

func NewStore(ttl time.Duration) *Store {
	store := &Store{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		stopSweep: make(chan struct{}),
	}
	go store.sweepLoop()
	return store
}

func (s *Store) Create() *Session {
	sess := &Session{
		id:       uuid.NewString(),
		values:   make(map[string]string),
		lastSeen: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
	return sess
}

// Lookup returns the live session for id, refreshing its idle timer.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, false
	}
	sess.touch(time.Now())
	return sess, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *Store) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// Stop shuts down the background sweeper.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopSweep) })
}
