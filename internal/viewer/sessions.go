package viewer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/liftsim/internal/replay"
)

// session is one REST client's replay position.
type session struct {
	mu       sync.Mutex
	player   *replay.Player
	lastUsed time.Time
}

// sessionStore holds REST sessions and drops the ones idle longer than
// ttl. Expiry is checked lazily on every access.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{ttl: ttl, now: now, sessions: make(map[string]*session)}
}

func (s *sessionStore) create(p *replay.Player) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	id := uuid.NewString()
	s.sessions[id] = &session{player: p, lastUsed: s.now()}
	return id
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *sessionStore) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
