package remote

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/loxy/internal/backend"
	"github.com/funvibe/loxy/internal/evaluator"
	"github.com/funvibe/loxy/internal/sink"
)

// Session owns one global environment. Runs within a session are serialised
// by mu.
type Session struct {
	ID string

	mu       sync.Mutex
	backend  *backend.TreeWalkBackend
	out      *sink.Capture
	lastUsed time.Time
}

// SessionStore tracks live sessions and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	maxDepth int
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, maxDepth int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		maxDepth: maxDepth,
		now:      time.Now,
	}
}

// Create starts a session with a fresh global environment.
func (s *SessionStore) Create() *Session {
	out := sink.NewCapture()
	eval := evaluator.New()
	eval.Out = out
	if s.maxDepth > 0 {
		eval.MaxDepth = s.maxDepth
	}

	sess := &Session{
		ID:       uuid.NewString(),
		backend:  backend.NewTreeWalk(eval),
		out:      out,
		lastUsed: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it used.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

// Close forgets the session. It reports whether the session existed.
func (s *SessionStore) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Sweep drops sessions idle for longer than the TTL and returns their IDs.
// A zero TTL keeps sessions forever.
func (s *SessionStore) Sweep() []string {
	if s.ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	var expired []string
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	sort.Strings(expired)
	return expired
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
