package client

import (
	"sync"
	"time"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/user"
)

// Session is the client-side record of a logged-in user. Token carries
// the bearer prefix; it is never stored double-prefixed.
type Session struct {
	Token     string    `json:"token"`
	User      user.User `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the session between requests. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the current session, or false when logged out.
	Get() (Session, bool)
	Set(Session)
	Delete()
}

// MemoryStore keeps the session in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
	set     bool
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.set
}

func (s *MemoryStore) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.set = true
}

func (s *MemoryStore) Delete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	s.set = false
}
