package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session is one catalog browsing session owned by a gardener.
type Session struct {
	ID         string
	OwnerID    string
	Controller *Controller
	CreatedAt  time.Time
}

// Registry keeps the open catalog sessions. Sessions idle for longer than the
// TTL are dropped, and the least recently used ones are evicted once the
// registry is full.
type Registry struct {
	// mu makes lookup-and-renew atomic with Close
	mu            sync.Mutex
	sessions      *expirable.LRU[string, *Session]
	newController func() *Controller
}

func NewRegistry(size int, ttl time.Duration, newController func() *Controller) *Registry {
	return &Registry{
		sessions:      expirable.NewLRU[string, *Session](size, nil, ttl),
		newController: newController,
	}
}

// Open registers a new session with a fresh, uninitialized controller.
func (r *Registry) Open(ownerID string) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Controller: r.newController(),
		CreatedAt:  time.Now(),
	}
	r.sessions.Add(s.ID, s)
	return s
}

// Get returns the session if it exists and belongs to ownerID. A successful
// lookup renews the session's TTL.
func (r *Registry) Get(ownerID, sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(ownerID, sessionID)
}

func (r *Registry) get(ownerID, sessionID string) (*Session, error) {
	s, ok := r.sessions.Get(sessionID)
	if !ok || s.OwnerID != ownerID {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrSessionNotFound)
	}
	r.sessions.Add(sessionID, s)
	return s, nil
}

func (r *Registry) Close(ownerID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.get(ownerID, sessionID); err != nil {
		return err
	}
	r.sessions.Remove(sessionID)
	return nil
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}
