package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azihell/properties-dashboard/models"
)

// Session is the state of one dashboard: an immutable dataset and the price
// window currently selected on it.
type Session struct {
	ID        string
	CreatedAt time.Time
	Dataset   *models.Dataset

	mu     sync.RWMutex
	window models.Window
}

// Window returns the currently selected window.
func (s *Session) Window() models.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// SetWindow stores w and returns the properties visible through it.
func (s *Session) SetWindow(w models.Window) []*models.ColoredProperty {
	s.mu.Lock()
	s.window = w
	s.mu.Unlock()
	return Filter(s.Dataset.Properties, w)
}

// Visible returns the properties within the current window.
func (s *Session) Visible() []*models.ColoredProperty {
	return Filter(s.Dataset.Properties, s.Window())
}

// SessionStore is a thread-safe registry of sessions. When full, the oldest
// session is evicted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
	max      int
}

// NewSessionStore creates a store holding at most max sessions (0 = unbounded).
func NewSessionStore(max int) *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session), max: max}
}

// Create registers a new session over ds with the full-range window.
func (s *SessionStore) Create(ds *models.Dataset) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Dataset:   ds,
		window:    ds.Bounds,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	for s.max > 0 && len(s.order) > s.max {
		delete(s.sessions, s.order[0])
		s.order = s.order[1:]
	}
	return sess
}

// Get returns the session with the given id.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Size returns the number of live sessions.
func (s *SessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
