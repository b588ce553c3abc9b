// Package session holds the bearer token and current user for a client
// process. It is written once at login, read before every authenticated
// request, and cleared on logout.
package session

import (
	"errors"
	"sync"
)

// ErrNoSession is returned when a token is requested before login.
var ErrNoSession = errors.New("no active session")

// User is the authenticated admin as returned by the login endpoint.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is a process-wide session holder. The zero value is empty and
// ready to use.
type Store struct {
	mu    sync.RWMutex
	token string
	user  User
	set   bool
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// SetSession records the token and user after a successful login.
func (s *Store) SetSession(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.set = true
}

// Token returns the bearer token, or ErrNoSession when nobody is logged
// in. Callers must check this before issuing a request and fail fast
// instead of sending an unauthenticated call.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", ErrNoSession
	}
	return s.token, nil
}

// User returns the logged-in user and whether a session exists.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.set
}

// Clear wipes all session data. Invoked on explicit logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
	s.set = false
}
