// Package session stores the admin session (bearer token plus user object)
// the way the browser storefront kept it in localStorage, behind an explicit
// store interface so auth-dependent calls can be tested without globals.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the admin user object returned by the login endpoint.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Store holds at most one admin session. Save and Clear are written only by
// the login/logout operations; Token is read by every authenticated request.
type Store interface {
	// Token returns the stored bearer token, or "" when logged out.
	Token() string
	// User returns the stored user object; ok is false when logged out.
	User() (u User, ok bool)
	// Save replaces the session.
	Save(token string, u User) error
	// Clear removes the session.
	Clear() error
}

// Authenticated reports whether the store holds a usable session. A token
// that parses as a JWT with an elapsed exp claim counts as logged out;
// opaque tokens are taken at face value, matching the original storefront's
// presence-only check.
func Authenticated(s Store, now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true // opaque token
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  User
	valid bool
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryStore) User() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.valid
}

func (m *MemoryStore) Save(token string, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = u
	m.valid = true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = User{}
	m.valid = false
	return nil
}
