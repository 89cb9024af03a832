// Package session holds the process-wide bits the browser app kept in
// localStorage: the auth token and the theme flag. Components receive a
// *Store instead of reading globals, with an explicit init/read/clear
// lifecycle.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Store struct {
	mu    sync.Mutex
	token string
	theme string
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{theme: "light", now: time.Now}
}

// Init seeds the store after a sign-in.
func (s *Store) Init(token, theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if theme != "" {
		s.theme = theme
	}
}

// Token returns the bearer token, or "" when none is set or the token has
// expired. Expiry comes from the JWT exp claim, read without signature
// verification; the backend still verifies for real.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return ""
	}
	if expired(s.token, s.now()) {
		s.token = ""
		return ""
	}
	return s.token
}

func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// Clear drops the token; the sign-out path.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func expired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque tokens carry no expiry we can read; let the backend decide.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
