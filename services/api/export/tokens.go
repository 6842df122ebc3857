// Package export implements the emailed CSV download workflow: requests are
// parked behind an expiring token and the link is mailed to the requester.
package export

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrTokenNotFound = errors.New("export not found")
	ErrTokenExpired  = errors.New("export link has expired")
)

// Request is a pending export for one state and optional district.
type Request struct {
	StateCode string    `json:"stateCode"`
	StateName string    `json:"stateName"`
	District  string    `json:"district,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenStore keeps pending exports in memory until they expire.
type TokenStore struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	pending map[string]Request
}

// NewTokenStore creates a store whose tokens live for ttl. A nil clock uses real time.
func NewTokenStore(ttl time.Duration, clock clockwork.Clock) *TokenStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenStore{
		ttl:     ttl,
		clock:   clock,
		pending: make(map[string]Request),
	}
}

// Issue stores req under a fresh token and returns the token with the stamped request.
func (s *TokenStore) Issue(req Request) (string, Request) {
	now := s.clock.Now()
	req.CreatedAt = now
	req.ExpiresAt = now.Add(s.ttl)

	token := newToken()

	s.mu.Lock()
	s.pending[token] = req
	s.mu.Unlock()

	return token, req
}

// Lookup returns the request behind token. Expired entries are reported with
// ErrTokenExpired until the next Sweep removes them.
func (s *TokenStore) Lookup(token string) (Request, error) {
	s.mu.Lock()
	req, ok := s.pending[token]
	s.mu.Unlock()

	if !ok {
		return Request{}, ErrTokenNotFound
	}
	if s.clock.Now().After(req.ExpiresAt) {
		return req, ErrTokenExpired
	}
	return req, nil
}

// Sweep drops expired tokens and returns how many remain.
func (s *TokenStore) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, req := range s.pending {
		if now.After(req.ExpiresAt) {
			delete(s.pending, token)
		}
	}
	return len(s.pending)
}

// Revoke drops token immediately, e.g. when its link could not be delivered.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.pending, token)
	s.mu.Unlock()
}

// Len returns the number of held tokens, expired or not.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// newToken returns 32 hex characters of randomness.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
