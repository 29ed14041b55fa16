// Package otp holds the ephemeral password-reset challenge state: one live
// 6-digit code per email, process-local, with a 5-minute default lifetime.
// A process restart invalidates every outstanding challenge on purpose.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL is the lifetime of a newly issued challenge.
const DefaultTTL = 5 * time.Minute

const codeDigits = 6

// Challenge is a single outstanding reset code.
type Challenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry at instant now.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Store keeps at most one live challenge per email. Issuing a new challenge
// overwrites any prior one for that email (supersede, don't stack). Expiry
// is checked lazily by callers via Challenge.Expired; there is no background
// sweeper.
type Store struct {
	mu  sync.Mutex
	m   map[string]Challenge
	now func() time.Time
}

// NewStore returns an empty store using the real clock.
func NewStore() *Store {
	return &Store{m: make(map[string]Challenge), now: time.Now}
}

// NewStoreWithClock returns a store using the given clock. Test constructor.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{m: make(map[string]Challenge), now: now}
}

// Issue generates a fresh 6-digit code for email with the given ttl and
// stores it, replacing any prior challenge for that email. The code is
// returned so the caller can dispatch it out of band; it is never logged
// here.
func (s *Store) Issue(email string, ttl time.Duration) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[email] = Challenge{Code: code, ExpiresAt: s.now().Add(ttl)}

	return code, nil
}

// Get returns the live challenge for email, if any.
func (s *Store) Get(email string) (Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[email]
	return c, ok
}

// Delete removes the challenge for email, if any.
func (s *Store) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, email)
}

// Now returns the store's current time. Services use it so that lazy expiry
// checks and the stored expiries share one clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// GenerateCode returns a random numeric code of six digits, leading zeros
// included.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
