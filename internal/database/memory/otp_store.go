package memory

import (
	"context"
	"sync"
	"time"

	"hostel-system/internal/faults"
)

type otpEntry struct {
	code    string
	expires time.Time
}

// OTPStore is the in-memory counterpart of the redis OTP store, with
// the same TTL semantics.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
}

func NewOTPStore() *OTPStore {
	return &OTPStore{entries: make(map[string]otpEntry)}
}

func (s *OTPStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = otpEntry{code: code, expires: time.Now().Add(ttl)}
	return nil
}

func (s *OTPStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok || time.Now().After(entry.expires) {
		delete(s.entries, email)
		return "", faults.NotFound("otp", email)
	}
	return entry.code, nil
}

func (s *OTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
