package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// OTP policy constants.
const (
	// OTPLength is the number of digits in a verification code.
	OTPLength = 6

	// OTPTTL is how long a verification code remains valid.
	OTPTTL = 1 * time.Hour
)

// ErrOTPNotFound is returned when no live code exists for an email.
var ErrOTPNotFound = errors.New("no verification code on record")

// GenerateOTP returns a random 6-digit verification code, zero-padded.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for range OTPLength {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// OTPStore holds pending verification codes keyed by email.
type OTPStore interface {
	// Set stores a code for an email, replacing any previous one. The
	// code expires after OTPTTL.
	Set(ctx context.Context, email, code string) error

	// Get returns the live code for an email, or ErrOTPNotFound.
	Get(ctx context.Context, email string) (string, error)

	// Delete removes the code for an email. Missing codes are not an error.
	Delete(ctx context.Context, email string) error
}

// InMemoryOTPStore is an in-memory OTPStore for tests and local runs.
type InMemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	now   func() time.Time
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// NewInMemoryOTPStore creates a new in-memory OTP store.
func NewInMemoryOTPStore() *InMemoryOTPStore {
	return &InMemoryOTPStore{
		codes: make(map[string]otpEntry),
		now:   time.Now,
	}
}

// Set stores a code for an email, replacing any previous one.
func (s *InMemoryOTPStore) Set(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = otpEntry{code: code, expiresAt: s.now().Add(OTPTTL)}
	return nil
}

// Get returns the live code for an email.
func (s *InMemoryOTPStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.codes, email)
		return "", ErrOTPNotFound
	}
	return entry.code, nil
}

// Delete removes the code for an email.
func (s *InMemoryOTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
