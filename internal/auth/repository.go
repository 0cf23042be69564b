package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryUserRepository is an in-memory implementation of UserRepository.
// This is intended for tests and local runs. Production uses the
// database-backed implementation.
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*User  // keyed by user ID
	byEmail map[string]string // lowercased email -> userID
}

// NewInMemoryUserRepository creates a new in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

// Create creates a new user. Fails with ErrEmailTaken when the email is
// already registered.
func (r *InMemoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrEmailTaken
	}

	userCopy := *user
	r.users[user.ID] = &userCopy
	r.byEmail[key] = user.ID
	return nil
}

// FindByEmail finds a user by email, case-insensitively.
func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}

	userCopy := *r.users[userID]
	return &userCopy, nil
}

// FindByID finds a user by their internal ID.
func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

// MarkVerified flags the account for an email as verified.
func (r *InMemoryUserRepository) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return ErrUserNotFound
	}

	r.users[userID].Verified = true
	r.users[userID].UpdatedAt = time.Now()
	return nil
}
