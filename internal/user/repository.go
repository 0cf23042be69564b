package user

import (
	"context"
	"strings"
	"sync"

	"github.com/sakaymap/sakaymap/internal/auth"
)

// Repository defines the interface for account profile operations.
type Repository interface {
	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id string) (*auth.User, error)

	// UpdateProfile persists username, email, and password hash changes.
	// Returns auth.ErrEmailTaken when the email belongs to another account.
	UpdateProfile(ctx context.Context, u *auth.User) error

	// List returns all accounts, oldest first.
	List(ctx context.Context) ([]Summary, error)

	// UpdateRole changes the role for the account with the given email.
	UpdateRole(ctx context.Context, email string, role int) error
}

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*auth.User
	order []string
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*auth.User)}
}

// Add seeds an account.
func (r *InMemoryRepository) Add(u *auth.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userCopy := *u
	r.users[u.ID] = &userCopy
	r.order = append(r.order, u.ID)
}

// FindByID finds a user by their internal ID.
func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// UpdateProfile persists username, email, and password hash changes.
func (r *InMemoryRepository) UpdateProfile(_ context.Context, u *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return auth.ErrUserNotFound
	}

	for id, other := range r.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return auth.ErrEmailTaken
		}
	}

	stored.Username = u.Username
	stored.Email = strings.ToLower(u.Email)
	stored.PasswordHash = u.PasswordHash
	stored.UpdatedAt = u.UpdatedAt
	return nil
}

// List returns all accounts, oldest first.
func (r *InMemoryRepository) List(_ context.Context) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		u := r.users[id]
		summaries = append(summaries, Summary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		})
	}
	return summaries, nil
}

// UpdateRole changes the role for the account with the given email.
func (r *InMemoryRepository) UpdateRole(_ context.Context, email string, role int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u.Role = role
			return nil
		}
	}
	return auth.ErrUserNotFound
}
