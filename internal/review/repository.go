package review

import (
	"context"
	"sync"
)

// Repository defines the interface for review persistence.
type Repository interface {
	// Create stores a new review.
	Create(ctx context.Context, r *Review) error

	// ListByUser returns a user's reviews, newest first.
	ListByUser(ctx context.Context, userID string) ([]Review, error)
}

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local runs.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create stores a new review.
func (r *InMemoryRepository) Create(_ context.Context, rev *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, *rev)
	return nil
}

// ListByUser returns a user's reviews, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].UserID == userID {
			out = append(out, r.reviews[i])
		}
	}
	return out, nil
}
