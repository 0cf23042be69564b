package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service provides review operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// ServiceConfig holds configuration for the review service.
type ServiceConfig struct {
	Repo   Repository
	Logger zerolog.Logger
}

// NewService creates a new review service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repo,
		logger: cfg.Logger,
	}
}

// Create stores a review submitted by a user.
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*Review, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	rev := &Review{
		ID:         "rev_" + uuid.New().String()[:22],
		UserID:     userID,
		Issue:      req.Issue,
		Suggestion: req.Suggestion,
		Rating:     req.Rating,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Int("rating", req.Rating).Msg("review submitted")
	return rev, nil
}

// ListForUser returns a user's reviews, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Review, error) {
	return s.repo.ListByUser(ctx, userID)
}
