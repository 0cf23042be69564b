package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakaymap/sakaymap/internal/auth"
)

// ErrWrongPassword is returned when the supplied current password does not
// match the stored one.
var ErrWrongPassword = errors.New("current password is incorrect")

const bcryptCost = 10

// Service provides profile and admin account operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// ServiceConfig holds configuration for the user service.
type ServiceConfig struct {
	Repo   Repository
	Logger zerolog.Logger
}

// NewService creates a new user service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repo,
		logger: cfg.Logger,
	}
}

// Get retrieves a user's account data.
func (s *Service) Get(ctx context.Context, userID string) (*auth.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile replaces the user's username and email, and optionally
// the password. The current password must match.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*auth.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	u.Username = req.Username
	u.Email = req.Email
	u.UpdatedAt = time.Now()

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return u, nil
}

// ListUsers returns all accounts for the admin view.
func (s *Service) ListUsers(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// UpdateRole changes the role of the account with the given email.
func (s *Service) UpdateRole(ctx context.Context, req *UpdateRoleRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation error: %s", errs[0].Message)
	}

	if err := s.repo.UpdateRole(ctx, req.Email, req.Role); err != nil {
		return err
	}

	s.logger.Info().Int("role", req.Role).Msg("account role updated")
	return nil
}
