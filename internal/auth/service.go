package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Predefined service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("verification code is invalid or expired")
	ErrNotVerified        = errors.New("account is not verified")
	ErrAlreadyVerified    = errors.New("account is already verified")
)

// bcryptCost matches the account system this replaces.
const bcryptCost = 10

// UserRepository defines the interface for account data operations.
type UserRepository interface {
	// Create creates a new user. Returns ErrEmailTaken on duplicates.
	Create(ctx context.Context, user *User) error

	// FindByEmail finds a user by email, case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// MarkVerified flags the account for an email as verified.
	MarkVerified(ctx context.Context, email string) error
}

// OTPMailEnqueuer queues a verification code email for delivery.
type OTPMailEnqueuer interface {
	EnqueueOTPEmail(ctx context.Context, email, username, code string) error
}

// Service provides account operations.
type Service struct {
	jwtService *JWTService
	userRepo   UserRepository
	otpStore   OTPStore
	mailer     OTPMailEnqueuer
	logger     zerolog.Logger
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService *JWTService
	UserRepo   UserRepository
	OTPStore   OTPStore
	Mailer     OTPMailEnqueuer
	Logger     zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwtService: cfg.JWTService,
		userRepo:   cfg.UserRepo,
		otpStore:   cfg.OTPStore,
		mailer:     cfg.Mailer,
		logger:     cfg.Logger,
	}
}

// Register creates an unverified account and queues a verification email.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           generateUserID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         RoleCommuter,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		// The account exists; the user can request a resend.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue verification code")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("account registered")
	return user, nil
}

// VerifyOTP marks an account verified when the submitted code matches the
// live one, then consumes the code.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation error: %s", errs[0].Message)
	}

	code, err := s.otpStore.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("reading verification code: %w", err)
	}

	if code != req.OTP {
		return ErrInvalidOTP
	}

	if err := s.userRepo.MarkVerified(ctx, req.Email); err != nil {
		return err
	}

	if err := s.otpStore.Delete(ctx, req.Email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear used verification code")
	}

	s.logger.Info().Msg("account verified")
	return nil
}

// ResendOTP issues a fresh verification code for an unverified account.
func (s *Service) ResendOTP(ctx context.Context, req *ResendOTPRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation error: %s", errs[0].Message)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	return s.issueOTP(ctx, user)
}

// Login authenticates an email+password pair and returns a bearer token.
// Unverified accounts cannot log in.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        user,
	}, nil
}

// ValidateAccessToken validates a bearer token and returns the user ID and role.
func (s *Service) ValidateAccessToken(tokenString string) (string, int, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return "", 0, err
	}
	return claims.UserID, claims.Role, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// issueOTP stores a fresh code and queues the verification email.
func (s *Service) issueOTP(ctx context.Context, user *User) error {
	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	if err := s.otpStore.Set(ctx, user.Email, code); err != nil {
		return fmt.Errorf("storing verification code: %w", err)
	}

	if s.mailer == nil {
		return fmt.Errorf("no mail enqueuer configured")
	}

	if err := s.mailer.EnqueueOTPEmail(ctx, user.Email, user.Username, code); err != nil {
		return fmt.Errorf("queueing verification email: %w", err)
	}

	return nil
}

// generateUserID generates a unique user ID with prefix.
func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}
