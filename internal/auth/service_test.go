package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakaymap/sakaymap/internal/auth"
)

type sentMail struct {
	email    string
	username string
	code     string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) EnqueueOTPEmail(_ context.Context, email, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, username: username, code: code})
	return nil
}

func (m *mockMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func (m *mockMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestAuthService() (*auth.Service, *mockMailer) {
	mailer := &mockMailer{}
	svc := auth.NewService(auth.ServiceConfig{
		JWTService: newTestJWTService(),
		UserRepo:   auth.NewInMemoryUserRepository(),
		OTPStore:   auth.NewInMemoryOTPStore(),
		Mailer:     mailer,
		Logger:     zerolog.Nop(),
	})
	return svc, mailer
}

func validRegistration() *auth.RegisterRequest {
	return &auth.RegisterRequest{
		Username: "juan",
		Email:    "juan@example.com",
		Password: "correct-horse",
	}
}

func TestService_Register(t *testing.T) {
	svc, mailer := newTestAuthService()

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "juan", user.Username)
	assert.Equal(t, auth.RoleCommuter, user.Role)
	assert.False(t, user.Verified)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must be hashed")

	require.Equal(t, 1, mailer.count())
	mail := mailer.last()
	assert.Equal(t, "juan@example.com", mail.email)
	assert.Len(t, mail.code, auth.OTPLength)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Username = "maria"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_Register_Validation(t *testing.T) {
	svc, mailer := newTestAuthService()

	tests := []struct {
		name string
		req  *auth.RegisterRequest
	}{
		{"missing username", &auth.RegisterRequest{Email: "a@b.c", Password: "longenough"}},
		{"missing email", &auth.RegisterRequest{Username: "juan", Password: "longenough"}},
		{"bad email", &auth.RegisterRequest{Username: "juan", Email: "not-an-email", Password: "longenough"}},
		{"short password", &auth.RegisterRequest{Username: "juan", Email: "a@b.c", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
	assert.Equal(t, 0, mailer.count())
}

func TestService_VerifyOTPAndLogin(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// Unverified accounts cannot log in.
	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, auth.ErrNotVerified)

	err = svc.VerifyOTP(context.Background(), &auth.VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   mailer.last().code,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.User.Verified)

	userID, role, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, auth.RoleCommuter, role)
}

func TestService_VerifyOTP_WrongCode(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	wrong := "000000"
	if mailer.last().code == wrong {
		wrong = "000001"
	}

	err = svc.VerifyOTP(context.Background(), &auth.VerifyOTPRequest{Email: "juan@example.com", OTP: wrong})
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)
}

func TestService_VerifyOTP_CodeConsumedOnUse(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	code := mailer.last().code

	req := &auth.VerifyOTPRequest{Email: "juan@example.com", OTP: code}
	require.NoError(t, svc.VerifyOTP(context.Background(), req))

	err = svc.VerifyOTP(context.Background(), req)
	assert.ErrorIs(t, err, auth.ErrInvalidOTP, "a code cannot be replayed")
}

func TestService_ResendOTP(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	firstCode := mailer.last().code

	err = svc.ResendOTP(context.Background(), &auth.ResendOTPRequest{Email: "juan@example.com"})
	require.NoError(t, err)
	require.Equal(t, 2, mailer.count())

	// The fresh code wins; verification with it succeeds.
	err = svc.VerifyOTP(context.Background(), &auth.VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   mailer.last().code,
	})
	require.NoError(t, err)
	_ = firstCode
}

func TestService_ResendOTP_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	err := svc.ResendOTP(context.Background(), &auth.ResendOTPRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestService_ResendOTP_AlreadyVerified(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOTP(context.Background(), &auth.VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   mailer.last().code,
	}))

	err = svc.ResendOTP(context.Background(), &auth.ResendOTPRequest{Email: "juan@example.com"})
	assert.ErrorIs(t, err, auth.ErrAlreadyVerified)
}

func TestService_Login_BadCredentials(t *testing.T) {
	svc, mailer := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOTP(context.Background(), &auth.VerifyOTPRequest{
		Email: "juan@example.com",
		OTP:   mailer.last().code,
	}))

	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "juan@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown email is indistinguishable from a bad password")
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		code, err := auth.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, auth.OTPLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes must not be constant")
}
