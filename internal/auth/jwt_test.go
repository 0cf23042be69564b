package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakaymap/sakaymap/internal/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.sakaymap.ph",
		Audience:   "sakaymap-api",
	})
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	user := &auth.User{
		ID:        "usr_test123",
		Username:  "juan",
		Email:     "juan@example.com",
		Role:      auth.RoleCommuter,
		Verified:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now().Add(23*time.Hour)), "tokens last a full day")

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, auth.RoleCommuter, claims.Role)
	assert.Equal(t, "https://api.sakaymap.ph", claims.Issuer)
}

func TestJWTService_RoleClaim(t *testing.T) {
	svc := newTestJWTService()

	admin := &auth.User{ID: "usr_admin", Role: auth.RoleAdmin}
	token, _, err := svc.GenerateAccessToken(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	signer := newTestJWTService()
	verifier := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "a-completely-different-key",
		Issuer:     "https://api.sakaymap.ph",
		Audience:   "sakaymap-api",
	})

	token, _, err := signer.GenerateAccessToken(&auth.User{ID: "usr_1"})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_WrongAudience(t *testing.T) {
	signer := newTestJWTService()
	verifier := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.sakaymap.ph",
		Audience:   "some-other-api",
	})

	token, _, err := signer.GenerateAccessToken(&auth.User{ID: "usr_1"})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}
