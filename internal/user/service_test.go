package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakaymap/sakaymap/internal/auth"
	"github.com/sakaymap/sakaymap/internal/user"
)

func seedUser(t *testing.T, repo *user.InMemoryRepository, id, username, email, password string, role int) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)

	u := &auth.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Verified:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	repo.Add(u)
	return u
}

func newTestUserService(t *testing.T) (*user.Service, *user.InMemoryRepository) {
	t.Helper()
	repo := user.NewInMemoryRepository()
	svc := user.NewService(user.ServiceConfig{Repo: repo, Logger: zerolog.Nop()})
	return svc, repo
}

func TestService_Get(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	u, err := svc.Get(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "juan", u.Username)

	_, err = svc.Get(context.Background(), "usr_missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	updated, err := svc.UpdateProfile(context.Background(), "usr_1", &user.UpdateProfileRequest{
		Username:        "juandelacruz",
		Email:           "jdc@example.com",
		CurrentPassword: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "juandelacruz", updated.Username)
	assert.Equal(t, "jdc@example.com", updated.Email)

	stored, err := repo.FindByID(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "juandelacruz", stored.Username)
}

func TestService_UpdateProfile_ChangesPassword(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	_, err := svc.UpdateProfile(context.Background(), "usr_1", &user.UpdateProfileRequest{
		Username:        "juan",
		Email:           "juan@example.com",
		Password:        "brand-new-password",
		CurrentPassword: "secret-pass",
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-password")))
}

func TestService_UpdateProfile_WrongCurrentPassword(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	_, err := svc.UpdateProfile(context.Background(), "usr_1", &user.UpdateProfileRequest{
		Username:        "evil",
		Email:           "evil@example.com",
		CurrentPassword: "not-the-password",
	})
	assert.ErrorIs(t, err, user.ErrWrongPassword)

	stored, err := repo.FindByID(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "juan", stored.Username, "profile unchanged on auth failure")
}

func TestService_UpdateProfile_EmailTaken(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)
	seedUser(t, repo, "usr_2", "maria", "maria@example.com", "other-pass", auth.RoleCommuter)

	_, err := svc.UpdateProfile(context.Background(), "usr_1", &user.UpdateProfileRequest{
		Username:        "juan",
		Email:           "maria@example.com",
		CurrentPassword: "secret-pass",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_ListUsers(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "admin", "admin@example.com", "admin-pass", auth.RoleAdmin)
	seedUser(t, repo, "usr_2", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "usr_1", list[0].ID, "oldest first")
	assert.Equal(t, auth.RoleAdmin, list[0].Role)
}

func TestService_UpdateRole(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	err := svc.UpdateRole(context.Background(), &user.UpdateRoleRequest{Email: "juan@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, stored.Role)
}

func TestService_UpdateRole_Invalid(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "usr_1", "juan", "juan@example.com", "secret-pass", auth.RoleCommuter)

	err := svc.UpdateRole(context.Background(), &user.UpdateRoleRequest{Email: "juan@example.com", Role: 7})
	assert.Error(t, err)

	err = svc.UpdateRole(context.Background(), &user.UpdateRoleRequest{Email: "nobody@example.com", Role: auth.RoleAdmin})
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
