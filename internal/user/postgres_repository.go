package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakaymap/sakaymap/internal/auth"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByID finds a user by their internal ID.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u auth.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Verified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile persists username, email, and password hash changes.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, u *auth.User) error {
	query := `
		UPDATE users
		SET username = $1, email = lower($2), password_hash = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.pool.Exec(ctx, query, u.Username, u.Email, u.PasswordHash, u.UpdatedAt, u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// List returns all accounts, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT id, username, email, role
		FROM users
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.Role); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateRole changes the role for the account with the given email.
func (r *PostgresRepository) UpdateRole(ctx context.Context, email string, role int) error {
	query := `
		UPDATE users
		SET role = $1, updated_at = now()
		WHERE email = lower($2)
	`

	tag, err := r.pool.Exec(ctx, query, role, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
