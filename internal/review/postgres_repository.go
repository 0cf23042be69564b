package review

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new review.
func (r *PostgresRepository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (id, user_id, issue, suggestion, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rev.ID,
		rev.UserID,
		rev.Issue,
		rev.Suggestion,
		rev.Rating,
		rev.CreatedAt,
	)
	return err
}

// ListByUser returns a user's reviews, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	query := `
		SELECT id, user_id, issue, suggestion, rating, created_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.Issue, &rev.Suggestion, &rev.Rating, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
