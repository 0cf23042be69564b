package review_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakaymap/sakaymap/internal/review"
)

func newTestReviewService() *review.Service {
	return review.NewService(review.ServiceConfig{
		Repo:   review.NewInMemoryRepository(),
		Logger: zerolog.Nop(),
	})
}

func TestService_CreateAndList(t *testing.T) {
	svc := newTestReviewService()

	created, err := svc.Create(context.Background(), "usr_1", &review.CreateRequest{
		Issue:      "Route list is slow to load",
		Suggestion: "Cache recent searches",
		Rating:     4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "usr_1", created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = svc.Create(context.Background(), "usr_1", &review.CreateRequest{Issue: "Fares look wrong", Rating: 2})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "usr_2", &review.CreateRequest{Issue: "Great app", Rating: 5})
	require.NoError(t, err)

	mine, err := svc.ListForUser(context.Background(), "usr_1")
	require.NoError(t, err)
	require.Len(t, mine, 2, "only the caller's reviews")
	assert.Equal(t, "Fares look wrong", mine[0].Issue, "newest first")
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestReviewService()

	tests := []struct {
		name string
		req  *review.CreateRequest
	}{
		{"missing issue", &review.CreateRequest{Rating: 3}},
		{"rating too low", &review.CreateRequest{Issue: "x", Rating: 0}},
		{"rating too high", &review.CreateRequest{Issue: "x", Rating: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "usr_1", tt.req)
			assert.Error(t, err)
		})
	}
}

func TestService_ListForUser_Empty(t *testing.T) {
	svc := newTestReviewService()

	reviews, err := svc.ListForUser(context.Background(), "usr_none")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
