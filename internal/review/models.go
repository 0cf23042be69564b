// Package review collects commuter feedback about the app and routes.
package review

import (
	"strings"
	"time"

	"github.com/sakaymap/sakaymap/internal/auth"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is one piece of submitted feedback.
type Review struct {
	ID         string    `json:"reviewId"`
	UserID     string    `json:"userId"`
	Issue      string    `json:"issue"`
	Suggestion string    `json:"suggestion,omitempty"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateRequest is the request body for submitting a review.
type CreateRequest struct {
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion,omitempty"`
	Rating     int    `json:"rating"`
}

// Validate validates the review submission.
func (r *CreateRequest) Validate() []auth.FieldError {
	var errs []auth.FieldError

	if strings.TrimSpace(r.Issue) == "" {
		errs = append(errs, auth.FieldError{Field: "issue", Message: "issue is required", Code: "REQUIRED"})
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		errs = append(errs, auth.FieldError{Field: "rating", Message: "rating must be between 1 and 5", Code: "OUT_OF_RANGE"})
	}

	return errs
}
