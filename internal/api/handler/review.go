package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/review"
)

// ReviewHandler handles app review endpoints.
type ReviewHandler struct {
	reviewService *review.Service
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *review.Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview handles POST /v1/reviews - submit feedback with a rating.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req review.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	created, err := h.reviewService.Create(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, r, "could not save review")
		return
	}

	response.Created(w, r, "", created)
}

// ListReviews handles GET /v1/reviews - list the caller's reviews,
// newest first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	reviews, err := h.reviewService.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "could not load reviews")
		return
	}

	response.JSON(w, r, http.StatusOK, reviews)
}
