package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/auth"
	"github.com/sakaymap/sakaymap/internal/user"
)

// MeHandler handles the authenticated user's account endpoints.
type MeHandler struct {
	userService *user.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(userService *user.Service) *MeHandler {
	return &MeHandler{
		userService: userService,
	}
}

// GetMe handles GET /v1/me - get the current user's account.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.NotFound(w, r, "account not found")
			return
		}
		response.InternalError(w, r, "could not load account")
		return
	}

	response.JSON(w, r, http.StatusOK, u)
}

// UpdateProfile handles PUT /v1/me/profile - update username, email, or
// password. The current password is required for any change.
func (h *MeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrWrongPassword):
			response.Unauthorized(w, r, "current password is incorrect")
		case errors.Is(err, auth.ErrEmailTaken):
			response.Conflict(w, r, "an account with this email already exists")
		case errors.Is(err, auth.ErrUserNotFound):
			response.NotFound(w, r, "account not found")
		default:
			response.InternalError(w, r, "could not update profile")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}
