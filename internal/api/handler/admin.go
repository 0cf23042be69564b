package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/auth"
	"github.com/sakaymap/sakaymap/internal/user"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	userService *user.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *user.Service) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

// ListUsers handles GET /v1/admin/users - list all accounts, oldest first.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		response.InternalError(w, r, "could not load users")
		return
	}

	response.JSON(w, r, http.StatusOK, users)
}

// UpdateRole handles PUT /v1/admin/users/role - change an account's role
// by email.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	if err := h.userService.UpdateRole(r.Context(), &req); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.NotFound(w, r, "no account found for this email")
			return
		}
		response.InternalError(w, r, "could not update role")
		return
	}

	response.JSON(w, r, http.StatusOK, models.MessageResponse{Message: "role updated"})
}
