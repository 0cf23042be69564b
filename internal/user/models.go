// Package user provides profile management and admin account operations.
package user

import (
	"strings"

	"github.com/sakaymap/sakaymap/internal/auth"
)

// Summary is the admin-facing view of an account.
type Summary struct {
	ID       string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     int    `json:"role"`
}

// UpdateProfileRequest is the request body for profile updates. Password
// is optional; the other fields replace the stored values. CurrentPassword
// must always match.
type UpdateProfileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	CurrentPassword string `json:"currentPassword"`
}

// Validate validates the profile update request.
func (r *UpdateProfileRequest) Validate() []auth.FieldError {
	var errs []auth.FieldError

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, auth.FieldError{Field: "username", Message: "username is required", Code: "REQUIRED"})
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, auth.FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	}
	if r.CurrentPassword == "" {
		errs = append(errs, auth.FieldError{Field: "currentPassword", Message: "current password is required", Code: "REQUIRED"})
	}
	if r.Password != "" && len(r.Password) < 8 {
		errs = append(errs, auth.FieldError{Field: "password", Message: "password must be at least 8 characters", Code: "TOO_SHORT"})
	}

	return errs
}

// UpdateRoleRequest is the admin request to change an account's role.
type UpdateRoleRequest struct {
	Email string `json:"email"`
	Role  int    `json:"role"`
}

// Validate validates the role update request.
func (r *UpdateRoleRequest) Validate() []auth.FieldError {
	var errs []auth.FieldError

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, auth.FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	}
	if r.Role != auth.RoleAdmin && r.Role != auth.RoleCommuter {
		errs = append(errs, auth.FieldError{Field: "role", Message: "role must be 0 (admin) or 1 (commuter)", Code: "INVALID"})
	}

	return errs
}
