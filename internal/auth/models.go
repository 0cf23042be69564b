// Package auth provides email+password accounts with OTP verification
// and JWT session tokens.
package auth

import (
	"strings"
	"time"
)

// Account roles. The numeric values are part of the API contract.
const (
	RoleAdmin    = 0
	RoleCommuter = 1
)

// User represents an account in the system.
type User struct {
	ID           string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         int       `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the registration request.
func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required", Code: "REQUIRED"})
	}
	errs = append(errs, validateEmail(r.Email)...)
	if len(r.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters", Code: "TOO_SHORT"})
	}

	return errs
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(r.Email)...)
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required", Code: "REQUIRED"})
	}

	return errs
}

// VerifyOTPRequest is the request body for OTP verification.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Validate validates the OTP verification request.
func (r *VerifyOTPRequest) Validate() []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(r.Email)...)
	if len(r.OTP) != OTPLength {
		errs = append(errs, FieldError{Field: "otp", Message: "otp must be 6 digits", Code: "INVALID"})
	}

	return errs
}

// ResendOTPRequest is the request body for requesting a fresh OTP.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// Validate validates the resend request.
func (r *ResendOTPRequest) Validate() []FieldError {
	return validateEmail(r.Email)
}

// TokenResponse is the response after a successful login.
type TokenResponse struct {
	// AccessToken is the JWT bearer token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// User contains the authenticated user's information.
	User *User `json:"user"`
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required", Code: "REQUIRED"}}
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return []FieldError{{Field: "email", Message: "email is not valid", Code: "INVALID"}}
	}
	return nil
}
