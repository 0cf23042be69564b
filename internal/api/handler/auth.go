package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /v1/auth/register - create an account and send
// a verification code.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			response.Conflict(w, r, "an account with this email already exists")
			return
		}
		response.InternalError(w, r, "registration failed")
		return
	}

	response.Created(w, r, "", user)
}

// VerifyOTP handles POST /v1/auth/verify-otp - confirm the emailed code.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	if err := h.authService.VerifyOTP(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOTP):
			response.BadRequest(w, r, "the verification code is invalid or has expired", nil)
		case errors.Is(err, auth.ErrUserNotFound):
			response.NotFound(w, r, "no account found for this email")
		default:
			response.InternalError(w, r, "verification failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.MessageResponse{Message: "email verified"})
}

// ResendOTP handles POST /v1/auth/resend-otp - issue a fresh code.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	if err := h.authService.ResendOTP(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			response.NotFound(w, r, "no account found for this email")
		case errors.Is(err, auth.ErrAlreadyVerified):
			response.Conflict(w, r, "this account is already verified")
		default:
			response.InternalError(w, r, "could not resend the verification code")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.MessageResponse{Message: "verification code sent"})
}

// Login handles POST /v1/auth/login - exchange credentials for an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			response.Unauthorized(w, r, "invalid email or password")
		case errors.Is(err, auth.ErrNotVerified):
			response.Forbidden(w, r, "verify your email before logging in")
		default:
			response.InternalError(w, r, "login failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}
