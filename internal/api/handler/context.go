// Package handler implements the SakayMap HTTP API endpoints.
package handler

import (
	"context"

	"github.com/sakaymap/sakaymap/internal/api/middleware"
	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/auth"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// fieldErrors converts domain validation errors to API field errors.
func fieldErrors(errs []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, len(errs))
	for i, e := range errs {
		out[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		}
	}
	return out
}
