package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/directions"
)

// RouteHandler handles route computation endpoints.
type RouteHandler struct {
	directionsService *directions.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(directionsService *directions.Service) *RouteHandler {
	return &RouteHandler{
		directionsService: directionsService,
	}
}

// ComputeRoutes handles POST /v1/routes:compute - fetch normalized transit
// routes between two coordinates.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var req models.ComputeRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	result, err := h.directionsService.GetRoutes(r.Context(), directions.Request{
		Origin:       directions.LatLng{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination:  directions.LatLng{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		Alternatives: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, directions.ErrNoRoutesFound):
			response.NotFound(w, r, "no transit routes found between these points")
		case errors.Is(err, directions.ErrInvalidCoordinates):
			response.BadRequest(w, r, "origin or destination coordinates are invalid", nil)
		case errors.Is(err, directions.ErrRateLimitExceeded):
			response.TooManyRequests(w, r, "route computation quota exceeded, try again shortly")
		default:
			response.ServiceUnavailable(w, r, "route computation is unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result.Routes)
}
