package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/places"
)

// PlacesHandler handles place search and resolution endpoints.
type PlacesHandler struct {
	placesService *places.Service
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(placesService *places.Service) *PlacesHandler {
	return &PlacesHandler{
		placesService: placesService,
	}
}

// Autocomplete handles GET /v1/places/autocomplete?input=... An empty or
// whitespace input returns an empty list without hitting the provider.
func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("input")

	predictions, err := h.placesService.Autocomplete(r.Context(), input)
	if err != nil {
		if errors.Is(err, places.ErrNoResults) {
			response.JSON(w, r, http.StatusOK, models.AutocompleteResponse{Predictions: []places.Prediction{}})
			return
		}
		response.ServiceUnavailable(w, r, "place search is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.AutocompleteResponse{Predictions: predictions})
}

// Resolve handles GET /v1/places/{placeId} - resolve a prediction to
// coordinates and an address.
func (h *PlacesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeId")
	if placeID == "" {
		response.BadRequest(w, r, "placeId is required", nil)
		return
	}

	location, err := h.placesService.Resolve(r.Context(), placeID)
	if err != nil {
		if places.IsNotFound(err) {
			response.NotFound(w, r, "place not found")
			return
		}
		response.ServiceUnavailable(w, r, "place resolution is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, location)
}

// ReverseGeocode handles GET /v1/places/reverse?lat=..&lng=.. - name a
// pinned map coordinate.
func (h *PlacesHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		response.BadRequest(w, r, "lat and lng are required query parameters", nil)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		response.BadRequest(w, r, "lat and lng are out of range", nil)
		return
	}

	location, err := h.placesService.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		if places.IsNotFound(err) {
			response.NotFound(w, r, "no address found at this coordinate")
			return
		}
		response.ServiceUnavailable(w, r, "reverse geocoding is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, location)
}
