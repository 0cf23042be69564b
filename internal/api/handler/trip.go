package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/directions"
	"github.com/sakaymap/sakaymap/internal/trip"
)

// TripHandler handles per-user trip planning sessions.
type TripHandler struct {
	sessions *trip.SessionManager
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(sessions *trip.SessionManager) *TripHandler {
	return &TripHandler{
		sessions: sessions,
	}
}

// FetchRoutes handles POST /v1/trip/routes - fetch route options for the
// caller's session and show the route list.
func (h *TripHandler) FetchRoutes(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req models.TripRoutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	session := h.sessions.Get(userID)
	state, err := session.Controller.FetchRoutes(r.Context(), req.Origin, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, trip.ErrMissingEndpoints):
			response.BadRequest(w, r, "origin and destination are required", nil)
		case errors.Is(err, trip.ErrSuperseded):
			response.Conflict(w, r, "a newer route request replaced this one")
		case errors.Is(err, directions.ErrNoRoutesFound):
			response.NotFound(w, r, "no transit routes found between these points")
		case errors.Is(err, directions.ErrInvalidCoordinates):
			response.BadRequest(w, r, "origin or destination coordinates are invalid", nil)
		default:
			response.ServiceUnavailable(w, r, "route computation is unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, state)
}

// SelectRoute handles POST /v1/trip/routes/{index}/select - pick a route
// from the list and show its details.
func (h *TripHandler) SelectRoute(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, r, "route index must be an integer", nil)
		return
	}

	session := h.sessions.Get(userID)
	state, err := session.Controller.SelectRoute(index)
	if err != nil {
		if errors.Is(err, trip.ErrIndexOutOfRange) {
			response.BadRequest(w, r, "route index is out of range", nil)
			return
		}
		response.InternalError(w, r, "could not select route")
		return
	}

	response.JSON(w, r, http.StatusOK, state)
}

// CloseTrip handles POST /v1/trip/close - dismiss the route list and
// return the session to idle.
func (h *TripHandler) CloseTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	session := h.sessions.Get(userID)
	state := session.Controller.Close()

	response.JSON(w, r, http.StatusOK, state)
}

// GetTrip handles GET /v1/trip - read the session's current selection state.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	session := h.sessions.Get(userID)
	response.JSON(w, r, http.StatusOK, session.Controller.State())
}

// DragModal handles POST /v1/trip/modal/drag - apply a drag delta to one
// of the session's sheets and report the clamped height.
func (h *TripHandler) DragModal(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req models.ModalDragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", errs)
		return
	}

	session := h.sessions.Get(userID)
	if req.ViewportHeight > 0 {
		session.SetViewport(req.ViewportHeight)
	}

	modal := session.Modal(req.Modal)
	if modal == nil {
		response.BadRequest(w, r, "unknown modal", nil)
		return
	}

	height := modal.ApplyDelta(req.Delta)
	minHeight, maxHeight := modal.Bounds()

	response.JSON(w, r, http.StatusOK, models.ModalDragResponse{
		Modal:     req.Modal,
		Height:    height,
		MinHeight: minHeight,
		MaxHeight: maxHeight,
	})
}
