package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/api/response"
	"github.com/tripfolio/tripfolio/internal/trip"
)

const defaultTripPageLimit = 50

// TripHandler handles trip endpoints.
type TripHandler struct {
	trips *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Service) *TripHandler {
	return &TripHandler{trips: trips}
}

// ListTrips handles GET /v1/trips - list the agency's trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	agencyID := GetAgencyID(r.Context())

	limit := defaultTripPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = parsed
	}

	trips, err := h.trips.List(r.Context(), agencyID, limit)
	if err != nil {
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, trips)
}

// CreateTrip handles POST /v1/trips - create a trip.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	agencyID := GetAgencyID(r.Context())

	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.trips.Create(r.Context(), agencyID, &input)
	if err != nil {
		var vErr *trip.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, r, "validation error", vErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create trip")
		return
	}

	location := fmt.Sprintf("/v1/trips/%s", created.ID)
	response.Created(w, r, location, created)
}

// GetTrip handles GET /v1/trips/{tripId} - get a trip.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	agencyID := GetAgencyID(r.Context())

	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	t, err := h.trips.Get(r.Context(), agencyID, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to get trip")
		return
	}

	response.JSON(w, r, http.StatusOK, t)
}

// DeleteTrip handles DELETE /v1/trips/{tripId} - delete a trip.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	agencyID := GetAgencyID(r.Context())

	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	if err := h.trips.Delete(r.Context(), agencyID, tripID); err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}
