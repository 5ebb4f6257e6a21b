package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/internal/api/response"
	"github.com/tripfolio/tripfolio/internal/itinerary"
)

// ItineraryHandler handles itinerary endpoints.
type ItineraryHandler struct {
	itineraries *itinerary.Service
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(itineraries *itinerary.Service) *ItineraryHandler {
	return &ItineraryHandler{itineraries: itineraries}
}

// GetItinerary handles GET /v1/itineraries/{itineraryId} - full itinerary
// with days, activities, pricing, and typed details.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	agencyID := GetAgencyID(r.Context())

	itineraryID := chi.URLParam(r, "itineraryId")
	if itineraryID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	detail, err := h.itineraries.Get(r.Context(), agencyID, itineraryID)
	if err != nil {
		if errors.Is(err, itinerary.ErrItineraryNotFound) {
			response.NotFound(w, r, "itinerary not found")
			return
		}
		response.InternalError(w, r, "failed to get itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, detail)
}
