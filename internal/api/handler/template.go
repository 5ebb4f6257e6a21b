package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/api/response"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/template"
	"github.com/tripfolio/tripfolio/internal/trip"
)

// TemplateHandler handles the template library and apply endpoints.
type TemplateHandler struct {
	templates *template.Service
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templates *template.Service) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// SaveFromItinerary handles POST /v1/templates/from-itinerary - extract an
// itinerary into a reusable template.
func (h *TemplateHandler) SaveFromItinerary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req models.TemplateFromItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tpl, err := h.templates.SaveItineraryTemplate(r.Context(), actor, &req)
	if err != nil {
		h.writeSaveError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/templates/%s", tpl.ID)
	response.Created(w, r, location, tpl)
}

// SaveFromPackage handles POST /v1/templates/from-package - extract a package
// activity into a reusable template.
func (h *TemplateHandler) SaveFromPackage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req models.TemplateFromPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tpl, err := h.templates.SavePackageTemplate(r.Context(), actor, &req)
	if err != nil {
		h.writeSaveError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/templates/%s", tpl.ID)
	response.Created(w, r, location, tpl)
}

// ListTemplates handles GET /v1/templates - template library listing.
// The optional kind query parameter filters to itinerary or package templates.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	list, err := h.templates.List(r.Context(), actor, r.URL.Query().Get("kind"))
	if err != nil {
		var vErr *template.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, r, "validation error", vErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to list templates")
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// GetTemplate handles GET /v1/templates/{templateId} - template with payload.
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	templateID := chi.URLParam(r, "templateId")
	if templateID == "" {
		response.BadRequest(w, r, "templateId is required", nil)
		return
	}

	detail, err := h.templates.Get(r.Context(), actor, templateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			response.NotFound(w, r, "template not found")
			return
		}
		response.InternalError(w, r, "failed to get template")
		return
	}

	response.JSON(w, r, http.StatusOK, detail)
}

// UpdateTemplate handles PATCH /v1/templates/{templateId} - edit library metadata.
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	templateID := chi.URLParam(r, "templateId")
	if templateID == "" {
		response.BadRequest(w, r, "templateId is required", nil)
		return
	}

	var req models.TemplateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tpl, err := h.templates.Update(r.Context(), actor, templateID, &req)
	if err != nil {
		var vErr *template.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation error", vErr.Errors)
		case errors.Is(err, template.ErrTemplateNotFound):
			response.NotFound(w, r, "template not found")
		case errors.Is(err, template.ErrForbidden):
			response.Forbidden(w, r, "not allowed to modify this template")
		default:
			response.InternalError(w, r, "failed to update template")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, tpl)
}

// DeleteTemplate handles DELETE /v1/templates/{templateId}.
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	templateID := chi.URLParam(r, "templateId")
	if templateID == "" {
		response.BadRequest(w, r, "templateId is required", nil)
		return
	}

	if err := h.templates.Delete(r.Context(), actor, templateID); err != nil {
		switch {
		case errors.Is(err, template.ErrTemplateNotFound):
			response.NotFound(w, r, "template not found")
		case errors.Is(err, template.ErrForbidden):
			response.Forbidden(w, r, "not allowed to delete this template")
		default:
			response.InternalError(w, r, "failed to delete template")
		}
		return
	}

	response.NoContent(w, r)
}

// ApplyToTrip handles POST /v1/trips/{tripId}/apply-template - replay an
// itinerary template onto a trip as a new draft itinerary.
func (h *TemplateHandler) ApplyToTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var req models.ApplyToTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.templates.ApplyToTrip(r.Context(), actor, tripID, &req)
	if err != nil {
		h.writeApplyError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/itineraries/%s", result.ItineraryID)
	response.Created(w, r, location, result)
}

// ApplyToItinerary handles POST /v1/itineraries/{itineraryId}/apply-template -
// replay a package template onto an itinerary, anchored at one of its days.
func (h *TemplateHandler) ApplyToItinerary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	itineraryID := chi.URLParam(r, "itineraryId")
	if itineraryID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	var req models.ApplyToItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.templates.ApplyToItinerary(r.Context(), actor, itineraryID, &req)
	if err != nil {
		h.writeApplyError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// writeSaveError maps save-as-template failures onto Problem responses.
func (h *TemplateHandler) writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *template.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, r, "validation error", vErr.Errors)
	case errors.Is(err, template.ErrForbidden):
		response.Forbidden(w, r, "agency-wide templates require an admin role")
	case errors.Is(err, itinerary.ErrItineraryNotFound):
		response.NotFound(w, r, "itinerary not found")
	case errors.Is(err, activity.ErrActivityNotFound):
		response.NotFound(w, r, "package activity not found")
	case errors.Is(err, activity.ErrNotAPackage):
		response.BadRequest(w, r, "activity is not a package", nil)
	case errors.Is(err, template.ErrItineraryEmpty):
		response.NotFound(w, r, "itinerary has no days to extract")
	default:
		response.InternalError(w, r, "failed to save template")
	}
}

// writeApplyError maps template apply failures onto Problem responses.
func (h *TemplateHandler) writeApplyError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *template.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, r, "validation error", vErr.Errors)
	case errors.Is(err, template.ErrTemplateNotFound):
		response.NotFound(w, r, "template not found")
	case errors.Is(err, template.ErrKindMismatch):
		response.BadRequest(w, r, "template kind does not match the apply target", nil)
	case errors.Is(err, template.ErrPayloadIncomplete):
		response.BadRequest(w, r, "template payload is incomplete", nil)
	case errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, r, "trip not found")
	case errors.Is(err, itinerary.ErrItineraryNotFound):
		response.NotFound(w, r, "itinerary not found")
	case errors.Is(err, itinerary.ErrDayNotFound):
		response.NotFound(w, r, "anchor day not found")
	default:
		response.InternalError(w, r, "failed to apply template")
	}
}
