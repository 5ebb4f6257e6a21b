package models

import "encoding/json"

// TripTemplate represents a saved template in the library listing.
type TripTemplate struct {
	ID          string    `json:"id"`
	Scope       string    `json:"scope"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// TripTemplateDetail is a template including its extracted payload.
type TripTemplateDetail struct {
	TripTemplate
	Payload json.RawMessage `json:"payload"`
}

// TemplateList is the template library listing.
type TemplateList struct {
	Items []TripTemplate `json:"items"`
}

// TemplateFromItineraryRequest saves an itinerary as a reusable template.
type TemplateFromItineraryRequest struct {
	ItineraryID string `json:"itineraryId" validate:"required"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// TemplateFromPackageRequest saves a package activity as a reusable template.
type TemplateFromPackageRequest struct {
	PackageActivityID string `json:"packageActivityId" validate:"required"`
	Name              string `json:"name" validate:"required,max=120"`
	Description       string `json:"description,omitempty"`
	Scope             string `json:"scope,omitempty"`
}

// TemplateUpdateRequest edits a template's library metadata. The payload
// itself is immutable once saved.
type TemplateUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ApplyToTripRequest applies an itinerary template onto a trip. AnchorDate
// overrides the trip's start date as the anchor when set.
type ApplyToTripRequest struct {
	TemplateID string  `json:"templateId" validate:"required"`
	Name       string  `json:"name,omitempty"`
	AnchorDate *string `json:"anchorDate,omitempty"`
}

// ApplyToItineraryRequest applies a package template onto an itinerary,
// anchored at one of its days.
type ApplyToItineraryRequest struct {
	TemplateID  string `json:"templateId" validate:"required"`
	AnchorDayID string `json:"anchorDayId" validate:"required"`
}

// TemplateApplyResult reports what an apply produced.
type TemplateApplyResult struct {
	// ItineraryID is the new itinerary for trip applies, or the target
	// itinerary for package applies.
	ItineraryID string `json:"itineraryId"`

	// PackageActivityID is set for package applies.
	PackageActivityID *string `json:"packageActivityId,omitempty"`
}
