// Package template provides the itinerary/package template engine: extraction
// of live itineraries into portable, date-relative payloads and application
// of those payloads onto new trips and itineraries.
package template

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tripfolio/tripfolio/internal/activity"
)

// Engine errors.
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrForbidden         = errors.New("not allowed to modify this template")
	ErrPayloadIncomplete = errors.New("template payload incomplete")
	ErrItineraryEmpty    = errors.New("itinerary has no days")
)

// PricingType is how a package's total price is understood.
type PricingType string

// Package pricing types.
const (
	PricingFlatRate  PricingType = "flat_rate"
	PricingPerPerson PricingType = "per_person"
)

// GeoPoint is an optional coordinate pair carried by a template activity.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TemplatePricing carries an activity's monetary fields. All amounts are
// integer cents; the commission split is numeric, converted from the stored
// decimal-string representation at extraction time.
type TemplatePricing struct {
	TotalPriceCents        int64   `json:"totalPriceCents"`
	Currency               string  `json:"currency,omitempty"`
	TaxesCents             int64   `json:"taxesCents,omitempty"`
	CommissionAmountCents  int64   `json:"commissionAmountCents,omitempty"`
	CommissionSplitPercent float64 `json:"commissionSplitPercent,omitempty"`
}

// TemplateActivity is one activity in a payload, fully self-contained: no
// identifiers, no absolute dates. Start and end times are wall-clock HH:MM
// values; the timezone label is carried alongside as an opaque string and is
// never used to shift the clock value.
type TemplateActivity struct {
	ComponentType      activity.ComponentType `json:"componentType"`
	ActivityType       string                 `json:"activityType"`
	Name               string                 `json:"name"`
	SequenceOrder      int                    `json:"sequenceOrder"`
	StartTime          string                 `json:"startTime,omitempty"`
	EndTime            string                 `json:"endTime,omitempty"`
	Timezone           string                 `json:"timezone,omitempty"`
	Location           string                 `json:"location,omitempty"`
	Address            string                 `json:"address,omitempty"`
	Coordinates        *GeoPoint              `json:"coordinates,omitempty"`
	Notes              string                 `json:"notes,omitempty"`
	ConfirmationNumber string                 `json:"confirmationNumber,omitempty"`
	Pricing            *TemplatePricing       `json:"pricing,omitempty"`
	Details            activity.Details       `json:"details,omitempty"`
}

// templateActivityJSON mirrors TemplateActivity with raw details, so the
// detail variant can be decoded against the component type tag.
type templateActivityJSON struct {
	ComponentType      activity.ComponentType `json:"componentType"`
	ActivityType       string                 `json:"activityType"`
	Name               string                 `json:"name"`
	SequenceOrder      int                    `json:"sequenceOrder"`
	StartTime          string                 `json:"startTime,omitempty"`
	EndTime            string                 `json:"endTime,omitempty"`
	Timezone           string                 `json:"timezone,omitempty"`
	Location           string                 `json:"location,omitempty"`
	Address            string                 `json:"address,omitempty"`
	Coordinates        *GeoPoint              `json:"coordinates,omitempty"`
	Notes              string                 `json:"notes,omitempty"`
	ConfirmationNumber string                 `json:"confirmationNumber,omitempty"`
	Pricing            *TemplatePricing       `json:"pricing,omitempty"`
	Details            json.RawMessage        `json:"details,omitempty"`
}

// UnmarshalJSON decodes a template activity, resolving the details variant
// from the componentType tag. Details on non-orchestrated component types
// are rejected rather than silently dropped.
func (a *TemplateActivity) UnmarshalJSON(data []byte) error {
	var raw templateActivityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = TemplateActivity{
		ComponentType:      raw.ComponentType,
		ActivityType:       raw.ActivityType,
		Name:               raw.Name,
		SequenceOrder:      raw.SequenceOrder,
		StartTime:          raw.StartTime,
		EndTime:            raw.EndTime,
		Timezone:           raw.Timezone,
		Location:           raw.Location,
		Address:            raw.Address,
		Coordinates:        raw.Coordinates,
		Notes:              raw.Notes,
		ConfirmationNumber: raw.ConfirmationNumber,
		Pricing:            raw.Pricing,
	}

	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}

	details, err := activity.DecodeDetails(raw.ComponentType, raw.Details)
	if err != nil {
		return fmt.Errorf("activity %q: %w", raw.Name, err)
	}
	a.Details = details
	return nil
}

// DayOffset is one template day: an integer offset from the anchor, with the
// day's activities in sequence order. Offsets may be negative; zero is the
// anchor itself.
type DayOffset struct {
	DayIndex   int                `json:"dayIndex"`
	Activities []TemplateActivity `json:"activities"`
}

// PackageMetadata carries a package's own name and pricing, populated from
// the parent package activity during extraction.
type PackageMetadata struct {
	Name            string      `json:"name"`
	PricingType     PricingType `json:"pricingType"`
	TotalPriceCents *int64      `json:"totalPriceCents,omitempty"`
	Currency        string      `json:"currency,omitempty"`
}

// ItineraryPayload is the portable, anchor-relative representation of a full
// itinerary.
type ItineraryPayload struct {
	DayOffsets []DayOffset `json:"dayOffsets"`
}

// Validate checks that the payload carries the sections application needs.
func (p *ItineraryPayload) Validate() error {
	if len(p.DayOffsets) == 0 {
		return fmt.Errorf("%w: missing dayOffsets", ErrPayloadIncomplete)
	}
	return nil
}

// PackagePayload is the portable representation of a package activity and
// its children.
type PackagePayload struct {
	PackageMetadata *PackageMetadata `json:"packageMetadata"`
	DayOffsets      []DayOffset      `json:"dayOffsets"`
}

// Validate checks that the payload carries the sections application needs.
func (p *PackagePayload) Validate() error {
	if p.PackageMetadata == nil {
		return fmt.Errorf("%w: missing packageMetadata", ErrPayloadIncomplete)
	}
	if len(p.DayOffsets) == 0 {
		return fmt.Errorf("%w: missing dayOffsets", ErrPayloadIncomplete)
	}
	return nil
}

// Span returns the lowest and highest day index in the offsets. Valid only
// for non-empty payloads.
func Span(offsets []DayOffset) (lo, hi int) {
	lo, hi = offsets[0].DayIndex, offsets[0].DayIndex
	for _, o := range offsets[1:] {
		if o.DayIndex < lo {
			lo = o.DayIndex
		}
		if o.DayIndex > hi {
			hi = o.DayIndex
		}
	}
	return lo, hi
}
