package models

import "encoding/json"

// Itinerary represents an itinerary header on a trip.
type Itinerary struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// ItineraryDay is one day of an itinerary. Date is absent for itineraries
// built without a start date; such days are ordered by dayNumber alone.
type ItineraryDay struct {
	ID            string     `json:"id"`
	DayNumber     int        `json:"dayNumber"`
	Date          *string    `json:"date,omitempty"`
	SequenceOrder int        `json:"sequenceOrder"`
	Title         string     `json:"title,omitempty"`
	Activities    []Activity `json:"activities"`
}

// ItineraryDetail is an itinerary with its full day and activity tree.
type ItineraryDetail struct {
	Itinerary
	Days []ItineraryDay `json:"days"`
}

// Activity represents one scheduled component on a day. StartTime and
// EndTime are offset-less local datetimes; Timezone is a display label.
type Activity struct {
	ID                 string           `json:"id"`
	ComponentType      string           `json:"componentType"`
	ActivityType       string           `json:"activityType"`
	Name               string           `json:"name"`
	StartTime          *string          `json:"startTime,omitempty"`
	EndTime            *string          `json:"endTime,omitempty"`
	Timezone           string           `json:"timezone,omitempty"`
	Location           string           `json:"location,omitempty"`
	Address            string           `json:"address,omitempty"`
	Coordinates        *Point           `json:"coordinates,omitempty"`
	ConfirmationNumber string           `json:"confirmationNumber,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	SequenceOrder      int              `json:"sequenceOrder"`
	ParentActivityID   *string          `json:"parentActivityId,omitempty"`
	Pricing            *ActivityPricing `json:"pricing,omitempty"`
	Details            json.RawMessage  `json:"details,omitempty"`
}

// ActivityPricing carries monetary fields for an activity. All amounts are
// integer cents; the commission split is a fixed-point decimal string.
type ActivityPricing struct {
	TotalPriceCents           int64  `json:"totalPriceCents"`
	Currency                  string `json:"currency"`
	TaxesCents                int64  `json:"taxesCents,omitempty"`
	CommissionAmountCents     int64  `json:"commissionAmountCents,omitempty"`
	CommissionSplitPercentage string `json:"commissionSplitPercentage,omitempty"`
	PricingType               string `json:"pricingType,omitempty"`
}
