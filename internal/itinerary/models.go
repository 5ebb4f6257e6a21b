// Package itinerary provides itinerary and day management services.
package itinerary

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrDayNotFound       = errors.New("itinerary day not found")
)

// Status represents the lifecycle state of an itinerary.
type Status string

// Itinerary statuses.
const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusArchived  Status = "archived"
)

// Itinerary represents a trip itinerary: an ordered set of days.
type Itinerary struct {
	ID        string
	TripID    string
	AgencyID  string
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day represents one day of an itinerary. Date is nil for "TBD"
// itineraries that have no concrete calendar dates; those are ordered purely
// by DayNumber.
type Day struct {
	ID            string
	ItineraryID   string
	DayNumber     int
	Date          *time.Time
	SequenceOrder int
	Title         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
