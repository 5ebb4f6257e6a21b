package itinerary

import (
	"context"
	"time"
)

// CreateDayInput holds the fields for creating a day directly.
type CreateDayInput struct {
	ItineraryID   string
	DayNumber     int
	Date          *time.Time
	SequenceOrder int
	Title         string
}

// Repository defines the interface for itinerary and day persistence.
type Repository interface {
	// CreateItinerary creates a new itinerary.
	CreateItinerary(ctx context.Context, itn *Itinerary) error

	// GetItinerary retrieves an itinerary by ID.
	GetItinerary(ctx context.Context, id string) (*Itinerary, error)

	// ListDays retrieves all days of an itinerary ordered by sequence.
	ListDays(ctx context.Context, itineraryID string) ([]*Day, error)

	// GetDay retrieves a day by ID.
	GetDay(ctx context.Context, dayID string) (*Day, error)

	// FindOrCreateByDate returns the itinerary's day with the given calendar
	// date, creating it if absent. Idempotent: two calls with the same date
	// return the same day.
	FindOrCreateByDate(ctx context.Context, itineraryID string, date time.Time) (*Day, error)

	// FindOrCreateByDateRange bulk-resolves days for the given dates,
	// creating missing ones. The result is ordered like the input.
	FindOrCreateByDateRange(ctx context.Context, itineraryID string, dates []time.Time) ([]*Day, error)

	// CreateDay creates a day directly, without date-based lookup. Used for
	// TBD itineraries where days carry no calendar date.
	CreateDay(ctx context.Context, in CreateDayInput) (*Day, error)
}
