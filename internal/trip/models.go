// Package trip provides trip management services.
package trip

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Status represents the lifecycle state of a trip.
type Status string

// Trip statuses.
const (
	StatusPlanning  Status = "planning"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Trip represents a client trip managed by an agency. StartDate is optional:
// trips without one get date-agnostic ("TBD") itineraries when a template is
// applied.
type Trip struct {
	ID        string
	AgencyID  string
	Name      string
	ClientName string
	StartDate *time.Time
	EndDate   *time.Time
	Status    Status
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
