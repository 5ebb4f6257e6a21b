// Package activity provides itinerary activity management: typed activity
// records, per-type detail records, and pricing.
package activity

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrNotAPackage      = errors.New("activity is not a package")
)

// ComponentType is the structural kind of an activity. It decides which
// creation path and which detail table an activity uses.
type ComponentType string

// Known component types.
const (
	ComponentFlight         ComponentType = "flight"
	ComponentLodging        ComponentType = "lodging"
	ComponentTransportation ComponentType = "transportation"
	ComponentDining         ComponentType = "dining"
	ComponentPortInfo       ComponentType = "port_info"
	ComponentOptions        ComponentType = "options"
	ComponentCustomCruise   ComponentType = "custom_cruise"
	ComponentTour           ComponentType = "tour"
	ComponentCruise         ComponentType = "cruise"
	ComponentPackage        ComponentType = "package"
)

// OrchestratedTypes lists component types with a dedicated, detail-aware
// creation path. Everything else goes through the generic path.
var OrchestratedTypes = []ComponentType{
	ComponentFlight,
	ComponentLodging,
	ComponentTransportation,
	ComponentDining,
	ComponentPortInfo,
	ComponentOptions,
	ComponentCustomCruise,
}

// Orchestrated reports whether the component type has a dedicated creation
// path with a typed detail record.
func (c ComponentType) Orchestrated() bool {
	switch c {
	case ComponentFlight, ComponentLodging, ComponentTransportation,
		ComponentDining, ComponentPortInfo, ComponentOptions, ComponentCustomCruise:
		return true
	}
	return false
}

// Coordinates is an optional geo pair attached to an activity.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Activity represents one activity row. ItineraryDayID is nil for floating
// activities; ParentActivityID links package children to their parent.
type Activity struct {
	ID                 string
	AgencyID           string
	ItineraryDayID     *string
	ParentActivityID   *string
	ComponentType      ComponentType
	ActivityType       string
	Name               string
	StartTime          *time.Time
	EndTime            *time.Time
	Timezone           string
	Location           string
	Address            string
	Coordinates        *Coordinates
	Notes              string
	ConfirmationNumber string
	SequenceOrder      int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Pricing models for package activities.
const (
	PricingFlatRate  = "flat_rate"
	PricingPerPerson = "per_person"
)

// Pricing holds monetary fields for one activity. All amounts are integer
// cents; the commission split is stored as a decimal string (e.g. "12.50")
// to match the ledger's exact representation. PricingType is only meaningful
// for package activities and defaults to flat rate.
type Pricing struct {
	ActivityID                string
	TotalPriceCents           int64
	Currency                  string
	TaxesCents                int64
	CommissionAmountCents     int64
	CommissionSplitPercentage string
	PricingType               string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
