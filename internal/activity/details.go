package activity

import (
	"encoding/json"
	"fmt"
)

// Details is the typed detail record carried by an orchestrated activity.
// Each implementation is bound to exactly one component type, so the tag and
// the payload shape cannot drift apart.
type Details interface {
	Kind() ComponentType
}

// FlightDetails describes a flight activity.
type FlightDetails struct {
	Airline          string `json:"airline,omitempty"`
	FlightNumber     string `json:"flightNumber,omitempty"`
	DepartureAirport string `json:"departureAirport,omitempty"`
	ArrivalAirport   string `json:"arrivalAirport,omitempty"`
	CabinClass       string `json:"cabinClass,omitempty"`
	SeatAssignments  string `json:"seatAssignments,omitempty"`
	BaggageAllowance string `json:"baggageAllowance,omitempty"`
}

// Kind returns the component type bound to this detail shape.
func (FlightDetails) Kind() ComponentType { return ComponentFlight }

// LodgingDetails describes a lodging activity.
type LodgingDetails struct {
	PropertyName string `json:"propertyName,omitempty"`
	RoomType     string `json:"roomType,omitempty"`
	CheckInTime  string `json:"checkInTime,omitempty"`
	CheckOutTime string `json:"checkOutTime,omitempty"`
	GuestCount   int    `json:"guestCount,omitempty"`
	BoardBasis   string `json:"boardBasis,omitempty"`
}

func (LodgingDetails) Kind() ComponentType { return ComponentLodging }

// TransportationDetails describes a ground-transport activity.
type TransportationDetails struct {
	Mode            string `json:"mode,omitempty"`
	Carrier         string `json:"carrier,omitempty"`
	PickupLocation  string `json:"pickupLocation,omitempty"`
	DropoffLocation string `json:"dropoffLocation,omitempty"`
	VehicleType     string `json:"vehicleType,omitempty"`
	PassengerCount  int    `json:"passengerCount,omitempty"`
}

func (TransportationDetails) Kind() ComponentType { return ComponentTransportation }

// DiningDetails describes a dining activity.
type DiningDetails struct {
	Venue          string `json:"venue,omitempty"`
	Cuisine        string `json:"cuisine,omitempty"`
	PartySize      int    `json:"partySize,omitempty"`
	DressCode      string `json:"dressCode,omitempty"`
	MenuHighlights string `json:"menuHighlights,omitempty"`
}

func (DiningDetails) Kind() ComponentType { return ComponentDining }

// PortInfoDetails describes a cruise port call.
type PortInfoDetails struct {
	PortName      string `json:"portName,omitempty"`
	Terminal      string `json:"terminal,omitempty"`
	ArrivalNote   string `json:"arrivalNote,omitempty"`
	DepartureNote string `json:"departureNote,omitempty"`
	TenderRequired bool  `json:"tenderRequired,omitempty"`
}

func (PortInfoDetails) Kind() ComponentType { return ComponentPortInfo }

// OptionsDetails describes a bookable-options activity.
type OptionsDetails struct {
	OptionName    string `json:"optionName,omitempty"`
	Category      string `json:"category,omitempty"`
	Availability  string `json:"availability,omitempty"`
	BookingWindow string `json:"bookingWindow,omitempty"`
}

func (OptionsDetails) Kind() ComponentType { return ComponentOptions }

// CustomCruiseDetails describes a custom cruise leg.
type CustomCruiseDetails struct {
	ShipName      string `json:"shipName,omitempty"`
	CruiseLine    string `json:"cruiseLine,omitempty"`
	CabinCategory string `json:"cabinCategory,omitempty"`
	DeckNumber    string `json:"deckNumber,omitempty"`
	EmbarkPort    string `json:"embarkPort,omitempty"`
	DebarkPort    string `json:"debarkPort,omitempty"`
}

func (CustomCruiseDetails) Kind() ComponentType { return ComponentCustomCruise }

// DecodeDetails unmarshals a raw detail payload into the struct bound to the
// given component type. Returns an error for component types that carry no
// detail record.
func DecodeDetails(kind ComponentType, raw json.RawMessage) (Details, error) {
	var (
		d   Details
		err error
	)

	switch kind {
	case ComponentFlight:
		var v FlightDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentLodging:
		var v LodgingDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentTransportation:
		var v TransportationDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentDining:
		var v DiningDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentPortInfo:
		var v PortInfoDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentOptions:
		var v OptionsDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case ComponentCustomCruise:
		var v CustomCruiseDetails
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, fmt.Errorf("component type %q has no detail record", kind)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s details: %w", kind, err)
	}
	return d, nil
}
