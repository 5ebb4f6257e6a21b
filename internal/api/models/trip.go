package models

// Trip represents a client trip.
type Trip struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ClientName string    `json:"clientName,omitempty"`
	StartDate  *string   `json:"startDate,omitempty"`
	EndDate    *string   `json:"endDate,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
}

// TripCreateRequest is the request body for creating a trip.
type TripCreateRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	ClientName string  `json:"clientName,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// PagedTrips is a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
