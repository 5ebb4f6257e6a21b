package template

import (
	"encoding/json"
	"errors"
	"time"
)

// Scope controls who can see and manage a saved template.
type Scope string

// Template scopes.
const (
	// ScopeAgency templates are visible to every user in the agency and
	// managed by agency admins.
	ScopeAgency Scope = "agency"
	// ScopeUser templates are private to the user who saved them.
	ScopeUser Scope = "user"
)

// Kind identifies what a template payload replays onto.
type Kind string

// Template kinds.
const (
	KindItinerary Kind = "itinerary"
	KindPackage   Kind = "package"
)

// ErrKindMismatch is returned when a template is applied to the wrong kind
// of target, such as a package template applied to a whole trip.
var ErrKindMismatch = errors.New("template kind does not match the apply target")

// TripTemplate is a saved, reusable payload in the template library.
type TripTemplate struct {
	ID              string
	AgencyID        string
	CreatedByUserID string
	Scope           Scope
	Kind            Kind
	Name            string
	Description     string
	Payload         json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Actor identifies who is performing a template operation. Handlers build
// it from the authenticated request; services never reach into ambient
// request state for identity.
type Actor struct {
	UserID   string
	AgencyID string
	Admin    bool
}

// VisibleTo reports whether the actor may read this template. Agency
// templates are visible agency-wide; user templates only to their creator.
func (t *TripTemplate) VisibleTo(a Actor) bool {
	if t.AgencyID != a.AgencyID {
		return false
	}
	return t.Scope == ScopeAgency || t.CreatedByUserID == a.UserID
}

// EditableBy reports whether the actor may modify or delete this template.
func (t *TripTemplate) EditableBy(a Actor) bool {
	if t.AgencyID != a.AgencyID {
		return false
	}
	if t.Scope == ScopeAgency {
		return a.Admin
	}
	return t.CreatedByUserID == a.UserID
}
