package template

import "context"

// ListFilter narrows a template listing. The zero value lists everything
// the actor can see.
type ListFilter struct {
	// Kind restricts results to one template kind when non-empty.
	Kind Kind
}

// Repository defines storage operations for the template library.
// Implementations scope reads by agency; per-user visibility of user-scoped
// templates is enforced by the service.
type Repository interface {
	// Create persists a new template.
	Create(ctx context.Context, t *TripTemplate) error

	// GetByAgencyAndID retrieves a template scoped to an agency. Returns
	// ErrTemplateNotFound if the template doesn't exist or belongs to a
	// different agency.
	GetByAgencyAndID(ctx context.Context, agencyID, templateID string) (*TripTemplate, error)

	// List retrieves the templates visible to a user within an agency:
	// every agency-scoped template plus the user's own user-scoped ones,
	// ordered by most recently updated.
	List(ctx context.Context, agencyID, userID string, filter ListFilter) ([]*TripTemplate, error)

	// Update persists name, description, and updated_at changes.
	Update(ctx context.Context, t *TripTemplate) error

	// Delete removes a template. Returns ErrTemplateNotFound if it does
	// not exist.
	Delete(ctx context.Context, templateID string) error
}
