package template

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	templates map[string]*TripTemplate
}

// NewInMemoryRepository creates a new in-memory template repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		templates: make(map[string]*TripTemplate),
	}
}

// Create persists a new template.
func (r *InMemoryRepository) Create(_ context.Context, t *TripTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *t
	r.templates[t.ID] = &stored
	return nil
}

// GetByAgencyAndID retrieves a template scoped to an agency.
func (r *InMemoryRepository) GetByAgencyAndID(_ context.Context, agencyID, templateID string) (*TripTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[templateID]
	if !ok || t.AgencyID != agencyID {
		return nil, ErrTemplateNotFound
	}

	result := *t
	return &result, nil
}

// List retrieves the templates visible to a user within an agency.
func (r *InMemoryRepository) List(_ context.Context, agencyID, userID string, filter ListFilter) ([]*TripTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var templates []*TripTemplate
	for _, t := range r.templates {
		if t.AgencyID != agencyID {
			continue
		}
		if t.Scope == ScopeUser && t.CreatedByUserID != userID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		result := *t
		templates = append(templates, &result)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].UpdatedAt.After(templates[j].UpdatedAt)
	})
	return templates, nil
}

// Update persists name, description, and updated_at changes.
func (r *InMemoryRepository) Update(_ context.Context, t *TripTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.templates[t.ID]
	if !ok {
		return ErrTemplateNotFound
	}

	existing.Name = t.Name
	existing.Description = t.Description
	existing.UpdatedAt = t.UpdatedAt
	return nil
}

// Delete removes a template by ID.
func (r *InMemoryRepository) Delete(_ context.Context, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[templateID]; !ok {
		return ErrTemplateNotFound
	}
	delete(r.templates, templateID)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
