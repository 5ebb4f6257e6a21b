package trip

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{trips: make(map[string]*Trip)}
}

// Get retrieves a trip by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// GetByAgencyAndID retrieves a trip scoped to an agency.
func (r *InMemoryRepository) GetByAgencyAndID(_ context.Context, agencyID, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok || t.AgencyID != agencyID {
		return nil, ErrTripNotFound
	}

	cpy := *t
	return &cpy, nil
}

// List retrieves all trips for an agency with pagination.
func (r *InMemoryRepository) List(_ context.Context, agencyID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trips []*Trip
	for _, t := range r.trips {
		if t.AgencyID == agencyID {
			cpy := *t
			trips = append(trips, &cpy)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{Items: trips}
	if len(trips) > limit {
		result.Items = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// Create creates a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Update updates an existing trip.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Delete deletes a trip by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
