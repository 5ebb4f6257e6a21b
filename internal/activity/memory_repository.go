package activity

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu         sync.RWMutex
	activities map[string]*Activity
	pricing    map[string]*Pricing
}

// NewInMemoryRepository creates a new in-memory activity repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		activities: make(map[string]*Activity),
		pricing:    make(map[string]*Pricing),
	}
}

// Get retrieves an activity by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}

	cpy := *a
	return &cpy, nil
}

// Create creates a new activity.
func (r *InMemoryRepository) Create(_ context.Context, a *Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *a
	r.activities[a.ID] = &cpy
	return nil
}

// ListByDayIDs retrieves all activities attached to the given days.
func (r *InMemoryRepository) ListByDayIDs(_ context.Context, dayIDs []string) ([]*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]int, len(dayIDs))
	for i, id := range dayIDs {
		wanted[id] = i
	}

	var result []*Activity
	for _, a := range r.activities {
		if a.ItineraryDayID == nil {
			continue
		}
		if _, ok := wanted[*a.ItineraryDayID]; ok {
			cpy := *a
			result = append(result, &cpy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		di := wanted[*result[i].ItineraryDayID]
		dj := wanted[*result[j].ItineraryDayID]
		if di != dj {
			return di < dj
		}
		return result[i].SequenceOrder < result[j].SequenceOrder
	})

	return result, nil
}

// ListChildren retrieves the direct children of a parent activity.
func (r *InMemoryRepository) ListChildren(_ context.Context, parentActivityID string) ([]*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Activity
	for _, a := range r.activities {
		if a.ParentActivityID != nil && *a.ParentActivityID == parentActivityID {
			cpy := *a
			result = append(result, &cpy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SequenceOrder < result[j].SequenceOrder
	})

	return result, nil
}

// CreatePricing creates a pricing row for an activity.
func (r *InMemoryRepository) CreatePricing(_ context.Context, p *Pricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *p
	r.pricing[p.ActivityID] = &cpy
	return nil
}

// ListPricingByActivityIDs retrieves pricing for the given activities.
func (r *InMemoryRepository) ListPricingByActivityIDs(_ context.Context, activityIDs []string) (map[string]*Pricing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Pricing)
	for _, id := range activityIDs {
		if p, ok := r.pricing[id]; ok {
			cpy := *p
			result[id] = &cpy
		}
	}
	return result, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)

// InMemoryDetailStore is an in-memory implementation of DetailStore.
type InMemoryDetailStore struct {
	mu      sync.RWMutex
	details map[ComponentType]map[string]Details
}

// NewInMemoryDetailStore creates a new in-memory detail store.
func NewInMemoryDetailStore() *InMemoryDetailStore {
	return &InMemoryDetailStore{
		details: make(map[ComponentType]map[string]Details),
	}
}

// ListByActivityIDs retrieves detail records of one component type.
func (s *InMemoryDetailStore) ListByActivityIDs(_ context.Context, kind ComponentType, activityIDs []string) (map[string]Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byActivity := s.details[kind]
	result := make(map[string]Details)
	for _, id := range activityIDs {
		if d, ok := byActivity[id]; ok {
			result[id] = d
		}
	}
	return result, nil
}

// Save writes the detail record for an activity.
func (s *InMemoryDetailStore) Save(_ context.Context, activityID string, d Details) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byActivity, ok := s.details[d.Kind()]
	if !ok {
		byActivity = make(map[string]Details)
		s.details[d.Kind()] = byActivity
	}
	byActivity[activityID] = d
	return nil
}

// Ensure InMemoryDetailStore implements DetailStore interface.
var _ DetailStore = (*InMemoryDetailStore)(nil)
