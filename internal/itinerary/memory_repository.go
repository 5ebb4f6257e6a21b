package itinerary

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu          sync.Mutex
	itineraries map[string]*Itinerary
	days        map[string]*Day
}

// NewInMemoryRepository creates a new in-memory itinerary repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		itineraries: make(map[string]*Itinerary),
		days:        make(map[string]*Day),
	}
}

// CreateItinerary creates a new itinerary.
func (r *InMemoryRepository) CreateItinerary(_ context.Context, itn *Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *itn
	r.itineraries[itn.ID] = &cpy
	return nil
}

// GetItinerary retrieves an itinerary by ID.
func (r *InMemoryRepository) GetItinerary(_ context.Context, id string) (*Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	itn, ok := r.itineraries[id]
	if !ok {
		return nil, ErrItineraryNotFound
	}

	cpy := *itn
	return &cpy, nil
}

// ListDays retrieves all days of an itinerary ordered by sequence.
func (r *InMemoryRepository) ListDays(_ context.Context, itineraryID string) ([]*Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.listDaysLocked(itineraryID), nil
}

func (r *InMemoryRepository) listDaysLocked(itineraryID string) []*Day {
	var days []*Day
	for _, day := range r.days {
		if day.ItineraryID == itineraryID {
			cpy := *day
			days = append(days, &cpy)
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].SequenceOrder != days[j].SequenceOrder {
			return days[i].SequenceOrder < days[j].SequenceOrder
		}
		return days[i].DayNumber < days[j].DayNumber
	})
	return days
}

// GetDay retrieves a day by ID.
func (r *InMemoryRepository) GetDay(_ context.Context, dayID string) (*Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.days[dayID]
	if !ok {
		return nil, ErrDayNotFound
	}

	cpy := *day
	return &cpy, nil
}

// FindOrCreateByDate returns the day with the given date, creating it if
// absent.
func (r *InMemoryRepository) FindOrCreateByDate(_ context.Context, itineraryID string, date time.Time) (*Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.findOrCreateByDateLocked(itineraryID, date), nil
}

func (r *InMemoryRepository) findOrCreateByDateLocked(itineraryID string, date time.Time) *Day {
	date = dateutil.Truncate(date)

	for _, day := range r.days {
		if day.ItineraryID == itineraryID && day.Date != nil && dateutil.Truncate(*day.Date).Equal(date) {
			cpy := *day
			return &cpy
		}
	}

	next := r.nextNumbersLocked(itineraryID)
	now := time.Now()
	day := &Day{
		ID:            "day_" + uuid.New().String()[:22],
		ItineraryID:   itineraryID,
		DayNumber:     next,
		Date:          &date,
		SequenceOrder: next,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.days[day.ID] = day

	cpy := *day
	return &cpy
}

// FindOrCreateByDateRange bulk-resolves days for the given dates.
func (r *InMemoryRepository) FindOrCreateByDateRange(_ context.Context, itineraryID string, dates []time.Time) ([]*Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	days := make([]*Day, 0, len(dates))
	for _, date := range dates {
		days = append(days, r.findOrCreateByDateLocked(itineraryID, date))
	}
	return days, nil
}

// CreateDay creates a day directly.
func (r *InMemoryRepository) CreateDay(_ context.Context, in CreateDayInput) (*Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	day := &Day{
		ID:            "day_" + uuid.New().String()[:22],
		ItineraryID:   in.ItineraryID,
		DayNumber:     in.DayNumber,
		Date:          in.Date,
		SequenceOrder: in.SequenceOrder,
		Title:         in.Title,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.days[day.ID] = day

	cpy := *day
	return &cpy, nil
}

func (r *InMemoryRepository) nextNumbersLocked(itineraryID string) int {
	max := 0
	for _, day := range r.days {
		if day.ItineraryID == itineraryID && day.DayNumber > max {
			max = day.DayNumber
		}
	}
	return max + 1
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
