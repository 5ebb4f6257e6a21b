package template

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/database"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/trip"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// fixture wires the template engine against in-memory storage.
type fixture struct {
	trips       *trip.InMemoryRepository
	itineraries *itinerary.InMemoryRepository
	activities  *activity.InMemoryRepository
	details     *activity.InMemoryDetailStore
	activitySvc *activity.Service
	registry    *InMemoryRepository
	extractor   *Extractor
	applier     *Applier
	svc         *Service
}

func newFixture() *fixture {
	logger := zerolog.Nop()

	trips := trip.NewInMemoryRepository()
	itineraries := itinerary.NewInMemoryRepository()
	activities := activity.NewInMemoryRepository()
	details := activity.NewInMemoryDetailStore()
	activitySvc := activity.NewService(activities, details, logger)
	registry := NewInMemoryRepository()

	extractor := NewExtractor(itineraries, activities, details, logger)
	applier := NewApplier(trips, itineraries, activitySvc, database.NoopTransactor{}, logger)
	svc := NewService(registry, extractor, applier, logger)

	return &fixture{
		trips:       trips,
		itineraries: itineraries,
		activities:  activities,
		details:     details,
		activitySvc: activitySvc,
		registry:    registry,
		extractor:   extractor,
		applier:     applier,
		svc:         svc,
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := dateutil.ParseDate(value)
	require.NoError(t, err)
	return parsed
}

// at builds a wall-clock datetime on the given date.
func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	combined, err := dateutil.Combine(mustDate(t, date), clock)
	require.NoError(t, err)
	return combined
}

func (f *fixture) seedTrip(t *testing.T, agencyID string, startDate *string) *trip.Trip {
	t.Helper()

	now := time.Now()
	tr := &trip.Trip{
		ID:        "trp_" + uuid.New().String()[:22],
		AgencyID:  agencyID,
		Name:      "Test Trip",
		Status:    trip.StatusPlanning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if startDate != nil {
		d := mustDate(t, *startDate)
		tr.StartDate = &d
	}
	require.NoError(t, f.trips.Create(context.Background(), tr))
	return tr
}

// seedItinerary creates an itinerary with one day per date. An empty string
// creates a date-less day.
func (f *fixture) seedItinerary(t *testing.T, agencyID, tripID string, dates []string) (*itinerary.Itinerary, []*itinerary.Day) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()
	itn := &itinerary.Itinerary{
		ID:        "itn_" + uuid.New().String()[:22],
		TripID:    tripID,
		AgencyID:  agencyID,
		Name:      "Test Itinerary",
		Status:    itinerary.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.itineraries.CreateItinerary(ctx, itn))

	days := make([]*itinerary.Day, 0, len(dates))
	for i, date := range dates {
		in := itinerary.CreateDayInput{
			ItineraryID:   itn.ID,
			DayNumber:     i + 1,
			SequenceOrder: i + 1,
		}
		if date != "" {
			d := mustDate(t, date)
			in.Date = &d
		}
		day, err := f.itineraries.CreateDay(ctx, in)
		require.NoError(t, err)
		days = append(days, day)
	}
	return itn, days
}

func (f *fixture) createFlight(t *testing.T, agencyID string, dayID *string, in activity.CreateInput, d activity.FlightDetails) string {
	t.Helper()

	in.AgencyID = agencyID
	in.ItineraryDayID = dayID
	id, err := f.activitySvc.CreateFlight(context.Background(), in, d)
	require.NoError(t, err)
	return id
}

func (f *fixture) createBase(t *testing.T, agencyID string, dayID *string, kind activity.ComponentType, in activity.CreateInput) string {
	t.Helper()

	in.AgencyID = agencyID
	in.ItineraryDayID = dayID
	id, err := f.activitySvc.CreateBaseActivity(context.Background(), kind, in)
	require.NoError(t, err)
	return id
}

// dayActivities returns the activities on one day, in sequence order.
func (f *fixture) dayActivities(t *testing.T, dayID string) []*activity.Activity {
	t.Helper()

	activities, err := f.activities.ListByDayIDs(context.Background(), []string{dayID})
	require.NoError(t, err)
	return activities
}
