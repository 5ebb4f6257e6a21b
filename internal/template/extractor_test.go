package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/itinerary"
)

func TestExtractItinerary_DayIndexesAndTimes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-03-10"
	tr := f.seedTrip(t, "agc_1", &start)
	itn, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"2025-03-10", "2025-03-12"})

	startTime := at(t, "2025-03-10", "14:30")
	endTime := at(t, "2025-03-10", "16:45")
	f.createFlight(t, "agc_1", &days[0].ID, activity.CreateInput{
		Name:          "Outbound flight",
		StartTime:     &startTime,
		EndTime:       &endTime,
		Timezone:      "Europe/Amsterdam",
		SequenceOrder: 1,
	}, activity.FlightDetails{Airline: "KL", FlightNumber: "KL601"})
	f.createBase(t, "agc_1", &days[1].ID, activity.ComponentTour, activity.CreateInput{
		Name:          "City walk",
		SequenceOrder: 1,
	})

	payload, err := f.extractor.ExtractItinerary(ctx, "agc_1", itn.ID)
	require.NoError(t, err)
	require.Len(t, payload.DayOffsets, 2)

	assert.Equal(t, 0, payload.DayOffsets[0].DayIndex)
	assert.Equal(t, 2, payload.DayOffsets[1].DayIndex)

	require.Len(t, payload.DayOffsets[0].Activities, 1)
	flight := payload.DayOffsets[0].Activities[0]
	assert.Equal(t, "14:30", flight.StartTime)
	assert.Equal(t, "16:45", flight.EndTime)
	assert.Equal(t, "Europe/Amsterdam", flight.Timezone)

	details, ok := flight.Details.(activity.FlightDetails)
	require.True(t, ok, "flight details should survive extraction")
	assert.Equal(t, "KL601", details.FlightNumber)
}

func TestExtractItinerary_TBDDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.seedTrip(t, "agc_1", nil)
	itn, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"", "", ""})

	f.createBase(t, "agc_1", &days[2].ID, activity.ComponentTour, activity.CreateInput{
		Name: "Day three tour",
	})

	payload, err := f.extractor.ExtractItinerary(ctx, "agc_1", itn.ID)
	require.NoError(t, err)
	require.Len(t, payload.DayOffsets, 3)

	// With no dates, offsets fall back to day number differences.
	assert.Equal(t, 0, payload.DayOffsets[0].DayIndex)
	assert.Equal(t, 1, payload.DayOffsets[1].DayIndex)
	assert.Equal(t, 2, payload.DayOffsets[2].DayIndex)
	assert.Len(t, payload.DayOffsets[2].Activities, 1)

	// No absolute times exist to extract.
	assert.Empty(t, payload.DayOffsets[2].Activities[0].StartTime)
}

func TestExtractItinerary_ExcludesFloatingActivities(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-03-10"
	tr := f.seedTrip(t, "agc_1", &start)
	itn, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"2025-03-10"})

	f.createBase(t, "agc_1", &days[0].ID, activity.ComponentTour, activity.CreateInput{Name: "Attached"})
	f.createBase(t, "agc_1", nil, activity.ComponentTour, activity.CreateInput{Name: "Floating"})

	payload, err := f.extractor.ExtractItinerary(ctx, "agc_1", itn.ID)
	require.NoError(t, err)
	require.Len(t, payload.DayOffsets, 1)
	require.Len(t, payload.DayOffsets[0].Activities, 1)
	assert.Equal(t, "Attached", payload.DayOffsets[0].Activities[0].Name)
}

func TestExtractItinerary_CommissionSplitToNumeric(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-03-10"
	tr := f.seedTrip(t, "agc_1", &start)
	itn, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"2025-03-10"})

	f.createBase(t, "agc_1", &days[0].ID, activity.ComponentTour, activity.CreateInput{
		Name: "Guided tour",
		Pricing: &activity.PricingInput{
			TotalPriceCents:        125000,
			Currency:               "EUR",
			CommissionAmountCents:  12500,
			CommissionSplitPercent: 12.5,
		},
	})

	payload, err := f.extractor.ExtractItinerary(ctx, "agc_1", itn.ID)
	require.NoError(t, err)

	pricing := payload.DayOffsets[0].Activities[0].Pricing
	require.NotNil(t, pricing)
	assert.Equal(t, int64(125000), pricing.TotalPriceCents)
	assert.Equal(t, "EUR", pricing.Currency)
	assert.InDelta(t, 12.5, pricing.CommissionSplitPercent, 0.0001)
}

func TestExtractItinerary_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-03-10"
	tr := f.seedTrip(t, "agc_1", &start)
	itn, _ := f.seedItinerary(t, "agc_1", tr.ID, []string{})

	_, err := f.extractor.ExtractItinerary(ctx, "agc_1", itn.ID)
	assert.ErrorIs(t, err, ErrItineraryEmpty)

	_, err = f.extractor.ExtractItinerary(ctx, "agc_other", itn.ID)
	assert.ErrorIs(t, err, itinerary.ErrItineraryNotFound)

	_, err = f.extractor.ExtractItinerary(ctx, "agc_1", "itn_missing")
	assert.ErrorIs(t, err, itinerary.ErrItineraryNotFound)
}

func TestExtractPackage_AnchorIsEarliestChildDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-06-01"
	tr := f.seedTrip(t, "agc_1", &start)
	_, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"2025-06-01", "2025-06-03", "2025-06-05"})

	// Package parent sits on day one, children start on day three.
	pkgID := f.createBase(t, "agc_1", &days[0].ID, activity.ComponentPackage, activity.CreateInput{
		Name:         "Cruise add-on",
		ActivityType: "package",
		Pricing: &activity.PricingInput{
			TotalPriceCents: 480000,
			Currency:        "USD",
			PricingType:     activity.PricingPerPerson,
		},
	})
	f.createBase(t, "agc_1", &days[1].ID, activity.ComponentTour, activity.CreateInput{
		Name:             "Embarkation tour",
		ParentActivityID: &pkgID,
	})
	f.createBase(t, "agc_1", &days[2].ID, activity.ComponentTour, activity.CreateInput{
		Name:             "Shore excursion",
		ParentActivityID: &pkgID,
	})

	payload, err := f.extractor.ExtractPackage(ctx, "agc_1", pkgID)
	require.NoError(t, err)

	require.NotNil(t, payload.PackageMetadata)
	assert.Equal(t, "Cruise add-on", payload.PackageMetadata.Name)
	assert.Equal(t, PricingPerPerson, payload.PackageMetadata.PricingType)
	require.NotNil(t, payload.PackageMetadata.TotalPriceCents)
	assert.Equal(t, int64(480000), *payload.PackageMetadata.TotalPriceCents)

	require.Len(t, payload.DayOffsets, 2)
	assert.Equal(t, 0, payload.DayOffsets[0].DayIndex)
	assert.Equal(t, 2, payload.DayOffsets[1].DayIndex)
	assert.Equal(t, "Embarkation tour", payload.DayOffsets[0].Activities[0].Name)
}

func TestExtractPackage_NotAPackage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	start := "2025-06-01"
	tr := f.seedTrip(t, "agc_1", &start)
	_, days := f.seedItinerary(t, "agc_1", tr.ID, []string{"2025-06-01"})

	tourID := f.createBase(t, "agc_1", &days[0].ID, activity.ComponentTour, activity.CreateInput{Name: "Just a tour"})

	_, err := f.extractor.ExtractPackage(ctx, "agc_1", tourID)
	assert.ErrorIs(t, err, activity.ErrNotAPackage)

	_, err = f.extractor.ExtractPackage(ctx, "agc_1", "act_missing")
	assert.ErrorIs(t, err, activity.ErrActivityNotFound)
}
