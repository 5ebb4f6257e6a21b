package template

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/api/models"
)

func seedSourceItinerary(t *testing.T, f *fixture, agencyID string) string {
	t.Helper()

	start := "2025-03-10"
	tr := f.seedTrip(t, agencyID, &start)
	itn, days := f.seedItinerary(t, agencyID, tr.ID, []string{"2025-03-10", "2025-03-11"})
	f.createBase(t, agencyID, &days[0].ID, activity.ComponentTour, activity.CreateInput{Name: "City walk"})
	return itn.ID
}

func TestService_SaveAndGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := Actor{UserID: "usr_1", AgencyID: "agc_1"}

	itnID := seedSourceItinerary(t, f, "agc_1")
	saved, err := f.svc.SaveItineraryTemplate(ctx, actor, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID,
		Name:        "Spring break",
		Description: "Two day city trip",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", saved.Scope)
	assert.Equal(t, "itinerary", saved.Kind)

	detail, err := f.svc.Get(ctx, actor, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring break", detail.Name)
	assert.NotEmpty(t, detail.Payload)

	var payload ItineraryPayload
	require.NoError(t, json.Unmarshal(detail.Payload, &payload))
	require.Len(t, payload.DayOffsets, 2)
}

func TestService_AgencyScopeRequiresAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	itnID := seedSourceItinerary(t, f, "agc_1")
	req := &models.TemplateFromItineraryRequest{
		ItineraryID: itnID,
		Name:        "Shared template",
		Scope:       "agency",
	}

	agent := Actor{UserID: "usr_1", AgencyID: "agc_1"}
	_, err := f.svc.SaveItineraryTemplate(ctx, agent, req)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Actor{UserID: "usr_2", AgencyID: "agc_1", Admin: true}
	_, err = f.svc.SaveItineraryTemplate(ctx, admin, req)
	assert.NoError(t, err)
}

func TestService_VisibilityAcrossUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	itnID := seedSourceItinerary(t, f, "agc_1")
	creator := Actor{UserID: "usr_1", AgencyID: "agc_1", Admin: true}

	private, err := f.svc.SaveItineraryTemplate(ctx, creator, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID, Name: "My notes", Scope: "user",
	})
	require.NoError(t, err)
	shared, err := f.svc.SaveItineraryTemplate(ctx, creator, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID, Name: "Agency standard", Scope: "agency",
	})
	require.NoError(t, err)

	colleague := Actor{UserID: "usr_2", AgencyID: "agc_1"}
	list, err := f.svc.List(ctx, colleague, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, shared.ID, list.Items[0].ID)

	_, err = f.svc.Get(ctx, colleague, private.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	outsider := Actor{UserID: "usr_9", AgencyID: "agc_other"}
	_, err = f.svc.Get(ctx, outsider, shared.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestService_UpdateAndDeleteGating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	itnID := seedSourceItinerary(t, f, "agc_1")
	admin := Actor{UserID: "usr_1", AgencyID: "agc_1", Admin: true}

	shared, err := f.svc.SaveItineraryTemplate(ctx, admin, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID, Name: "Agency standard", Scope: "agency",
	})
	require.NoError(t, err)

	newName := "Renamed"
	colleague := Actor{UserID: "usr_2", AgencyID: "agc_1"}
	_, err = f.svc.Update(ctx, colleague, shared.ID, &models.TemplateUpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.svc.Delete(ctx, colleague, shared.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.svc.Update(ctx, admin, shared.ID, &models.TemplateUpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, f.svc.Delete(ctx, admin, shared.ID))
	_, err = f.svc.Get(ctx, admin, shared.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestService_ApplyKindMismatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := Actor{UserID: "usr_1", AgencyID: "agc_1"}

	itnID := seedSourceItinerary(t, f, "agc_1")
	saved, err := f.svc.SaveItineraryTemplate(ctx, actor, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID, Name: "Spring break",
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyToItinerary(ctx, actor, itnID, &models.ApplyToItineraryRequest{
		TemplateID:  saved.ID,
		AnchorDayID: "day_any",
	})
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestService_ApplyToTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := Actor{UserID: "usr_1", AgencyID: "agc_1"}

	itnID := seedSourceItinerary(t, f, "agc_1")
	saved, err := f.svc.SaveItineraryTemplate(ctx, actor, &models.TemplateFromItineraryRequest{
		ItineraryID: itnID, Name: "Spring break",
	})
	require.NoError(t, err)

	targetStart := "2026-02-01"
	target := f.seedTrip(t, "agc_1", &targetStart)

	result, err := f.svc.ApplyToTrip(ctx, actor, target.ID, &models.ApplyToTripRequest{
		TemplateID: saved.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ItineraryID)

	days, err := f.itineraries.ListDays(ctx, result.ItineraryID)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestService_SaveValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := Actor{UserID: "usr_1", AgencyID: "agc_1"}

	_, err := f.svc.SaveItineraryTemplate(ctx, actor, &models.TemplateFromItineraryRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)

	_, err = f.svc.SaveItineraryTemplate(ctx, actor, &models.TemplateFromItineraryRequest{
		ItineraryID: "itn_1", Name: "x", Scope: "global",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scope", verr.Errors[0].Field)
}
