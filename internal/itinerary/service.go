package itinerary

import (
	"context"
	"encoding/json"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// Service provides itinerary read operations.
type Service struct {
	repo       Repository
	activities activity.Repository
	details    activity.DetailStore
}

// NewService creates a new itinerary service.
func NewService(repo Repository, activities activity.Repository, details activity.DetailStore) *Service {
	return &Service{repo: repo, activities: activities, details: details}
}

// Get retrieves an itinerary with its full day and activity tree.
func (s *Service) Get(ctx context.Context, agencyID, itineraryID string) (*models.ItineraryDetail, error) {
	itn, err := s.repo.GetItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if itn.AgencyID != agencyID {
		return nil, ErrItineraryNotFound
	}

	days, err := s.repo.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	dayIDs := make([]string, 0, len(days))
	for _, d := range days {
		dayIDs = append(dayIDs, d.ID)
	}

	activities, err := s.activities.ListByDayIDs(ctx, dayIDs)
	if err != nil {
		return nil, err
	}

	activityIDs := make([]string, 0, len(activities))
	for _, a := range activities {
		activityIDs = append(activityIDs, a.ID)
	}

	pricing, err := s.activities.ListPricingByActivityIDs(ctx, activityIDs)
	if err != nil {
		return nil, err
	}

	details := make(map[string]activity.Details)
	for _, kind := range activity.OrchestratedTypes {
		batch, err := s.details.ListByActivityIDs(ctx, kind, activityIDs)
		if err != nil {
			return nil, err
		}
		for id, d := range batch {
			details[id] = d
		}
	}

	byDay := make(map[string][]models.Activity, len(days))
	for _, a := range activities {
		if a.ItineraryDayID == nil {
			continue
		}
		byDay[*a.ItineraryDayID] = append(byDay[*a.ItineraryDayID], toAPIActivity(a, pricing[a.ID], details[a.ID]))
	}

	result := &models.ItineraryDetail{
		Itinerary: toAPIItinerary(itn),
		Days:      make([]models.ItineraryDay, 0, len(days)),
	}
	for _, d := range days {
		day := models.ItineraryDay{
			ID:            d.ID,
			DayNumber:     d.DayNumber,
			SequenceOrder: d.SequenceOrder,
			Title:         d.Title,
			Activities:    byDay[d.ID],
		}
		if day.Activities == nil {
			day.Activities = []models.Activity{}
		}
		if d.Date != nil {
			formatted := d.Date.Format(dateutil.DateLayout)
			day.Date = &formatted
		}
		result.Days = append(result.Days, day)
	}
	return result, nil
}

func toAPIItinerary(itn *Itinerary) models.Itinerary {
	return models.Itinerary{
		ID:        itn.ID,
		TripID:    itn.TripID,
		Name:      itn.Name,
		Status:    string(itn.Status),
		CreatedAt: models.Timestamp(itn.CreatedAt),
		UpdatedAt: models.Timestamp(itn.UpdatedAt),
	}
}

func toAPIActivity(a *activity.Activity, p *activity.Pricing, d activity.Details) models.Activity {
	out := models.Activity{
		ID:                 a.ID,
		ComponentType:      string(a.ComponentType),
		ActivityType:       a.ActivityType,
		Name:               a.Name,
		Timezone:           a.Timezone,
		Location:           a.Location,
		Address:            a.Address,
		ConfirmationNumber: a.ConfirmationNumber,
		Notes:              a.Notes,
		SequenceOrder:      a.SequenceOrder,
		ParentActivityID:   a.ParentActivityID,
	}
	if a.StartTime != nil {
		formatted := dateutil.FormatLocal(*a.StartTime)
		out.StartTime = &formatted
	}
	if a.EndTime != nil {
		formatted := dateutil.FormatLocal(*a.EndTime)
		out.EndTime = &formatted
	}
	if a.Coordinates != nil {
		out.Coordinates = &models.Point{Lat: a.Coordinates.Lat, Lon: a.Coordinates.Lon}
	}
	if p != nil {
		out.Pricing = &models.ActivityPricing{
			TotalPriceCents:           p.TotalPriceCents,
			Currency:                  p.Currency,
			TaxesCents:                p.TaxesCents,
			CommissionAmountCents:     p.CommissionAmountCents,
			CommissionSplitPercentage: p.CommissionSplitPercentage,
			PricingType:               p.PricingType,
		}
	}
	if d != nil {
		// Detail shapes marshal cleanly; a failure here would be a
		// programming error, not bad data.
		if raw, err := json.Marshal(d); err == nil {
			out.Details = raw
		}
	}
	return out
}
