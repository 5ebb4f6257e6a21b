package template

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/database"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/trip"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// creatorFunc routes one template activity into a type-specific creation
// path. The details argument is the payload's tagged variant; each entry
// asserts it into the shape bound to its component type.
type creatorFunc func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error)

// creators maps orchestrated component types to their creation paths.
// Component types absent from this table go through the generic path; the
// lookup never fails the apply.
var creators = map[activity.ComponentType]creatorFunc{
	activity.ComponentFlight: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.FlightDetails)
		return svc.CreateFlight(ctx, in, v)
	},
	activity.ComponentLodging: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.LodgingDetails)
		return svc.CreateLodging(ctx, in, v)
	},
	activity.ComponentTransportation: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.TransportationDetails)
		return svc.CreateTransportation(ctx, in, v)
	},
	activity.ComponentDining: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.DiningDetails)
		return svc.CreateDining(ctx, in, v)
	},
	activity.ComponentPortInfo: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.PortInfoDetails)
		return svc.CreatePortInfo(ctx, in, v)
	},
	activity.ComponentOptions: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.OptionsDetails)
		return svc.CreateOptions(ctx, in, v)
	},
	activity.ComponentCustomCruise: func(ctx context.Context, svc *activity.Service, in activity.CreateInput, d activity.Details) (string, error) {
		v, _ := d.(activity.CustomCruiseDetails)
		return svc.CreateCustomCruise(ctx, in, v)
	},
}

// baseTypes are non-orchestrated component types that are expected on the
// generic path; anything else still succeeds there but logs a warning.
var baseTypes = map[activity.ComponentType]bool{
	activity.ComponentTour:    true,
	activity.ComponentCruise:  true,
	activity.ComponentPackage: true,
}

// Applier materializes template payloads into live days and activities.
// Each apply runs inside a single storage transaction, so a failure partway
// through leaves nothing behind.
type Applier struct {
	trips       trip.Repository
	itineraries itinerary.Repository
	activities  *activity.Service
	tx          database.Transactor
	logger      zerolog.Logger
}

// NewApplier creates a new template applier.
func NewApplier(trips trip.Repository, itineraries itinerary.Repository, activities *activity.Service, tx database.Transactor, logger zerolog.Logger) *Applier {
	return &Applier{
		trips:       trips,
		itineraries: itineraries,
		activities:  activities,
		tx:          tx,
		logger:      logger,
	}
}

// ApplyItinerary builds a new draft itinerary on a trip from a payload.
// Anchor resolution: explicit override, else the trip's start date, else no
// date at all. In the last mode every day is created with a nil date and
// ordered purely by day number.
func (ap *Applier) ApplyItinerary(ctx context.Context, agencyID, tripID string, payload *ItineraryPayload, name string, anchorOverride *time.Time) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}

	t, err := ap.trips.GetByAgencyAndID(ctx, agencyID, tripID)
	if err != nil {
		return "", err
	}

	anchor := anchorOverride
	if anchor == nil {
		anchor = t.StartDate
	}

	var itineraryID string
	err = ap.tx.InTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		itn := &itinerary.Itinerary{
			ID:        "itn_" + uuid.New().String()[:22],
			TripID:    tripID,
			AgencyID:  agencyID,
			Name:      name,
			Status:    itinerary.StatusDraft,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := ap.itineraries.CreateItinerary(ctx, itn); err != nil {
			return fmt.Errorf("creating itinerary: %w", err)
		}
		itineraryID = itn.ID

		for _, offset := range ap.dedupOffsets(payload.DayOffsets) {
			day, err := ap.resolveItineraryDay(ctx, itn.ID, anchor, offset.DayIndex)
			if err != nil {
				return err
			}

			for _, ta := range offset.Activities {
				if _, err := ap.createActivity(ctx, agencyID, day, nil, ta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	ap.logger.Info().
		Str("trip_id", tripID).
		Str("itinerary_id", itineraryID).
		Bool("anchored", anchor != nil).
		Msg("itinerary template applied")

	return itineraryID, nil
}

// ApplyPackage replays a package payload onto an existing itinerary,
// anchored to one of its days. Days missing beyond the anchor are created
// automatically; a package never fails to apply because the itinerary was
// too short.
func (ap *Applier) ApplyPackage(ctx context.Context, agencyID, itineraryID string, payload *PackagePayload, anchorDayID string) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}

	itn, err := ap.itineraries.GetItinerary(ctx, itineraryID)
	if err != nil {
		return "", err
	}
	if itn.AgencyID != agencyID {
		return "", itinerary.ErrItineraryNotFound
	}

	anchorDay, err := ap.itineraries.GetDay(ctx, anchorDayID)
	if err != nil {
		return "", err
	}
	if anchorDay.ItineraryID != itineraryID {
		return "", itinerary.ErrDayNotFound
	}

	offsets := ap.dedupOffsets(payload.DayOffsets)

	var packageID string
	err = ap.tx.InTx(ctx, func(ctx context.Context) error {
		daysByIndex, err := ap.resolvePackageDays(ctx, itn.ID, anchorDay, offsets)
		if err != nil {
			return err
		}

		packageID, err = ap.createPackageParent(ctx, agencyID, anchorDay, payload.PackageMetadata)
		if err != nil {
			return err
		}

		for _, offset := range offsets {
			day := daysByIndex[offset.DayIndex]
			for _, ta := range offset.Activities {
				if _, err := ap.createActivity(ctx, agencyID, day, &packageID, ta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	ap.logger.Info().
		Str("itinerary_id", itineraryID).
		Str("package_id", packageID).
		Str("anchor_day_id", anchorDayID).
		Msg("package template applied")

	return packageID, nil
}

// dedupOffsets sorts offsets ascending by day index and drops repeats. A
// duplicate index is skipped wholesale, not merged, and logged at warn.
func (ap *Applier) dedupOffsets(offsets []DayOffset) []DayOffset {
	sorted := make([]DayOffset, len(offsets))
	copy(sorted, offsets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DayIndex < sorted[j].DayIndex
	})

	seen := make(map[int]bool, len(sorted))
	result := sorted[:0]
	for _, offset := range sorted {
		if seen[offset.DayIndex] {
			ap.logger.Warn().
				Int("day_index", offset.DayIndex).
				Int("skipped_activities", len(offset.Activities)).
				Msg("duplicate day index in template payload, skipping")
			continue
		}
		seen[offset.DayIndex] = true
		result = append(result, offset)
	}
	return result
}

// resolveItineraryDay finds or creates the day for one offset of a new
// itinerary. Anchored mode computes a concrete date and reuses any existing
// day with that date; TBD mode creates date-less days numbered dayIndex+1.
func (ap *Applier) resolveItineraryDay(ctx context.Context, itineraryID string, anchor *time.Time, dayIndex int) (*itinerary.Day, error) {
	if anchor != nil {
		date := dateutil.AddDays(*anchor, dayIndex)
		day, err := ap.itineraries.FindOrCreateByDate(ctx, itineraryID, date)
		if err != nil {
			return nil, fmt.Errorf("resolving day at offset %d: %w", dayIndex, err)
		}
		return day, nil
	}

	day, err := ap.itineraries.CreateDay(ctx, itinerary.CreateDayInput{
		ItineraryID:   itineraryID,
		DayNumber:     dayIndex + 1,
		SequenceOrder: dayIndex + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("creating day at offset %d: %w", dayIndex, err)
	}
	return day, nil
}

// resolvePackageDays maps each day index to a live day relative to the
// anchor day, creating missing days. With dates in play the whole range is
// bulk-resolved; otherwise days are matched and created by day number.
func (ap *Applier) resolvePackageDays(ctx context.Context, itineraryID string, anchorDay *itinerary.Day, offsets []DayOffset) (map[int]*itinerary.Day, error) {
	result := make(map[int]*itinerary.Day, len(offsets))

	if anchorDay.Date != nil {
		dates := make([]time.Time, 0, len(offsets))
		for _, offset := range offsets {
			dates = append(dates, dateutil.AddDays(*anchorDay.Date, offset.DayIndex))
		}

		days, err := ap.itineraries.FindOrCreateByDateRange(ctx, itineraryID, dates)
		if err != nil {
			return nil, fmt.Errorf("extending itinerary days: %w", err)
		}
		for i, offset := range offsets {
			result[offset.DayIndex] = days[i]
		}
		return result, nil
	}

	existing, err := ap.itineraries.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[int]*itinerary.Day, len(existing))
	for _, day := range existing {
		byNumber[day.DayNumber] = day
	}

	for _, offset := range offsets {
		number := anchorDay.DayNumber + offset.DayIndex
		if day, ok := byNumber[number]; ok {
			result[offset.DayIndex] = day
			continue
		}

		day, err := ap.itineraries.CreateDay(ctx, itinerary.CreateDayInput{
			ItineraryID:   itineraryID,
			DayNumber:     number,
			SequenceOrder: number,
		})
		if err != nil {
			return nil, fmt.Errorf("extending itinerary to day %d: %w", number, err)
		}
		byNumber[number] = day
		result[offset.DayIndex] = day
	}
	return result, nil
}

func (ap *Applier) createPackageParent(ctx context.Context, agencyID string, anchorDay *itinerary.Day, metadata *PackageMetadata) (string, error) {
	in := activity.CreateInput{
		AgencyID:       agencyID,
		ItineraryDayID: &anchorDay.ID,
		ActivityType:   string(activity.ComponentPackage),
		Name:           metadata.Name,
	}

	if metadata.TotalPriceCents != nil {
		pricingType := activity.PricingFlatRate
		if metadata.PricingType == PricingPerPerson {
			pricingType = activity.PricingPerPerson
		}
		in.Pricing = &activity.PricingInput{
			TotalPriceCents: *metadata.TotalPriceCents,
			Currency:        metadata.Currency,
			PricingType:     pricingType,
		}
	}

	id, err := ap.activities.CreateBaseActivity(ctx, activity.ComponentPackage, in)
	if err != nil {
		return "", fmt.Errorf("creating package activity: %w", err)
	}
	return id, nil
}

// createActivity routes one template activity into its creation path. The
// routing table covers the orchestrated types; base and unknown types go
// through the generic path, with a warning for the unknown case.
func (ap *Applier) createActivity(ctx context.Context, agencyID string, day *itinerary.Day, parentID *string, ta TemplateActivity) (string, error) {
	in, err := ap.buildCreateInput(agencyID, day, parentID, ta)
	if err != nil {
		return "", err
	}

	if create, ok := creators[ta.ComponentType]; ok {
		id, err := create(ctx, ap.activities, in, ta.Details)
		if err != nil {
			return "", fmt.Errorf("creating %s activity %q: %w", ta.ComponentType, ta.Name, err)
		}
		return id, nil
	}

	if !baseTypes[ta.ComponentType] {
		ap.logger.Warn().
			Str("component_type", string(ta.ComponentType)).
			Str("activity_name", ta.Name).
			Msg("unrecognized component type, using generic creation path")
	}

	id, err := ap.activities.CreateBaseActivity(ctx, ta.ComponentType, in)
	if err != nil {
		return "", fmt.Errorf("creating %s activity %q: %w", ta.ComponentType, ta.Name, err)
	}
	return id, nil
}

// buildCreateInput maps payload fields back to live ones. Absolute datetimes
// are reconstructed only when the day has a concrete date; TBD days keep nil
// datetimes while every other field still populates.
func (ap *Applier) buildCreateInput(agencyID string, day *itinerary.Day, parentID *string, ta TemplateActivity) (activity.CreateInput, error) {
	in := activity.CreateInput{
		AgencyID:           agencyID,
		ItineraryDayID:     &day.ID,
		ParentActivityID:   parentID,
		ActivityType:       ta.ActivityType,
		Name:               ta.Name,
		Timezone:           ta.Timezone,
		Location:           ta.Location,
		Address:            ta.Address,
		Notes:              ta.Notes,
		ConfirmationNumber: ta.ConfirmationNumber,
		SequenceOrder:      ta.SequenceOrder,
	}

	if ta.Coordinates != nil {
		in.Coordinates = &activity.Coordinates{Lat: ta.Coordinates.Lat, Lon: ta.Coordinates.Lon}
	}

	if day.Date != nil {
		if ta.StartTime != "" {
			start, err := dateutil.Combine(*day.Date, ta.StartTime)
			if err != nil {
				return activity.CreateInput{}, fmt.Errorf("%w: activity %q: %v", ErrPayloadIncomplete, ta.Name, err)
			}
			in.StartTime = &start
		}
		if ta.EndTime != "" {
			end, err := dateutil.Combine(*day.Date, ta.EndTime)
			if err != nil {
				return activity.CreateInput{}, fmt.Errorf("%w: activity %q: %v", ErrPayloadIncomplete, ta.Name, err)
			}
			in.EndTime = &end
		}
	}

	if ta.Pricing != nil {
		in.Pricing = &activity.PricingInput{
			TotalPriceCents:        ta.Pricing.TotalPriceCents,
			Currency:               ta.Pricing.Currency,
			TaxesCents:             ta.Pricing.TaxesCents,
			CommissionAmountCents:  ta.Pricing.CommissionAmountCents,
			CommissionSplitPercent: ta.Pricing.CommissionSplitPercent,
		}
	}

	return in, nil
}
