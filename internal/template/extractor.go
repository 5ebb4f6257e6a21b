package template

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// Extractor converts live itineraries and packages into portable template
// payloads. All operations are read-only.
type Extractor struct {
	itineraries itinerary.Repository
	activities  activity.Repository
	details     activity.DetailStore
	logger      zerolog.Logger
}

// NewExtractor creates a new template extractor.
func NewExtractor(itineraries itinerary.Repository, activities activity.Repository, details activity.DetailStore, logger zerolog.Logger) *Extractor {
	return &Extractor{
		itineraries: itineraries,
		activities:  activities,
		details:     details,
		logger:      logger,
	}
}

// ExtractItinerary serializes a full itinerary into a date-relative payload.
// The first day in sequence order is the zero-offset anchor; all identifiers
// and absolute dates are stripped. Fails with ErrItineraryEmpty when the
// itinerary has no days.
func (e *Extractor) ExtractItinerary(ctx context.Context, agencyID, itineraryID string) (*ItineraryPayload, error) {
	itn, err := e.itineraries.GetItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if itn.AgencyID != agencyID {
		return nil, itinerary.ErrItineraryNotFound
	}

	days, err := e.itineraries.ListDays(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrItineraryEmpty
	}

	dayIDs := make([]string, 0, len(days))
	for _, day := range days {
		dayIDs = append(dayIDs, day.ID)
	}

	// Floating activities (no day) are not reachable through a day lookup,
	// so they never enter the payload. Flagged behavior carried over from
	// the original system; product has not confirmed it is intended.
	activities, err := e.activities.ListByDayIDs(ctx, dayIDs)
	if err != nil {
		return nil, err
	}

	offsets, err := e.buildDayOffsets(ctx, days, activities)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("itinerary_id", itineraryID).
		Int("days", len(days)).
		Int("activities", len(activities)).
		Msg("itinerary extracted")

	return &ItineraryPayload{DayOffsets: offsets}, nil
}

// ExtractPackage serializes a package activity and its direct children into
// a payload. The anchor is the earliest date among the children's days, not
// the package's own day. Fails with activity.ErrNotAPackage when the target
// activity is not a package.
func (e *Extractor) ExtractPackage(ctx context.Context, agencyID, packageActivityID string) (*PackagePayload, error) {
	pkg, err := e.activities.Get(ctx, packageActivityID)
	if err != nil {
		return nil, err
	}
	if pkg.AgencyID != agencyID {
		return nil, activity.ErrActivityNotFound
	}
	if pkg.ActivityType != string(activity.ComponentPackage) {
		return nil, activity.ErrNotAPackage
	}

	// One level of nesting only: children are resolved by direct parent
	// lookup, never recursively.
	children, err := e.activities.ListChildren(ctx, packageActivityID)
	if err != nil {
		return nil, err
	}

	days, err := e.resolveChildDays(ctx, children)
	if err != nil {
		return nil, err
	}

	attached := make([]*activity.Activity, 0, len(children))
	for _, child := range children {
		if child.ItineraryDayID == nil {
			continue
		}
		attached = append(attached, child)
	}

	offsets, err := e.buildDayOffsets(ctx, days, attached)
	if err != nil {
		return nil, err
	}

	metadata, err := e.packageMetadata(ctx, pkg)
	if err != nil {
		return nil, err
	}

	return &PackagePayload{
		PackageMetadata: metadata,
		DayOffsets:      offsets,
	}, nil
}

// resolveChildDays loads the distinct days of package children, ordered by
// date (earliest first) falling back to day number.
func (e *Extractor) resolveChildDays(ctx context.Context, children []*activity.Activity) ([]*itinerary.Day, error) {
	seen := make(map[string]bool)
	var days []*itinerary.Day
	for _, child := range children {
		if child.ItineraryDayID == nil || seen[*child.ItineraryDayID] {
			continue
		}
		seen[*child.ItineraryDayID] = true

		day, err := e.itineraries.GetDay(ctx, *child.ItineraryDayID)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool {
		di, dj := days[i], days[j]
		if di.Date != nil && dj.Date != nil {
			return di.Date.Before(*dj.Date)
		}
		if di.Date != nil {
			return true
		}
		if dj.Date != nil {
			return false
		}
		return di.DayNumber < dj.DayNumber
	})

	return days, nil
}

func (e *Extractor) packageMetadata(ctx context.Context, pkg *activity.Activity) (*PackageMetadata, error) {
	metadata := &PackageMetadata{
		Name:        pkg.Name,
		PricingType: PricingFlatRate,
	}

	pricing, err := e.activities.ListPricingByActivityIDs(ctx, []string{pkg.ID})
	if err != nil {
		return nil, err
	}
	if p, ok := pricing[pkg.ID]; ok {
		if p.PricingType == activity.PricingPerPerson {
			metadata.PricingType = PricingPerPerson
		}
		total := p.TotalPriceCents
		metadata.TotalPriceCents = &total
		metadata.Currency = p.Currency
	}

	return metadata, nil
}

// buildDayOffsets maps live days and activities to anchor-relative offsets.
// days must already be in anchor order: its first element becomes offset
// zero.
func (e *Extractor) buildDayOffsets(ctx context.Context, days []*itinerary.Day, activities []*activity.Activity) ([]DayOffset, error) {
	if len(days) == 0 {
		return nil, nil
	}

	activityIDs := make([]string, 0, len(activities))
	for _, a := range activities {
		activityIDs = append(activityIDs, a.ID)
	}

	pricing, details, err := e.fetchActivityData(ctx, activityIDs)
	if err != nil {
		return nil, err
	}

	anchor := days[0]
	// A TBD anchor gets a synthetic date purely so relative arithmetic has a
	// consistent reference; offsets only ever depend on differences.
	anchorDate := time.Now()
	if anchor.Date != nil {
		anchorDate = *anchor.Date
	}

	byDay := make(map[string][]*activity.Activity)
	for _, a := range activities {
		byDay[*a.ItineraryDayID] = append(byDay[*a.ItineraryDayID], a)
	}

	offsets := make([]DayOffset, 0, len(days))
	for _, day := range days {
		var index int
		if day.Date != nil && anchor.Date != nil {
			index = dateutil.DaysBetween(anchorDate, *day.Date)
		} else {
			index = day.DayNumber - anchor.DayNumber
		}

		dayActivities := byDay[day.ID]
		templateActivities := make([]TemplateActivity, 0, len(dayActivities))
		for _, a := range dayActivities {
			ta, err := e.toTemplateActivity(a, pricing[a.ID], details)
			if err != nil {
				return nil, err
			}
			templateActivities = append(templateActivities, ta)
		}

		offsets = append(offsets, DayOffset{
			DayIndex:   index,
			Activities: templateActivities,
		})
	}

	sort.SliceStable(offsets, func(i, j int) bool {
		return offsets[i].DayIndex < offsets[j].DayIndex
	})

	return offsets, nil
}

// fetchActivityData loads pricing (one batched query) and every orchestrated
// detail table (independent reads, fanned out in parallel) for the given
// activities.
func (e *Extractor) fetchActivityData(ctx context.Context, activityIDs []string) (map[string]*activity.Pricing, map[activity.ComponentType]map[string]activity.Details, error) {
	pricing, err := e.activities.ListPricingByActivityIDs(ctx, activityIDs)
	if err != nil {
		return nil, nil, err
	}

	details := make(map[activity.ComponentType]map[string]activity.Details, len(activity.OrchestratedTypes))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fetchErr error
	)

	for _, kind := range activity.OrchestratedTypes {
		wg.Add(1)
		go func(kind activity.ComponentType) {
			defer wg.Done()

			byActivity, err := e.details.ListByActivityIDs(ctx, kind, activityIDs)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = fmt.Errorf("fetching %s details: %w", kind, err)
				}
				return
			}
			details[kind] = byActivity
		}(kind)
	}
	wg.Wait()

	if fetchErr != nil {
		return nil, nil, fetchErr
	}
	return pricing, details, nil
}

// toTemplateActivity maps one live activity to its payload form. Absolute
// datetimes reduce to UTC wall-clock HH:MM; the timezone label rides along
// untouched.
func (e *Extractor) toTemplateActivity(a *activity.Activity, pricing *activity.Pricing, details map[activity.ComponentType]map[string]activity.Details) (TemplateActivity, error) {
	ta := TemplateActivity{
		ComponentType:      a.ComponentType,
		ActivityType:       a.ActivityType,
		Name:               a.Name,
		SequenceOrder:      a.SequenceOrder,
		Timezone:           a.Timezone,
		Location:           a.Location,
		Address:            a.Address,
		Notes:              a.Notes,
		ConfirmationNumber: a.ConfirmationNumber,
	}

	if a.StartTime != nil {
		ta.StartTime = dateutil.Clock(*a.StartTime)
	}
	if a.EndTime != nil {
		ta.EndTime = dateutil.Clock(*a.EndTime)
	}
	if a.Coordinates != nil {
		ta.Coordinates = &GeoPoint{Lat: a.Coordinates.Lat, Lon: a.Coordinates.Lon}
	}

	if pricing != nil {
		split, err := activity.ParseCommissionSplit(pricing.CommissionSplitPercentage)
		if err != nil {
			return TemplateActivity{}, fmt.Errorf("activity %s: parsing commission split %q: %w", a.ID, pricing.CommissionSplitPercentage, err)
		}
		ta.Pricing = &TemplatePricing{
			TotalPriceCents:        pricing.TotalPriceCents,
			Currency:               pricing.Currency,
			TaxesCents:             pricing.TaxesCents,
			CommissionAmountCents:  pricing.CommissionAmountCents,
			CommissionSplitPercent: split,
		}
	}

	if byActivity, ok := details[a.ComponentType]; ok {
		if d, ok := byActivity[a.ID]; ok {
			ta.Details = d
		}
	}

	return ta, nil
}
