package activity

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateInput holds the base fields shared by every activity creation path.
type CreateInput struct {
	AgencyID           string
	ItineraryDayID     *string
	ParentActivityID   *string
	ActivityType       string
	Name               string
	StartTime          *time.Time
	EndTime            *time.Time
	Timezone           string
	Location           string
	Address            string
	Coordinates        *Coordinates
	Notes              string
	ConfirmationNumber string
	SequenceOrder      int
	Pricing            *PricingInput
}

// PricingInput holds optional pricing for a new activity. Amounts are
// integer cents; the commission split is numeric and converted to the
// stored decimal-string representation on write.
type PricingInput struct {
	TotalPriceCents        int64
	Currency               string
	TaxesCents             int64
	CommissionAmountCents  int64
	CommissionSplitPercent float64
	PricingType            string
}

// Service provides activity creation with per-type routing.
type Service struct {
	repo    Repository
	details DetailStore
	logger  zerolog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, details DetailStore, logger zerolog.Logger) *Service {
	return &Service{repo: repo, details: details, logger: logger}
}

// CreateFlight creates a flight activity with its detail record.
func (s *Service) CreateFlight(ctx context.Context, in CreateInput, d FlightDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentFlight, in, d)
}

// CreateLodging creates a lodging activity with its detail record.
func (s *Service) CreateLodging(ctx context.Context, in CreateInput, d LodgingDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentLodging, in, d)
}

// CreateTransportation creates a transportation activity with its detail record.
func (s *Service) CreateTransportation(ctx context.Context, in CreateInput, d TransportationDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentTransportation, in, d)
}

// CreateDining creates a dining activity with its detail record.
func (s *Service) CreateDining(ctx context.Context, in CreateInput, d DiningDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentDining, in, d)
}

// CreatePortInfo creates a port-info activity with its detail record.
func (s *Service) CreatePortInfo(ctx context.Context, in CreateInput, d PortInfoDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentPortInfo, in, d)
}

// CreateOptions creates an options activity with its detail record.
func (s *Service) CreateOptions(ctx context.Context, in CreateInput, d OptionsDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentOptions, in, d)
}

// CreateCustomCruise creates a custom-cruise activity with its detail record.
func (s *Service) CreateCustomCruise(ctx context.Context, in CreateInput, d CustomCruiseDetails) (string, error) {
	return s.createOrchestrated(ctx, ComponentCustomCruise, in, d)
}

// CreateBaseActivity creates an activity of any component type without a
// detail record. This is the generic path for tour, cruise, package, and any
// unrecognized component type.
func (s *Service) CreateBaseActivity(ctx context.Context, componentType ComponentType, in CreateInput) (string, error) {
	a := s.buildActivity(componentType, in)

	if err := s.repo.Create(ctx, a); err != nil {
		return "", err
	}

	if err := s.createPricing(ctx, a.ID, in.Pricing); err != nil {
		return "", err
	}

	return a.ID, nil
}

func (s *Service) createOrchestrated(ctx context.Context, componentType ComponentType, in CreateInput, d Details) (string, error) {
	a := s.buildActivity(componentType, in)

	if err := s.repo.Create(ctx, a); err != nil {
		return "", err
	}

	if err := s.createPricing(ctx, a.ID, in.Pricing); err != nil {
		return "", err
	}

	if err := s.details.Save(ctx, a.ID, d); err != nil {
		return "", err
	}

	s.logger.Debug().
		Str("activity_id", a.ID).
		Str("component_type", string(componentType)).
		Msg("activity created")

	return a.ID, nil
}

func (s *Service) buildActivity(componentType ComponentType, in CreateInput) *Activity {
	now := time.Now()

	activityType := in.ActivityType
	if activityType == "" {
		activityType = string(componentType)
	}

	return &Activity{
		ID:                 "act_" + uuid.New().String()[:22],
		AgencyID:           in.AgencyID,
		ItineraryDayID:     in.ItineraryDayID,
		ParentActivityID:   in.ParentActivityID,
		ComponentType:      componentType,
		ActivityType:       activityType,
		Name:               in.Name,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		Timezone:           in.Timezone,
		Location:           in.Location,
		Address:            in.Address,
		Coordinates:        in.Coordinates,
		Notes:              in.Notes,
		ConfirmationNumber: in.ConfirmationNumber,
		SequenceOrder:      in.SequenceOrder,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *Service) createPricing(ctx context.Context, activityID string, in *PricingInput) error {
	if in == nil {
		return nil
	}

	pricingType := in.PricingType
	if pricingType == "" {
		pricingType = PricingFlatRate
	}

	now := time.Now()
	return s.repo.CreatePricing(ctx, &Pricing{
		ActivityID:                activityID,
		TotalPriceCents:           in.TotalPriceCents,
		Currency:                  in.Currency,
		TaxesCents:                in.TaxesCents,
		CommissionAmountCents:     in.CommissionAmountCents,
		CommissionSplitPercentage: FormatCommissionSplit(in.CommissionSplitPercent),
		PricingType:               pricingType,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	})
}

// FormatCommissionSplit renders a numeric commission split as the stored
// decimal-string representation, e.g. 12.5 -> "12.50".
func FormatCommissionSplit(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 2, 64)
}

// ParseCommissionSplit converts the stored decimal string back to a numeric
// percentage. Empty strings parse to zero.
func ParseCommissionSplit(stored string) (float64, error) {
	if stored == "" {
		return 0, nil
	}
	return strconv.ParseFloat(stored, 64)
}
