package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// Validation constants.
const (
	MaxNameLength  = 120
	MaxNotesLength = 2000
)

// Service provides trip operations.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all trips for an agency.
func (s *Service) List(ctx context.Context, agencyID string, limit int) (*models.PagedTrips, error) {
	result, err := s.repo.List(ctx, agencyID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID for an agency.
func (s *Service) Get(ctx context.Context, agencyID, tripID string) (*models.Trip, error) {
	t, err := s.repo.GetByAgencyAndID(ctx, agencyID, tripID)
	if err != nil {
		return nil, err
	}

	result := toAPITrip(t)
	return &result, nil
}

// Create creates a new trip for an agency.
func (s *Service) Create(ctx context.Context, agencyID string, input *models.TripCreateRequest) (*models.Trip, error) {
	fieldErrors, startDate, endDate := s.validateCreateInput(input)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	t := &Trip{
		ID:         "trp_" + uuid.New().String()[:22],
		AgencyID:   agencyID,
		Name:       input.Name,
		ClientName: input.ClientName,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     StatusPlanning,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	result := toAPITrip(t)
	return &result, nil
}

// Delete deletes a trip for an agency.
func (s *Service) Delete(ctx context.Context, agencyID, tripID string) error {
	if _, err := s.repo.GetByAgencyAndID(ctx, agencyID, tripID); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return ErrTripNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, tripID)
}

func (s *Service) validateCreateInput(input *models.TripCreateRequest) ([]models.FieldError, *time.Time, *time.Time) {
	var errs []models.FieldError

	if input.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
	}

	if len(input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 2000 characters"})
	}

	var startDate, endDate *time.Time
	if input.StartDate != nil {
		parsed, err := dateutil.ParseDate(*input.StartDate)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "startDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			startDate = &parsed
		}
	}
	if input.EndDate != nil {
		parsed, err := dateutil.ParseDate(*input.EndDate)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "endDate", Message: "must be in YYYY-MM-DD format"})
		} else {
			endDate = &parsed
		}
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "must not precede startDate"})
	}

	return errs, startDate, endDate
}

func toAPITrip(t *Trip) models.Trip {
	out := models.Trip{
		ID:         t.ID,
		Name:       t.Name,
		ClientName: t.ClientName,
		Status:     string(t.Status),
		Notes:      t.Notes,
		CreatedAt:  models.Timestamp(t.CreatedAt),
		UpdatedAt:  models.Timestamp(t.UpdatedAt),
	}
	if t.StartDate != nil {
		d := t.StartDate.Format(dateutil.DateLayout)
		out.StartDate = &d
	}
	if t.EndDate != nil {
		d := t.EndDate.Format(dateutil.DateLayout)
		out.EndDate = &d
	}
	return out
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
