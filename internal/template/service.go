package template

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// Validation constants.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
)

// Service provides template library operations: saving live itineraries and
// packages as templates and applying stored templates onto new targets.
type Service struct {
	repo      Repository
	extractor *Extractor
	applier   *Applier
	logger    zerolog.Logger
}

// NewService creates a new template service.
func NewService(repo Repository, extractor *Extractor, applier *Applier, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		applier:   applier,
		logger:    logger,
	}
}

// SaveItineraryTemplate extracts an itinerary and stores it in the library.
func (s *Service) SaveItineraryTemplate(ctx context.Context, actor Actor, req *models.TemplateFromItineraryRequest) (*models.TripTemplate, error) {
	scope, fieldErrors := validateSaveFields(req.Name, req.Description, req.Scope)
	if req.ItineraryID == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "itineraryId", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}
	if scope == ScopeAgency && !actor.Admin {
		return nil, ErrForbidden
	}

	payload, err := s.extractor.ExtractItinerary(ctx, actor.AgencyID, req.ItineraryID)
	if err != nil {
		return nil, err
	}

	return s.store(ctx, actor, KindItinerary, scope, req.Name, req.Description, payload)
}

// SavePackageTemplate extracts a package activity subtree and stores it in
// the library.
func (s *Service) SavePackageTemplate(ctx context.Context, actor Actor, req *models.TemplateFromPackageRequest) (*models.TripTemplate, error) {
	scope, fieldErrors := validateSaveFields(req.Name, req.Description, req.Scope)
	if req.PackageActivityID == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "packageActivityId", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}
	if scope == ScopeAgency && !actor.Admin {
		return nil, ErrForbidden
	}

	payload, err := s.extractor.ExtractPackage(ctx, actor.AgencyID, req.PackageActivityID)
	if err != nil {
		return nil, err
	}

	return s.store(ctx, actor, KindPackage, scope, req.Name, req.Description, payload)
}

func (s *Service) store(ctx context.Context, actor Actor, kind Kind, scope Scope, name, description string, payload any) (*models.TripTemplate, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding template payload: %w", err)
	}

	now := time.Now()
	t := &TripTemplate{
		ID:              "tpl_" + uuid.New().String()[:22],
		AgencyID:        actor.AgencyID,
		CreatedByUserID: actor.UserID,
		Scope:           scope,
		Kind:            kind,
		Name:            name,
		Description:     description,
		Payload:         raw,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("template_id", t.ID).
		Str("kind", string(kind)).
		Str("scope", string(scope)).
		Msg("template saved")

	result := toAPITemplate(t)
	return &result, nil
}

// ApplyToTrip applies an itinerary template onto a trip, producing a new
// draft itinerary.
func (s *Service) ApplyToTrip(ctx context.Context, actor Actor, tripID string, req *models.ApplyToTripRequest) (*models.TemplateApplyResult, error) {
	t, err := s.visibleTemplate(ctx, actor, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if t.Kind != KindItinerary {
		return nil, ErrKindMismatch
	}

	var payload ItineraryPayload
	if err := json.Unmarshal(t.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadIncomplete, err)
	}

	var anchorOverride *time.Time
	if req.AnchorDate != nil {
		parsed, err := dateutil.ParseDate(*req.AnchorDate)
		if err != nil {
			return nil, &ValidationError{Errors: []models.FieldError{
				{Field: "anchorDate", Message: "must be in YYYY-MM-DD format"},
			}}
		}
		anchorOverride = &parsed
	}

	name := req.Name
	if name == "" {
		name = t.Name
	}

	itineraryID, err := s.applier.ApplyItinerary(ctx, actor.AgencyID, tripID, &payload, name, anchorOverride)
	if err != nil {
		return nil, err
	}

	return &models.TemplateApplyResult{ItineraryID: itineraryID}, nil
}

// ApplyToItinerary applies a package template onto an itinerary at the
// given anchor day.
func (s *Service) ApplyToItinerary(ctx context.Context, actor Actor, itineraryID string, req *models.ApplyToItineraryRequest) (*models.TemplateApplyResult, error) {
	t, err := s.visibleTemplate(ctx, actor, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if t.Kind != KindPackage {
		return nil, ErrKindMismatch
	}

	var payload PackagePayload
	if err := json.Unmarshal(t.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadIncomplete, err)
	}

	packageID, err := s.applier.ApplyPackage(ctx, actor.AgencyID, itineraryID, &payload, req.AnchorDayID)
	if err != nil {
		return nil, err
	}

	return &models.TemplateApplyResult{
		ItineraryID:       itineraryID,
		PackageActivityID: &packageID,
	}, nil
}

// List returns the templates visible to the actor.
func (s *Service) List(ctx context.Context, actor Actor, kind string) (*models.TemplateList, error) {
	filter := ListFilter{}
	switch Kind(kind) {
	case "", KindItinerary, KindPackage:
		filter.Kind = Kind(kind)
	default:
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "kind", Message: "must be itinerary or package"},
		}}
	}

	templates, err := s.repo.List(ctx, actor.AgencyID, actor.UserID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]models.TripTemplate, 0, len(templates))
	for _, t := range templates {
		items = append(items, toAPITemplate(t))
	}
	return &models.TemplateList{Items: items}, nil
}

// Get returns a single template including its payload.
func (s *Service) Get(ctx context.Context, actor Actor, templateID string) (*models.TripTemplateDetail, error) {
	t, err := s.visibleTemplate(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}

	return &models.TripTemplateDetail{
		TripTemplate: toAPITemplate(t),
		Payload:      t.Payload,
	}, nil
}

// Update edits a template's name or description.
func (s *Service) Update(ctx context.Context, actor Actor, templateID string, req *models.TemplateUpdateRequest) (*models.TripTemplate, error) {
	t, err := s.visibleTemplate(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}
	if !t.EditableBy(actor) {
		return nil, ErrForbidden
	}

	var fieldErrors []models.FieldError
	if req.Name != nil {
		if *req.Name == "" {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "name", Message: "must not be empty"})
		} else if len(*req.Name) > MaxNameLength {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
		}
	}
	if req.Description != nil && len(*req.Description) > MaxDescriptionLength {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	result := toAPITemplate(t)
	return &result, nil
}

// Delete removes a template from the library.
func (s *Service) Delete(ctx context.Context, actor Actor, templateID string) error {
	t, err := s.visibleTemplate(ctx, actor, templateID)
	if err != nil {
		return err
	}
	if !t.EditableBy(actor) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, t.ID)
}

// visibleTemplate fetches a template and hides its existence from actors
// who cannot see it.
func (s *Service) visibleTemplate(ctx context.Context, actor Actor, templateID string) (*TripTemplate, error) {
	t, err := s.repo.GetByAgencyAndID(ctx, actor.AgencyID, templateID)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(actor) {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

func validateSaveFields(name, description, scope string) (Scope, []models.FieldError) {
	var errs []models.FieldError

	if name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
	}
	if len(description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	resolved := ScopeUser
	switch Scope(scope) {
	case "":
	case ScopeUser:
	case ScopeAgency:
		resolved = ScopeAgency
	default:
		errs = append(errs, models.FieldError{Field: "scope", Message: "must be agency or user"})
	}

	return resolved, errs
}

func toAPITemplate(t *TripTemplate) models.TripTemplate {
	return models.TripTemplate{
		ID:          t.ID,
		Scope:       string(t.Scope),
		Kind:        string(t.Kind),
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedByUserID,
		CreatedAt:   models.Timestamp(t.CreatedAt),
		UpdatedAt:   models.Timestamp(t.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
