package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripfolio/tripfolio/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL activity repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) querier(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

const activityColumns = `
	id, agency_id, itinerary_day_id, parent_activity_id,
	component_type, activity_type, name,
	start_time, end_time, timezone,
	location, address, coord_lat, coord_lon,
	notes, confirmation_number, sequence_order,
	created_at, updated_at
`

// Get retrieves an activity by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	a, err := scanActivity(r.querier(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return a, nil
}

// Create creates a new activity.
func (r *PostgresRepository) Create(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activities (
			id, agency_id, itinerary_day_id, parent_activity_id,
			component_type, activity_type, name,
			start_time, end_time, timezone,
			location, address, coord_lat, coord_lon,
			notes, confirmation_number, sequence_order,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	var lat, lon *float64
	if a.Coordinates != nil {
		lat = &a.Coordinates.Lat
		lon = &a.Coordinates.Lon
	}

	_, err := r.querier(ctx).Exec(ctx, query,
		a.ID, a.AgencyID, a.ItineraryDayID, a.ParentActivityID,
		a.ComponentType, a.ActivityType, a.Name,
		a.StartTime, a.EndTime, a.Timezone,
		a.Location, a.Address, lat, lon,
		a.Notes, a.ConfirmationNumber, a.SequenceOrder,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// ListByDayIDs retrieves all activities attached to the given days.
func (r *PostgresRepository) ListByDayIDs(ctx context.Context, dayIDs []string) ([]*Activity, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE itinerary_day_id = ANY($1)
		ORDER BY itinerary_day_id, sequence_order
	`

	return r.listActivities(ctx, query, dayIDs)
}

// ListChildren retrieves the direct children of a parent activity.
func (r *PostgresRepository) ListChildren(ctx context.Context, parentActivityID string) ([]*Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE parent_activity_id = $1
		ORDER BY sequence_order
	`

	return r.listActivities(ctx, query, parentActivityID)
}

func (r *PostgresRepository) listActivities(ctx context.Context, query string, args ...any) ([]*Activity, error) {
	rows, err := r.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

func scanActivity(row pgx.Row) (*Activity, error) {
	var (
		a        Activity
		lat, lon *float64
	)

	err := row.Scan(
		&a.ID, &a.AgencyID, &a.ItineraryDayID, &a.ParentActivityID,
		&a.ComponentType, &a.ActivityType, &a.Name,
		&a.StartTime, &a.EndTime, &a.Timezone,
		&a.Location, &a.Address, &lat, &lon,
		&a.Notes, &a.ConfirmationNumber, &a.SequenceOrder,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lon != nil {
		a.Coordinates = &Coordinates{Lat: *lat, Lon: *lon}
	}
	return &a, nil
}

// CreatePricing creates a pricing row for an activity.
func (r *PostgresRepository) CreatePricing(ctx context.Context, p *Pricing) error {
	query := `
		INSERT INTO activity_pricing (
			activity_id, total_price_cents, currency, taxes_cents,
			commission_amount_cents, commission_split_percentage, pricing_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		p.ActivityID, p.TotalPriceCents, p.Currency, p.TaxesCents,
		p.CommissionAmountCents, p.CommissionSplitPercentage, p.PricingType,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// ListPricingByActivityIDs retrieves pricing for the given activities in one
// batch.
func (r *PostgresRepository) ListPricingByActivityIDs(ctx context.Context, activityIDs []string) (map[string]*Pricing, error) {
	if len(activityIDs) == 0 {
		return map[string]*Pricing{}, nil
	}

	query := `
		SELECT
			activity_id, total_price_cents, currency, taxes_cents,
			commission_amount_cents, commission_split_percentage, pricing_type,
			created_at, updated_at
		FROM activity_pricing
		WHERE activity_id = ANY($1)
	`

	rows, err := r.querier(ctx).Query(ctx, query, activityIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*Pricing)
	for rows.Next() {
		var p Pricing
		err := rows.Scan(
			&p.ActivityID, &p.TotalPriceCents, &p.Currency, &p.TaxesCents,
			&p.CommissionAmountCents, &p.CommissionSplitPercentage, &p.PricingType,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result[p.ActivityID] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)

// detailTables maps orchestrated component types to their detail tables.
// Each table holds (activity_id, data jsonb, created_at, updated_at); the
// typed detail struct round-trips through the jsonb column, so identifier
// and audit columns never leak into serialized details.
var detailTables = map[ComponentType]string{
	ComponentFlight:         "activity_flight_details",
	ComponentLodging:        "activity_lodging_details",
	ComponentTransportation: "activity_transportation_details",
	ComponentDining:         "activity_dining_details",
	ComponentPortInfo:       "activity_port_info_details",
	ComponentOptions:        "activity_options_details",
	ComponentCustomCruise:   "activity_custom_cruise_details",
}

// PostgresDetailStore is a PostgreSQL implementation of DetailStore.
type PostgresDetailStore struct {
	pool *pgxpool.Pool
}

// NewPostgresDetailStore creates a new PostgreSQL detail store.
func NewPostgresDetailStore(pool *pgxpool.Pool) *PostgresDetailStore {
	return &PostgresDetailStore{pool: pool}
}

func (s *PostgresDetailStore) querier(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, s.pool)
}

// ListByActivityIDs retrieves detail records of one component type in batch.
func (s *PostgresDetailStore) ListByActivityIDs(ctx context.Context, kind ComponentType, activityIDs []string) (map[string]Details, error) {
	table, ok := detailTables[kind]
	if !ok {
		return nil, fmt.Errorf("component type %q has no detail table", kind)
	}
	if len(activityIDs) == 0 {
		return map[string]Details{}, nil
	}

	query := `SELECT activity_id, data FROM ` + table + ` WHERE activity_id = ANY($1)`

	rows, err := s.querier(ctx).Query(ctx, query, activityIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]Details)
	for rows.Next() {
		var (
			activityID string
			raw        json.RawMessage
		)
		if err := rows.Scan(&activityID, &raw); err != nil {
			return nil, err
		}

		d, err := DecodeDetails(kind, raw)
		if err != nil {
			return nil, err
		}
		result[activityID] = d
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save writes the detail record for an activity.
func (s *PostgresDetailStore) Save(ctx context.Context, activityID string, d Details) error {
	table, ok := detailTables[d.Kind()]
	if !ok {
		return fmt.Errorf("component type %q has no detail table", d.Kind())
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding %s details: %w", d.Kind(), err)
	}

	query := `
		INSERT INTO ` + table + ` (activity_id, data, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (activity_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`

	_, err = s.querier(ctx).Exec(ctx, query, activityID, data)
	return err
}

// Ensure PostgresDetailStore implements DetailStore interface.
var _ DetailStore = (*PostgresDetailStore)(nil)
