package trip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripfolio/tripfolio/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) querier(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

const tripColumns = `
	id, agency_id, name, client_name, start_date, end_date, status, notes,
	created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanTrip(ctx, query, id)
}

// GetByAgencyAndID retrieves a trip scoped to an agency.
func (r *PostgresRepository) GetByAgencyAndID(ctx context.Context, agencyID, tripID string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND agency_id = $2`
	return r.scanTrip(ctx, query, tripID, agencyID)
}

func (r *PostgresRepository) scanTrip(ctx context.Context, query string, args ...any) (*Trip, error) {
	var t Trip
	err := r.querier(ctx).QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.AgencyID, &t.Name, &t.ClientName,
		&t.StartDate, &t.EndDate, &t.Status, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List retrieves all trips for an agency with pagination.
func (r *PostgresRepository) List(ctx context.Context, agencyID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE agency_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.querier(ctx).Query(ctx, query, agencyID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		var t Trip
		err := rows.Scan(
			&t.ID, &t.AgencyID, &t.Name, &t.ClientName,
			&t.StartDate, &t.EndDate, &t.Status, &t.Notes,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: trips}
	if len(trips) > limit {
		result.Items = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	query := `
		INSERT INTO trips (
			id, agency_id, name, client_name, start_date, end_date, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		t.ID, t.AgencyID, t.Name, t.ClientName,
		t.StartDate, t.EndDate, t.Status, t.Notes,
		t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, t *Trip) error {
	query := `
		UPDATE trips SET
			name = $2,
			client_name = $3,
			start_date = $4,
			end_date = $5,
			status = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $1
	`

	result, err := r.querier(ctx).Exec(ctx, query,
		t.ID, t.Name, t.ClientName, t.StartDate, t.EndDate,
		t.Status, t.Notes, t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.querier(ctx).Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
