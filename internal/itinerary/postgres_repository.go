package itinerary

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripfolio/tripfolio/internal/database"
	"github.com/tripfolio/tripfolio/pkg/dateutil"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL itinerary repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) querier(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

// CreateItinerary creates a new itinerary.
func (r *PostgresRepository) CreateItinerary(ctx context.Context, itn *Itinerary) error {
	query := `
		INSERT INTO itineraries (id, trip_id, agency_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		itn.ID, itn.TripID, itn.AgencyID, itn.Name, itn.Status,
		itn.CreatedAt, itn.UpdatedAt,
	)
	return err
}

// GetItinerary retrieves an itinerary by ID.
func (r *PostgresRepository) GetItinerary(ctx context.Context, id string) (*Itinerary, error) {
	query := `
		SELECT id, trip_id, agency_id, name, status, created_at, updated_at
		FROM itineraries
		WHERE id = $1
	`

	var itn Itinerary
	err := r.querier(ctx).QueryRow(ctx, query, id).Scan(
		&itn.ID, &itn.TripID, &itn.AgencyID, &itn.Name, &itn.Status,
		&itn.CreatedAt, &itn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}
	return &itn, nil
}

const dayColumns = `id, itinerary_id, day_number, date, sequence_order, title, created_at, updated_at`

// ListDays retrieves all days of an itinerary ordered by sequence.
func (r *PostgresRepository) ListDays(ctx context.Context, itineraryID string) ([]*Day, error) {
	query := `
		SELECT ` + dayColumns + `
		FROM itinerary_days
		WHERE itinerary_id = $1
		ORDER BY sequence_order, day_number
	`

	rows, err := r.querier(ctx).Query(ctx, query, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// GetDay retrieves a day by ID.
func (r *PostgresRepository) GetDay(ctx context.Context, dayID string) (*Day, error) {
	query := `SELECT ` + dayColumns + ` FROM itinerary_days WHERE id = $1`

	day, err := scanDay(r.querier(ctx).QueryRow(ctx, query, dayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

// FindOrCreateByDate returns the day with the given date, creating it if
// absent. The unique index on (itinerary_id, date) makes concurrent calls
// converge on one row.
func (r *PostgresRepository) FindOrCreateByDate(ctx context.Context, itineraryID string, date time.Time) (*Day, error) {
	date = dateutil.Truncate(date)

	existing, err := r.getDayByDate(ctx, itineraryID, date)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrDayNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO itinerary_days (id, itinerary_id, day_number, date, sequence_order, title, created_at, updated_at)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(day_number), 0) + 1 FROM itinerary_days WHERE itinerary_id = $2),
			$3,
			(SELECT COALESCE(MAX(sequence_order), 0) + 1 FROM itinerary_days WHERE itinerary_id = $2),
			'', now(), now()
		)
		ON CONFLICT (itinerary_id, date) DO UPDATE SET updated_at = now()
		RETURNING ` + dayColumns

	day, err := scanDay(r.querier(ctx).QueryRow(ctx, query, newDayID(), itineraryID, date))
	if err != nil {
		return nil, err
	}
	return day, nil
}

// FindOrCreateByDateRange bulk-resolves days for the given dates.
func (r *PostgresRepository) FindOrCreateByDateRange(ctx context.Context, itineraryID string, dates []time.Time) ([]*Day, error) {
	days := make([]*Day, 0, len(dates))
	for _, date := range dates {
		day, err := r.FindOrCreateByDate(ctx, itineraryID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// CreateDay creates a day directly.
func (r *PostgresRepository) CreateDay(ctx context.Context, in CreateDayInput) (*Day, error) {
	query := `
		INSERT INTO itinerary_days (id, itinerary_id, day_number, date, sequence_order, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING ` + dayColumns

	day, err := scanDay(r.querier(ctx).QueryRow(ctx, query,
		newDayID(), in.ItineraryID, in.DayNumber, in.Date, in.SequenceOrder, in.Title,
	))
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (r *PostgresRepository) getDayByDate(ctx context.Context, itineraryID string, date time.Time) (*Day, error) {
	query := `SELECT ` + dayColumns + ` FROM itinerary_days WHERE itinerary_id = $1 AND date = $2`

	day, err := scanDay(r.querier(ctx).QueryRow(ctx, query, itineraryID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return day, nil
}

func scanDay(row pgx.Row) (*Day, error) {
	var day Day
	err := row.Scan(
		&day.ID, &day.ItineraryID, &day.DayNumber, &day.Date,
		&day.SequenceOrder, &day.Title, &day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func newDayID() string {
	return "day_" + uuid.New().String()[:22]
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
