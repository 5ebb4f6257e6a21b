package template

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

// NewPostgresRepository creates a new PostgreSQL template repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) querier(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

const templateColumns = `
	id, agency_id, created_by_user_id, scope, kind, name, description, payload,
	created_at, updated_at
`

// Create persists a new template.
func (r *PostgresRepository) Create(ctx context.Context, t *TripTemplate) error {
	query := `
		INSERT INTO trip_templates (
			id, agency_id, created_by_user_id, scope, kind, name, description, payload,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		t.ID, t.AgencyID, t.CreatedByUserID, t.Scope, t.Kind,
		t.Name, t.Description, t.Payload,
		t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// GetByAgencyAndID retrieves a template scoped to an agency.
func (r *PostgresRepository) GetByAgencyAndID(ctx context.Context, agencyID, templateID string) (*TripTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM trip_templates WHERE id = $1 AND agency_id = $2`

	var t TripTemplate
	err := r.querier(ctx).QueryRow(ctx, query, templateID, agencyID).Scan(
		&t.ID, &t.AgencyID, &t.CreatedByUserID, &t.Scope, &t.Kind,
		&t.Name, &t.Description, &t.Payload,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List retrieves the templates visible to a user within an agency.
func (r *PostgresRepository) List(ctx context.Context, agencyID, userID string, filter ListFilter) ([]*TripTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM trip_templates
		WHERE agency_id = $1
		  AND (scope = 'agency' OR created_by_user_id = $2)
		  AND ($3 = '' OR kind = $3)
		ORDER BY updated_at DESC
	`

	rows, err := r.querier(ctx).Query(ctx, query, agencyID, userID, string(filter.Kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*TripTemplate
	for rows.Next() {
		var t TripTemplate
		err := rows.Scan(
			&t.ID, &t.AgencyID, &t.CreatedByUserID, &t.Scope, &t.Kind,
			&t.Name, &t.Description, &t.Payload,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// Update persists name, description, and updated_at changes.
func (r *PostgresRepository) Update(ctx context.Context, t *TripTemplate) error {
	query := `
		UPDATE trip_templates SET
			name = $2,
			description = $3,
			updated_at = $4
		WHERE id = $1
	`

	result, err := r.querier(ctx).Exec(ctx, query, t.ID, t.Name, t.Description, t.UpdatedAt)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template by ID.
func (r *PostgresRepository) Delete(ctx context.Context, templateID string) error {
	query := `DELETE FROM trip_templates WHERE id = $1`

	result, err := r.querier(ctx).Exec(ctx, query, templateID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
