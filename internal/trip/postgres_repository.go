package trip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, user_id, label, origin, destination, transport_mode,
	original_duration_minutes, last_predicted_minutes, active,
	created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*MonitoredTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM monitored_trips WHERE id = $1`
	return r.scanTrip(ctx, query, id)
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, tripID string) (*MonitoredTrip, error) {
	query := `SELECT ` + tripColumns + ` FROM monitored_trips WHERE id = $1 AND user_id = $2`
	return r.scanTrip(ctx, query, tripID, userID)
}

// scanTrip scans a trip from a query result.
func (r *PostgresRepository) scanTrip(ctx context.Context, query string, args ...interface{}) (*MonitoredTrip, error) {
	var t MonitoredTrip

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&t.ID,
		&t.UserID,
		&t.Label,
		&t.Origin,
		&t.Destination,
		&t.TransportMode,
		&t.OriginalDurationMinutes,
		&t.LastPredictedMinutes,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &t, nil
}

// List retrieves all trips for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + tripColumns + `
		FROM monitored_trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: trips,
	}

	if len(trips) > limit {
		result.Items = trips[:limit]
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// ListActive retrieves all active trips across users.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*MonitoredTrip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM monitored_trips
		WHERE active
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrips(rows)
}

func collectTrips(rows pgx.Rows) ([]*MonitoredTrip, error) {
	var trips []*MonitoredTrip
	for rows.Next() {
		var t MonitoredTrip
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Label,
			&t.Origin,
			&t.Destination,
			&t.TransportMode,
			&t.OriginalDurationMinutes,
			&t.LastPredictedMinutes,
			&t.Active,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, t *MonitoredTrip) error {
	query := `
		INSERT INTO monitored_trips (
			id, user_id, label, origin, destination, transport_mode,
			original_duration_minutes, last_predicted_minutes, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Label,
		t.Origin,
		t.Destination,
		t.TransportMode,
		t.OriginalDurationMinutes,
		t.LastPredictedMinutes,
		t.Active,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, t *MonitoredTrip) error {
	query := `
		UPDATE monitored_trips SET
			label = $2,
			origin = $3,
			destination = $4,
			transport_mode = $5,
			original_duration_minutes = $6,
			last_predicted_minutes = $7,
			active = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Label,
		t.Origin,
		t.Destination,
		t.TransportMode,
		t.OriginalDurationMinutes,
		t.LastPredictedMinutes,
		t.Active,
		t.UpdatedAt,
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
	query := `DELETE FROM monitored_trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
