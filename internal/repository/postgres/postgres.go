package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartcity/hotspots/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS traffic_observations (
		id             BIGSERIAL PRIMARY KEY,
		observed_at    TIMESTAMPTZ NOT NULL,
		location       TEXT        NOT NULL,
		traffic_volume INTEGER     NOT NULL CHECK (traffic_volume >= 0),
		avg_speed      DOUBLE PRECISION NOT NULL,
		signal_timing  INTEGER     NOT NULL,
		accidents      SMALLINT    NOT NULL,
		road_condition SMALLINT    NOT NULL,
		hour           SMALLINT    NOT NULL,
		day_of_week    SMALLINT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS traffic_observations_observed_at_idx
		ON traffic_observations (observed_at);
`

// dbPool is the subset of *pgxpool.Pool the repository uses
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
}

// PostgresRepository implements domain.ObservationRepository
type PostgresRepository struct {
	pool dbPool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(p *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: p}
}

// EnsureSchema creates the observation table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SaveObservations bulk-loads observations with COPY
func (r *PostgresRepository) SaveObservations(ctx context.Context, obs []domain.Observation) (int64, error) {
	columns := []string{
		"observed_at", "location", "traffic_volume", "avg_speed", "signal_timing",
		"accidents", "road_condition", "hour", "day_of_week",
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"traffic_observations"},
		columns,
		pgx.CopyFromSlice(len(obs), func(i int) ([]any, error) {
			o := obs[i]
			return []any{
				o.Timestamp, string(o.Location), o.TrafficVolume, o.AvgSpeed, o.SignalTiming,
				o.Accidents, o.RoadCondition, o.Hour, o.DayOfWeek,
			}, nil
		}),
	)
	if err != nil {
		return n, fmt.Errorf("postgres: failed to save observations: %w", err)
	}

	return n, nil
}

// ListObservations retrieves observations in [from, to) in insertion order
func (r *PostgresRepository) ListObservations(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	query := `
		SELECT observed_at, location, traffic_volume, avg_speed, signal_timing,
			   accidents, road_condition, hour, day_of_week
		FROM traffic_observations
		WHERE observed_at >= $1 AND observed_at < $2
		ORDER BY observed_at, id
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query observations: %w", err)
	}
	defer rows.Close()

	var results []domain.Observation
	for rows.Next() {
		var (
			o   domain.Observation
			loc string
		)
		err := rows.Scan(
			&o.Timestamp, &loc, &o.TrafficVolume, &o.AvgSpeed, &o.SignalTiming,
			&o.Accidents, &o.RoadCondition, &o.Hour, &o.DayOfWeek,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan observation row: %w", err)
		}
		o.Location = domain.Location(loc)
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate observations: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
