package domain

import (
	"context"
	"time"
)

// ObservationRepository defines the interface for the observation source
// This follows the Dependency Inversion Principle - domain defines the interface
type ObservationRepository interface {
	// SaveObservations persists a batch of observations
	SaveObservations(ctx context.Context, obs []Observation) (int64, error)

	// ListObservations retrieves observations with from <= timestamp < to
	ListObservations(ctx context.Context, from, to time.Time) ([]Observation, error)

	// Health checks connectivity
	Health(ctx context.Context) error
}
