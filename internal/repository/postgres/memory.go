package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/generator"
)

// MemoryRepository implements domain.ObservationRepository in memory.
// It stands in for PostgreSQL when no database is configured.
type MemoryRepository struct {
	mu  sync.RWMutex
	obs []domain.Observation
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewGeneratorRepository creates an in-memory repository pre-filled with synthetic data
func NewGeneratorRepository(cfg generator.Config) *MemoryRepository {
	return &MemoryRepository{obs: generator.Generate(cfg)}
}

// SaveObservations appends observations
func (r *MemoryRepository) SaveObservations(ctx context.Context, obs []domain.Observation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, obs...)
	return int64(len(obs)), nil
}

// ListObservations returns observations in [from, to); a zero bound is open
func (r *MemoryRepository) ListObservations(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []domain.Observation
	for _, o := range r.obs {
		if !from.IsZero() && o.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !o.Timestamp.Before(to) {
			continue
		}
		results = append(results, o)
	}
	return results, nil
}

// Health always returns nil in memory mode
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}
