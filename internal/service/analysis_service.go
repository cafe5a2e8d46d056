package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartcity/hotspots/internal/analysis"
	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/internal/logger"
)

// AnalysisService loads observations and runs the hotspot pipeline
type AnalysisService struct {
	repo   ObservationRepository
	logger logger.Logger
	opts   analysis.ClassifierOptions
	from   time.Time
	to     time.Time
	maxAge time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	snapshot *domain.Report
}

// NewAnalysisService creates a service analysing observations in [from, to).
// A cached snapshot older than maxAge is recomputed; zero keeps it until Refresh.
func NewAnalysisService(
	repo ObservationRepository,
	log logger.Logger,
	from, to time.Time,
	maxAge time.Duration,
) *AnalysisService {
	return &AnalysisService{
		repo:   repo,
		logger: log.WithField("component", "analysis_service"),
		opts:   analysis.DefaultClassifierOptions(),
		from:   from,
		to:     to,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Analyze runs the pipeline over the given window without touching the snapshot
func (s *AnalysisService) Analyze(ctx context.Context, from, to time.Time) (domain.Report, error) {
	start := s.now()

	obs, err := s.repo.ListObservations(ctx, from, to)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analysis_service: failed to load observations: %w", err)
	}
	s.logger.Debugf("Loaded %d observations between %s and %s", len(obs), from.Format(time.RFC3339), to.Format(time.RFC3339))

	report, err := analysis.Run(obs, s.opts)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analysis_service: %w", err)
	}

	report.ID = uuid.NewString()
	report.GeneratedAt = s.now()
	report.From = from
	report.To = to

	for _, w := range report.Warnings {
		s.logger.Warnf("Skipped row: %s", w)
	}
	s.logger.Infof("Analysis %s: %d observations, %d hotspots, %d recommendations in %v",
		report.ID, report.ObservationCount, len(report.Classification.Hotspots),
		len(report.Recommendations), s.now().Sub(start))

	return report, nil
}

// Refresh recomputes the snapshot for the configured window
func (s *AnalysisService) Refresh(ctx context.Context) (domain.Report, error) {
	report, err := s.Analyze(ctx, s.from, s.to)
	if err != nil {
		return domain.Report{}, err
	}

	s.mu.Lock()
	s.snapshot = &report
	s.mu.Unlock()

	return report, nil
}

// Snapshot returns the cached report, refreshing it when missing or stale
func (s *AnalysisService) Snapshot(ctx context.Context) (domain.Report, error) {
	s.mu.RLock()
	cached := s.snapshot
	s.mu.RUnlock()

	if cached != nil && (s.maxAge == 0 || s.now().Sub(cached.GeneratedAt) < s.maxAge) {
		return *cached, nil
	}
	return s.Refresh(ctx)
}

// Health checks the observation source
func (s *AnalysisService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}
