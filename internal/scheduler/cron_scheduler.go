package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smartcity/hotspots/internal/logger"
)

// Task is a unit of periodic work
type Task func(ctx context.Context) error

// Scheduler runs tasks on a fixed interval until stopped
type Scheduler interface {
	Schedule(ctx context.Context, interval time.Duration, task Task) error
	Stop()
}

// CronScheduler implements Scheduler on robfig/cron. Each run gets its own
// timeout and runs are skipped once the scheduling context is done.
type CronScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logger.Logger

	mu      sync.Mutex
	started bool
	cancels []context.CancelFunc
}

// NewCronScheduler creates a scheduler whose runs are bounded by timeout
func NewCronScheduler(timeout time.Duration, log logger.Logger) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(cron.WithSeconds()),
		timeout: timeout,
		logger:  log.WithField("component", "cron_scheduler"),
	}
}

// Schedule registers task to run every interval and starts the cron loop
func (s *CronScheduler) Schedule(ctx context.Context, interval time.Duration, task Task) error {
	spec := intervalToCron(interval)
	s.logger.Debugf("Converted interval %v to cron expression: %s", interval, spec)

	taskCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(spec, s.wrapTask(taskCtx, task))
	if err != nil {
		cancel()
		return fmt.Errorf("scheduler: failed to add task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, cancel)
	if !s.started {
		s.cron.Start()
		s.started = true
		s.logger.Info("Cron scheduler started")
	}

	s.logger.Infof("Task scheduled every %v with entry ID: %d", interval, entryID)
	return nil
}

func (s *CronScheduler) wrapTask(ctx context.Context, task Task) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		startTime := time.Now()

		taskCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := task(taskCtx); err != nil {
			s.logger.Errorf("Task failed: %v", err)
			return
		}

		s.logger.Debugf("Task completed successfully in %v", time.Since(startTime))
	}
}

// Stop cancels pending runs and waits for running ones to finish
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

// intervalToCron maps an interval onto a six-field cron spec. Intervals below
// ten seconds are raised to ten.
func intervalToCron(interval time.Duration) string {
	if interval <= 0 {
		return "0 */15 * * * *"
	}
	seconds := int(interval.Seconds())
	if seconds < 10 {
		seconds = 10
	}
	return fmt.Sprintf("@every %ds", seconds)
}
