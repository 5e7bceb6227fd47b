package dormancy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const scanTimeout = 10 * time.Minute

// Scheduler runs the dormancy sweep on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	scanner *Scanner
	logger  *slog.Logger
}

// NewScheduler registers the sweep under the given cron expression
// (standard five-field syntax, e.g. "0 1 * * *" for 01:00 daily).
func NewScheduler(scanner *Scanner, schedule string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		scanner: scanner,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid dormancy schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if err := s.scanner.Scan(ctx); err != nil {
		s.logger.Error("scheduled dormancy scan failed", slog.Any("error", err))
	}
}

// Start launches the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("dormancy scheduler started")
}

// Shutdown stops the schedule and waits for an in-flight sweep to
// finish, or for ctx to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("dormancy scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
