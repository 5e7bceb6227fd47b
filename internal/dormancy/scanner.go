// Package dormancy scans for inactive accounts and triggers
// re-engagement notifications.
package dormancy

import (
	"context"
	"log/slog"
	"time"

	"github.com/hideout/hideout/internal/model"
)

// Store lists accounts by last recorded activity.
type Store interface {
	FindDormantBefore(ctx context.Context, cutoff time.Time) ([]*model.User, error)
}

// Notifier delivers a re-engagement message to a single account.
type Notifier interface {
	NotifyDormant(ctx context.Context, user *model.User) error
}

// Scanner runs the dormant-account sweep.
type Scanner struct {
	store     Store
	notifier  Notifier
	threshold time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewScanner(store Store, notifier Notifier, threshold time.Duration, logger *slog.Logger) *Scanner {
	return &Scanner{
		store:     store,
		notifier:  notifier,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// Scan notifies every account whose last activity predates the
// configured threshold. Accounts are processed one at a time; a failed
// notification is logged and the sweep moves on to the next account.
func (s *Scanner) Scan(ctx context.Context) error {
	cutoff := s.now().Add(-s.threshold)

	users, err := s.store.FindDormantBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("dormancy scan: listing accounts failed", slog.Any("error", err))
		return err
	}

	notified := 0
	failed := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("dormancy scan interrupted",
				slog.Int("notified", notified),
				slog.Any("error", err),
			)
			return err
		}

		if err := s.notifier.NotifyDormant(ctx, user); err != nil {
			failed++
			s.logger.Error("dormancy notification failed",
				slog.String("user_id", user.ID),
				slog.String("username", user.Username),
				slog.Any("error", err),
			)
			continue
		}
		notified++
	}

	s.logger.Info("dormancy scan complete",
		slog.Int("dormant", len(users)),
		slog.Int("notified", notified),
		slog.Int("failed", failed),
		slog.Time("cutoff", cutoff),
	)
	return nil
}
