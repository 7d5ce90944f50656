package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/leadpilot/auth-service/internal/domain/repository"
)

// Sweeper periodically removes sessions past their natural expiry. It
// only deletes already-dead records, so running it alongside live traffic
// is safe, and a missed run just leaves cleanup to lazy expiry.
type Sweeper struct {
	Sessions repo.SessionRepository
	Logger   *logrus.Logger
	Interval time.Duration
}

func NewSweeper(sessions repo.SessionRepository, logger *logrus.Logger, interval time.Duration) *Sweeper {
	if interval == 0 {
		interval = time.Hour
	}
	return &Sweeper{Sessions: sessions, Logger: logger, Interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Cancel
// the context during graceful shutdown to stop the timer.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	n, err := s.Sessions.DeleteExpired(c)
	if err != nil {
		s.Logger.WithError(err).Warn("session sweep failed")
		return
	}
	if n > 0 {
		s.Logger.WithField("deleted", n).Info("expired sessions swept")
	}
}
