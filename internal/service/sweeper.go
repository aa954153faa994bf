package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// TokenPurger deletes refresh tokens that expired before a given time.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically deletes reservations whose window has closed and
// frees their tables. Expired refresh tokens go in the same pass.
type Sweeper struct {
	Reservations ReservationStore
	Tokens       TokenPurger // optional
	Window       time.Duration
	Interval     time.Duration
	Logger       *log.Logger
	Now          func() time.Time
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.log().Error("sweep failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep removes every active reservation whose instant is more than one
// window in the past and returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	window := s.Window
	if window <= 0 {
		window = optimizer.DefaultWindow
	}
	expired, err := s.Reservations.DeleteExpired(ctx, now.Add(-window))
	if err != nil {
		return 0, storeError(err, "delete expired reservations")
	}
	if len(expired) > 0 {
		ids := make([]uint64, len(expired))
		for i, r := range expired {
			ids[i] = r.ID
		}
		s.log().Info("expired reservations removed", "count", len(expired), "ids", ids)
	}
	if s.Tokens != nil {
		n, err := s.Tokens.PurgeExpired(ctx, now)
		if err != nil {
			return len(expired), storeError(err, "purge refresh tokens")
		}
		if n > 0 {
			s.log().Debug("expired refresh tokens purged", "count", n)
		}
	}
	return len(expired), nil
}

func (s *Sweeper) log() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
