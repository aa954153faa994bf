// Package service runs the floor planner against persisted state: it loads
// a base layout, replays the reservations that overlap an instant, asks the
// optimizer for a plan and records the outcome.
//
// Store failures come back as coded errors from internal/errors so the HTTP
// layer can map them without knowing about the repositories.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
	"github.com/iliyamo/venue-floor-planner/internal/queue"
	"github.com/iliyamo/venue-floor-planner/internal/repository"
)

// LayoutStore persists venue layouts.
type LayoutStore interface {
	Active(ctx context.Context) (model.Layout, error)
	Get(ctx context.Context, id uint64) (model.Layout, error)
	Replace(ctx context.Context, l model.Layout, ownerID uint64) (uint64, error)
}

// ReservationStore persists reservations. Create must reject a booking
// that clashes with an active one inside the window.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation, window time.Duration) error
	ActiveBetween(ctx context.Context, layoutID uint64, from, to time.Time) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	CompletePast(ctx context.Context, userID uint64, before time.Time) (int64, error)
	Cancel(ctx context.Context, id, userID uint64, now time.Time) (model.Reservation, error)
	DeleteExpired(ctx context.Context, before time.Time) ([]model.Reservation, error)
}

// EventPublisher delivers reservation events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Service is the booking front of the planner. Now and NewCode may be
// replaced in tests.
type Service struct {
	Layouts      LayoutStore
	Reservations ReservationStore
	Events       EventPublisher // optional
	Options      optimizer.Options
	Now          func() time.Time
	NewCode      func() string
}

// New wires a Service. events may be nil.
func New(layouts LayoutStore, reservations ReservationStore, events EventPublisher, opts optimizer.Options) *Service {
	return &Service{
		Layouts:      layouts,
		Reservations: reservations,
		Events:       events,
		Options:      opts,
		Now:          func() time.Time { return time.Now().UTC() },
		NewCode:      uuid.NewString,
	}
}

func (s *Service) log() *log.Logger {
	if s.Options.Logger != nil {
		return s.Options.Logger
	}
	return log.Default()
}

func (s *Service) window() time.Duration {
	if s.Options.Window > 0 {
		return s.Options.Window
	}
	return optimizer.DefaultWindow
}

func (s *Service) publish(ctx context.Context, typ string, r model.Reservation) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, queue.NewReservationEvent(typ, r, s.Now())); err != nil {
		s.log().Warn("publish reservation event", "type", typ, "reservation", r.ID, "err", err)
	}
}

// storeError turns a repository failure into a coded error. Errors that
// already carry a code pass through.
func storeError(err error, op string) error {
	if apperr.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNoActiveLayout):
		return apperr.New(apperr.ErrCodeNoActiveLayout, "no active layout")
	case errors.Is(err, repository.ErrLayoutNotFound):
		return apperr.New(apperr.ErrCodeLayoutNotFound, "layout not found")
	case errors.Is(err, repository.ErrReservationNotFound):
		return apperr.New(apperr.ErrCodeNotFound, "reservation not found")
	case errors.Is(err, repository.ErrTableNotFound):
		return apperr.New(apperr.ErrCodeNotFound, "table not found in layout")
	case errors.Is(err, repository.ErrTooFewSeats):
		return apperr.New(apperr.ErrCodeInsufficientCapacity, "the chosen tables seat fewer people than the party")
	case errors.Is(err, repository.ErrConflict):
		return apperr.New(apperr.ErrCodeConflict, "one or more tables are already booked around that time")
	case errors.Is(err, repository.ErrForbidden):
		return apperr.New(apperr.ErrCodeForbidden, "reservation belongs to another user")
	case errors.Is(err, repository.ErrNotCancellable):
		return apperr.New(apperr.ErrCodeNotCancellable, "only future active reservations can be cancelled")
	}
	return apperr.Wrap(apperr.ErrCodeInternal, err, "%s", op)
}
