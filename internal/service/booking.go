package service

import (
	"context"
	"time"

	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
	"github.com/iliyamo/venue-floor-planner/internal/queue"
)

// base loads the layout to simulate on: the active one when id is 0.
func (s *Service) base(ctx context.Context, id uint64) (model.Layout, error) {
	var (
		l   model.Layout
		err error
	)
	if id == 0 {
		l, err = s.Layouts.Active(ctx)
	} else {
		l, err = s.Layouts.Get(ctx, id)
	}
	if err != nil {
		return model.Layout{}, storeError(err, "load layout")
	}
	return l, nil
}

// Snapshot rebuilds the floor of layout id (0 for the active layout) at
// instant at from its base state and every reservation active then.
func (s *Service) Snapshot(ctx context.Context, id uint64, at time.Time) (model.Layout, error) {
	if at.IsZero() {
		return model.Layout{}, apperr.New(apperr.ErrCodeInvalidInput, "an instant is required")
	}
	base, err := s.base(ctx, id)
	if err != nil {
		return model.Layout{}, err
	}
	return s.simulate(ctx, base, at)
}

func (s *Service) simulate(ctx context.Context, base model.Layout, at time.Time) (model.Layout, error) {
	d := s.window()
	active, err := s.Reservations.ActiveBetween(ctx, base.ID, at.Add(-d), at.Add(d))
	if err != nil {
		return model.Layout{}, storeError(err, "load reservations")
	}
	return optimizer.Simulate(base, active, at, s.Options), nil
}

// Availability is the answer to "can a party of n be seated at t": the
// floor at t plus either a proposal or the reason there is none.
type Availability struct {
	At        time.Time           `json:"at"`
	PartySize int                 `json:"party_size"`
	Proposal  *optimizer.Proposal `json:"proposal,omitempty"`
	Code      apperr.Code         `json:"code,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Layout    model.Layout        `json:"layout"`
}

// Available reports whether the party can be seated.
func (a Availability) Available() bool { return a.Proposal != nil }

// Availability plans a party of the given size at instant at on the active
// layout. Business-rule failures are reported in the result, not as errors.
func (s *Service) Availability(ctx context.Context, at time.Time, party int) (Availability, error) {
	if party < 1 {
		return Availability{}, apperr.New(apperr.ErrCodeInvalidInput, "party size must be at least 1, got %d", party)
	}
	snap, err := s.Snapshot(ctx, 0, at)
	if err != nil {
		return Availability{}, err
	}
	out := Availability{At: at.UTC(), PartySize: party, Layout: snap}
	p, err := optimizer.Plan(snap, party, s.Options)
	if err != nil {
		code := apperr.GetCode(err)
		if code == "" || code == apperr.ErrCodeInvalidInput {
			return Availability{}, err
		}
		out.Code, out.Reason = code, apperr.UserMessage(err)
		return out, nil
	}
	out.Proposal = &p
	return out, nil
}

// ReserveRequest asks for a booking at At. With TableID or TableIDs set
// exactly those tables are booked, merged into a row when there are several,
// and PartySize defaults to their capacity; otherwise the planner picks a
// table or a cluster.
type ReserveRequest struct {
	UserID    uint64
	At        time.Time
	PartySize int
	TableID   string
	TableIDs  []string
}

// tables returns the explicitly requested tables, if any.
func (r ReserveRequest) tables() ([]string, error) {
	if r.TableID == "" {
		return r.TableIDs, nil
	}
	if len(r.TableIDs) > 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "send either table_id or table_ids, not both")
	}
	return []string{r.TableID}, nil
}

// ReserveResult is the stored reservation and the floor right after it.
type ReserveResult struct {
	Reservation model.Reservation `json:"reservation"`
	Layout      model.Layout      `json:"layout"`
}

// Reserve books the active layout at req.At. The store repeats the conflict
// check under a row lock, so a booking that raced another one fails with
// SCHEDULE_CONFLICT.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (ReserveResult, error) {
	if req.At.IsZero() {
		return ReserveResult{}, apperr.New(apperr.ErrCodeInvalidInput, "reservation instant is required")
	}
	if !req.At.After(s.Now()) {
		return ReserveResult{}, apperr.New(apperr.ErrCodeInvalidInput, "reservation instant must be in the future")
	}
	tables, err := req.tables()
	if err != nil {
		return ReserveResult{}, err
	}
	if req.PartySize < 0 || (len(tables) == 0 && req.PartySize == 0) {
		return ReserveResult{}, apperr.New(apperr.ErrCodeInvalidInput, "party size must be at least 1, got %d", req.PartySize)
	}

	snap, err := s.Snapshot(ctx, 0, req.At)
	if err != nil {
		return ReserveResult{}, err
	}

	var p optimizer.Proposal
	if len(tables) > 0 {
		p, err = optimizer.PlanTables(snap, tables, req.PartySize, s.Options)
	} else {
		p, err = optimizer.Plan(snap, req.PartySize, s.Options)
	}
	if err != nil {
		return ReserveResult{}, err
	}

	res := model.Reservation{
		Code:      s.NewCode(),
		UserID:    req.UserID,
		LayoutID:  snap.ID,
		PartySize: p.PartySize,
		At:        req.At.UTC(),
		TableIDs:  p.TableIDs,
		Movement:  p.Movement,
	}
	after, err := optimizer.Apply(snap, p, res.Code, s.Options)
	if err != nil {
		return ReserveResult{}, err
	}
	if err := s.Reservations.Create(ctx, &res, s.window()); err != nil {
		return ReserveResult{}, storeError(err, "create reservation")
	}
	s.log().Info("reservation confirmed", "id", res.ID, "layout", res.LayoutID,
		"party", res.PartySize, "tables", res.TableIDs, "cluster", res.Clustered())
	s.publish(ctx, queue.ReservationConfirmed, res)
	return ReserveResult{Reservation: res, Layout: after}, nil
}

// Cancel cancels one of the user's future active reservations and frees
// its tables.
func (s *Service) Cancel(ctx context.Context, id, userID uint64) (model.Reservation, error) {
	res, err := s.Reservations.Cancel(ctx, id, userID, s.Now())
	if err != nil {
		return model.Reservation{}, storeError(err, "cancel reservation")
	}
	s.log().Info("reservation cancelled", "id", res.ID, "user", userID)
	s.publish(ctx, queue.ReservationCancelled, res)
	return res, nil
}

// ListForUser marks the user's reservations whose window has closed as
// completed, then lists all of them, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	n, err := s.Reservations.CompletePast(ctx, userID, s.Now().Add(-s.window()))
	if err != nil {
		return nil, storeError(err, "complete past reservations")
	}
	if n > 0 {
		s.log().Debug("completed past reservations", "user", userID, "count", n)
	}
	out, err := s.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "list reservations")
	}
	if out == nil {
		out = []model.Reservation{}
	}
	return out, nil
}

// TableInfo is a reserved table and its capacity at the reserved instant.
type TableInfo struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

// Detail is a reservation with the floor as it stands at its instant, on
// the layout version it was made against.
type Detail struct {
	Reservation model.Reservation `json:"reservation"`
	Tables      []TableInfo       `json:"tables"`
	Layout      model.Layout      `json:"layout"`
}

// Detail returns reservation id. Customers only see their own; owners see
// every reservation.
func (s *Service) Detail(ctx context.Context, id, userID uint64, owner bool) (Detail, error) {
	res, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return Detail{}, storeError(err, "load reservation")
	}
	if !owner && res.UserID != userID {
		return Detail{}, apperr.New(apperr.ErrCodeForbidden, "reservation belongs to another user")
	}
	snap, err := s.Snapshot(ctx, res.LayoutID, res.At)
	if err != nil {
		return Detail{}, err
	}
	tables := make([]TableInfo, 0, len(res.TableIDs))
	for _, tid := range res.TableIDs {
		info := TableInfo{ID: tid}
		if t, ok := snap.Table(tid); ok {
			info.Capacity = t.Capacity()
		}
		tables = append(tables, info)
	}
	return Detail{Reservation: res, Tables: tables, Layout: snap}, nil
}
