package service

import (
	"context"
	"time"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// SaveLayout replaces the venue layout wholesale. The stored copy becomes
// the active layout; reservations on older layouts keep pointing at them.
func (s *Service) SaveLayout(ctx context.Context, l model.Layout, ownerID uint64) (model.Layout, error) {
	if err := validateLayout(l); err != nil {
		return model.Layout{}, err
	}
	out := l.Released()
	out.Normalize()
	id, err := s.Layouts.Replace(ctx, out, ownerID)
	if err != nil {
		return model.Layout{}, storeError(err, "save layout")
	}
	out.ID = id
	s.log().Info("layout saved", "id", id, "tables", len(out.Tables), "chairs", out.ChairCount())
	return out, nil
}

func validateLayout(l model.Layout) error {
	if l.Dimensions.WidthM < 0 || l.Dimensions.HeightM < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "venue size cannot be negative")
	}
	tables := make(map[string]bool, len(l.Tables))
	chairs := map[string]bool{}
	for _, t := range l.Tables {
		if t.ID == "" {
			return apperr.New(apperr.ErrCodeInvalidInput, "every table needs an id")
		}
		if tables[t.ID] {
			return apperr.New(apperr.ErrCodeInvalidInput, "duplicate table id %q", t.ID)
		}
		if !t.Kind.Valid() {
			return apperr.New(apperr.ErrCodeInvalidInput, "table %q needs a type (square or round)", t.ID)
		}
		tables[t.ID] = true
		for _, c := range t.Chairs {
			if c.ID == "" {
				return apperr.New(apperr.ErrCodeInvalidInput, "chair without id on table %q", t.ID)
			}
			if chairs[c.ID] {
				return apperr.New(apperr.ErrCodeInvalidInput, "duplicate chair id %q", c.ID)
			}
			if !c.Kind.Valid() {
				return apperr.New(apperr.ErrCodeInvalidInput, "chair %q needs a type (square or round)", c.ID)
			}
			chairs[c.ID] = true
		}
	}
	return nil
}

// ImportDetections groups detector output into a layout and saves it.
func (s *Service) ImportDetections(ctx context.Context, req detection.Request, ownerID uint64) (model.Layout, detection.Report, error) {
	g := detection.Grouper{Logger: s.Options.Logger}
	l, rep, err := g.Group(req)
	if err != nil {
		return model.Layout{}, rep, err
	}
	saved, err := s.SaveLayout(ctx, l, ownerID)
	if err != nil {
		return model.Layout{}, rep, err
	}
	return saved, rep, nil
}

// Optimize redistributes the base state of layout id (0 for the active
// one). Nothing is persisted.
func (s *Service) Optimize(ctx context.Context, id uint64) (optimizer.RedistributeResult, error) {
	base, err := s.base(ctx, id)
	if err != nil {
		return optimizer.RedistributeResult{}, err
	}
	res, err := optimizer.Redistribute(ctx, base.Released(), s.Options)
	if err != nil {
		return optimizer.RedistributeResult{}, apperr.Wrap(apperr.ErrCodeInternal, err, "redistribute layout %d", base.ID)
	}
	if len(res.Unplaced) > 0 {
		s.log().Warn("tables left in place", "layout", base.ID, "unplaced", res.Unplaced)
	}
	return res, nil
}

// Preview applies p to the floor of layout id at instant at without
// storing anything.
func (s *Service) Preview(ctx context.Context, id uint64, at time.Time, p optimizer.Proposal) (model.Layout, error) {
	snap, err := s.Snapshot(ctx, id, at)
	if err != nil {
		return model.Layout{}, err
	}
	for _, tid := range p.TableIDs {
		if t, ok := snap.Table(tid); ok && !t.IsFree() {
			return model.Layout{}, apperr.New(apperr.ErrCodeConflict, "table %q is already reserved at that time", tid)
		}
	}
	return optimizer.Apply(snap, p, "preview", s.Options)
}
