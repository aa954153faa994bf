package optimizer

import (
	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Apply returns a copy of l with the proposal carried out and every touched
// table tagged with ref. A simple plan only marks its tables reserved; a
// cluster plan moves them into the planned row first.
func Apply(l model.Layout, p Proposal, ref string, opts Options) (model.Layout, error) {
	out := l.Clone()
	if p.Movement != nil {
		if err := applyMovement(&out, *p.Movement, ref, opts); err != nil {
			return model.Layout{}, err
		}
		return out, nil
	}
	if len(p.TableIDs) == 0 {
		return model.Layout{}, apperr.New(apperr.ErrCodeInvalidInput, "proposal names no tables")
	}
	for _, id := range p.TableIDs {
		i := out.Index(id)
		if i < 0 {
			return model.Layout{}, apperr.New(apperr.ErrCodeNotFound, "table %q not in layout %d", id, l.ID)
		}
		reserve(&out.Tables[i], ref)
	}
	return out, nil
}

func reserve(t *model.Table, ref string) {
	t.State = model.TableReserved
	t.Reservation = ref
}

// applyMovement moves the listed tables into a row centered on mv.Center
// and seats the listed chairs round-robin along it. Chairs not listed stay
// with their table at their current coordinates, so no chair is ever
// dropped from the snapshot.
func applyMovement(l *model.Layout, mv model.MovementInfo, ref string, opts Options) error {
	if len(mv.TableIDs) == 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "movement names no tables")
	}
	if mv.K != 0 && mv.K != len(mv.TableIDs) {
		return apperr.New(apperr.ErrCodeInvalidInput, "movement k=%d does not match %d tables", mv.K, len(mv.TableIDs))
	}
	if !mv.Orientation.Valid() {
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown orientation %q", mv.Orientation)
	}
	idx := make([]int, len(mv.TableIDs))
	for i, id := range mv.TableIDs {
		if idx[i] = l.Index(id); idx[i] < 0 {
			return apperr.New(apperr.ErrCodeNotFound, "table %q not in layout %d", id, l.ID)
		}
	}

	wanted := make(map[string]bool, len(mv.ChairIDs))
	for _, id := range mv.ChairIDs {
		wanted[id] = true
	}
	moving := make([]model.Chair, 0, len(mv.ChairIDs))
	detach := func(t *model.Table) {
		kept := t.Chairs[:0:0]
		for _, c := range t.Chairs {
			if wanted[c.ID] {
				moving = append(moving, c)
				delete(wanted, c.ID)
				continue
			}
			kept = append(kept, c)
		}
		t.Chairs = kept
	}
	// Selected tables first so the seating order matches the plan.
	for _, i := range idx {
		detach(&l.Tables[i])
	}
	for i := range l.Tables {
		if len(wanted) == 0 {
			break
		}
		detach(&l.Tables[i])
	}
	for id := range wanted {
		opts.log().Warn("movement names a chair missing from the layout", "layout", l.ID, "chair", id)
	}

	width, length := mv.AvgWidth, mv.AvgLength
	if width <= 0 || length <= 0 {
		width, length = averageDims(*l, mv.TableIDs)
	}
	r := layoutRow(len(idx), width, length, mv.Orientation, mv.Center, moving)
	for n, i := range idx {
		t := &l.Tables[i]
		t.Rect = model.NewRect(r.tables[n], l.Scale)
		for _, s := range r.seats[n] {
			c := s.chair
			c.Rect = model.NewRect(s.box, l.Scale)
			t.Chairs = append(t.Chairs, c)
		}
		reserve(t, ref)
	}
	return nil
}
