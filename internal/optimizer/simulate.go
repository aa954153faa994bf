package optimizer

import (
	"time"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// ActiveAt reports whether a reservation for instant reserved holds its
// tables at instant at: reserved-window < at < reserved+window, open on
// both ends.
func ActiveAt(at, reserved time.Time, window time.Duration) bool {
	return at.After(reserved.Add(-window)) && at.Before(reserved.Add(window))
}

// Conflicts reports whether reservations at a and b overlap, i.e. whether
// |a-b| < window. Exactly one window apart does not conflict.
func Conflicts(a, b time.Time, window time.Duration) bool {
	return ActiveAt(a, b, window)
}

// Simulate rebuilds the floor at instant at: base with every table released,
// then each active reservation of the same layout replayed in the order
// given. Replays that no longer fit the base (missing tables) are logged and
// skipped.
func Simulate(base model.Layout, reservations []model.Reservation, at time.Time, opts Options) model.Layout {
	snap := base.Released()
	window := opts.window()
	for _, r := range reservations {
		if r.Status != model.ReservationActive || !ActiveAt(at, r.At, window) {
			continue
		}
		if r.LayoutID != 0 && base.ID != 0 && r.LayoutID != base.ID {
			continue
		}
		if r.Movement != nil {
			next := snap.Clone()
			if err := applyMovement(&next, *r.Movement, r.Code, opts); err != nil {
				opts.log().Warn("cannot replay reservation", "reservation", r.Code, "err", err)
				continue
			}
			snap = next
			continue
		}
		for _, id := range r.TableIDs {
			i := snap.Index(id)
			if i < 0 {
				opts.log().Warn("reserved table missing from layout", "reservation", r.Code, "table", id)
				continue
			}
			reserve(&snap.Tables[i], r.Code)
		}
	}
	return snap
}
