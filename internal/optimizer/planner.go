package optimizer

import (
	"math"

	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Proposal is a seating plan for a party. Movement is nil when a single
// table is assigned directly.
type Proposal struct {
	PartySize int                 `json:"party_size"`
	TableIDs  []string            `json:"table_ids"`
	Movement  *model.MovementInfo `json:"movement,omitempty"`
}

// Clustered reports whether the plan merges tables.
func (p Proposal) Clustered() bool { return p.Movement != nil }

// Plan decides how to seat party in l:
//
//  1. Fail with INSUFFICIENT_CAPACITY when free seats fall short.
//  2. Assign the largest free table that seats the whole party.
//  3. Otherwise cluster free square tables (NO_CLUSTER on failure), carrying
//     at most party chairs, and first-fit the row into the space left by
//     every other table (NO_SPACE on failure).
func Plan(l model.Layout, party int, opts Options) (Proposal, error) {
	if party < 1 {
		return Proposal{}, apperr.New(apperr.ErrCodeInvalidInput, "party size must be at least 1, got %d", party)
	}
	if free := l.FreeCapacity(); free < party {
		return Proposal{}, apperr.New(apperr.ErrCodeInsufficientCapacity,
			"insufficient capacity: %d free seats for a party of %d", free, party)
	}

	best := -1
	for i, t := range l.Tables {
		if !t.IsFree() || t.Capacity() < party {
			continue
		}
		if best < 0 || t.Capacity() > l.Tables[best].Capacity() {
			best = i
		}
	}
	if best >= 0 {
		return Proposal{PartySize: party, TableIDs: []string{l.Tables[best].ID}}, nil
	}

	var squares []model.Table
	for _, t := range l.Tables {
		if t.IsFree() && t.Kind == model.SquareTable {
			squares = append(squares, t)
		}
	}
	ids, _, ok := SelectCluster(squares, party)
	if !ok {
		return Proposal{}, apperr.New(apperr.ErrCodeNoCluster,
			"cannot form a cluster of square tables for a party of %d", party)
	}
	return clusterProposal(l, ids, party, opts)
}

// PlanTables seats party at exactly the tables in ids. One table is
// assigned as it stands; several are merged into a row the way Plan merges
// a cluster. A zero party takes every seat of the tables.
func PlanTables(l model.Layout, ids []string, party int, opts Options) (Proposal, error) {
	if len(ids) == 0 {
		return Proposal{}, apperr.New(apperr.ErrCodeInvalidInput, "no tables requested")
	}
	seen := make(map[string]bool, len(ids))
	seats := 0
	for _, id := range ids {
		if seen[id] {
			return Proposal{}, apperr.New(apperr.ErrCodeInvalidInput, "table %q requested twice", id)
		}
		seen[id] = true
		t, ok := l.Table(id)
		if !ok {
			return Proposal{}, apperr.New(apperr.ErrCodeNotFound, "table %q does not exist", id)
		}
		if !t.IsFree() {
			return Proposal{}, apperr.New(apperr.ErrCodeConflict, "table %q is no longer available at that time", id)
		}
		seats += t.Capacity()
	}
	if party == 0 {
		party = seats
	}
	if party < 1 || party > seats {
		return Proposal{}, apperr.New(apperr.ErrCodeInvalidInput,
			"tables %v seat %d, party of %d", ids, seats, party)
	}
	ids = append([]string(nil), ids...)
	if len(ids) == 1 {
		return Proposal{PartySize: party, TableIDs: ids}, nil
	}
	return clusterProposal(l, ids, party, opts)
}

// clusterProposal merges the tables in ids into one row carrying at most
// party chairs and first-fits it into the space left by every other table.
func clusterProposal(l model.Layout, ids []string, party int, opts Options) (Proposal, error) {
	k := len(ids)
	chairs := clusterChairs(l, ids, party)
	width, length := averageDims(l, ids)
	skip := make(map[string]bool, k)
	for _, id := range ids {
		skip[id] = true
	}
	tpl := BuildTemplates(k, width, length, chairs, opts)
	p, ok := FirstFit(tpl, outline(l, opts), Obstacles(l, skip, opts))
	if !ok {
		return Proposal{}, apperr.New(apperr.ErrCodeNoSpace,
			"no space for a cluster of %d tables", k)
	}

	chairIDs := make([]string, len(chairs))
	for i, c := range chairs {
		chairIDs[i] = c.ID
	}
	opts.log().Debug("planned cluster", "layout", l.ID, "tables", ids, "center", p.Center, "orientation", p.Orientation)
	return Proposal{
		PartySize: party,
		TableIDs:  ids,
		Movement: &model.MovementInfo{
			K:           k,
			TableIDs:    ids,
			ChairIDs:    chairIDs,
			Center:      p.Center,
			Orientation: p.Orientation,
			AvgLength:   length,
			AvgWidth:    width,
		},
	}, nil
}

// clusterChairs walks the selected tables in order and returns their chairs,
// truncated to limit.
func clusterChairs(l model.Layout, ids []string, limit int) []model.Chair {
	var out []model.Chair
	for _, id := range ids {
		t, ok := l.Table(id)
		if !ok {
			continue
		}
		for _, c := range t.Chairs {
			if len(out) == limit {
				return out
			}
			out = append(out, c)
		}
	}
	return out
}

// averageDims returns the mean short side and mean long side of the given
// tables, DefaultTableSize when none has a usable rectangle.
func averageDims(l model.Layout, ids []string) (width, length float64) {
	n := 0
	for _, id := range ids {
		t, ok := l.Table(id)
		if !ok || !t.Rect.Meters.Valid() {
			continue
		}
		w, h := t.Rect.Meters.Width(), t.Rect.Meters.Height()
		width += math.Min(w, h)
		length += math.Max(w, h)
		n++
	}
	if n == 0 {
		return DefaultTableSize, DefaultTableSize
	}
	return width / float64(n), length / float64(n)
}
