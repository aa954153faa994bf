package optimizer

import (
	"context"
	"sort"

	"github.com/paulmach/orb"

	"github.com/iliyamo/venue-floor-planner/internal/geometry"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Move is the rigid motion applied to one table: rotate by Angle degrees
// about Pivot (the center of the footprint's bounding box before the move),
// then translate so Pivot lands on To. It is the motion MaxClearance found
// for the footprint, so the table, its chairs and the footprint move as one.
type Move struct {
	Pivot orb.Point `json:"pivot"`
	To    orb.Point `json:"to"`
	Angle float64   `json:"angle"`
}

func (m Move) box(b model.Box) model.Box {
	r := geometry.RotateBound(b.Bound(), m.Pivot, m.Angle)
	dx, dy := m.To[0]-m.Pivot[0], m.To[1]-m.Pivot[1]
	return model.Box{
		X1: r.Min[0] + dx, Y1: r.Min[1] + dy,
		X2: r.Max[0] + dx, Y2: r.Max[1] + dy,
	}.Round(CoordinatePlaces)
}

// moveFor converts a placement of the centered footprint back to the
// table's own coordinates. centroid is where the footprint sat before it was
// centered.
func moveFor(centroid orb.Point, centered geometry.Shape, p Placement) Move {
	b := centered.Bound().Center()
	return Move{
		Pivot: orb.Point{centroid[0] + b[0], centroid[1] + b[1]},
		To:    orb.Point{p.Center[0] + b[0], p.Center[1] + b[1]},
		Angle: p.Angle,
	}
}

// apply moves t and every chair with a usable rectangle.
func (m Move) apply(t *model.Table, scale float64) {
	t.Rect = model.NewRect(m.box(t.Rect.Meters), scale)
	for j := range t.Chairs {
		c := &t.Chairs[j]
		if !c.Rect.Meters.Valid() {
			continue
		}
		c.Rect = model.NewRect(m.box(c.Rect.Meters), scale)
	}
}

// RedistributeResult is the new snapshot plus the per-table outcome. Tables
// listed in Unplaced keep their original coordinates in Layout.
type RedistributeResult struct {
	Layout   model.Layout    `json:"layout"`
	Moves    map[string]Move `json:"moves"`
	Unplaced []string        `json:"unplaced"`
}

type candidate struct {
	idx   int
	shape geometry.Shape
	pivot orb.Point
	area  float64
}

// Redistribute spreads every table across the venue. Footprints are placed
// largest first, each one at the point of maximum clearance from those
// already placed. A table that cannot be placed is reported, not fatal.
// The search stops with ctx's error once ctx is done.
func Redistribute(ctx context.Context, l model.Layout, opts Options) (RedistributeResult, error) {
	out := l.Clone()
	res := RedistributeResult{Moves: map[string]Move{}, Unplaced: []string{}}
	ring := outline(out, opts)

	items := make([]candidate, 0, len(out.Tables))
	for i, t := range out.Tables {
		fp, ok := Footprint(t, opts)
		if !ok {
			res.Unplaced = append(res.Unplaced, t.ID)
			continue
		}
		c := fp.Centroid()
		items = append(items, candidate{
			idx:   i,
			shape: fp.Translate(-c[0], -c[1]),
			pivot: c,
			area:  fp.Area(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].area > items[j].area })

	var placed geometry.Shape
	for _, it := range items {
		id := out.Tables[it.idx].ID
		p, ok, err := maxClearance(ctx, it.shape, ring, placed)
		if err != nil {
			return RedistributeResult{}, err
		}
		if !ok {
			opts.log().Warn("no room to place table, leaving it in place", "layout", out.ID, "table", id)
			res.Unplaced = append(res.Unplaced, id)
			continue
		}
		placed = placed.Union(p.Place(it.shape))
		res.Moves[id] = moveFor(it.pivot, it.shape, p)
		opts.log().Debug("placed table", "table", id, "center", p.Center, "angle", p.Angle, "clearance", p.Clearance)
	}

	for i := range out.Tables {
		if m, ok := res.Moves[out.Tables[i].ID]; ok {
			m.apply(&out.Tables[i], out.Scale)
		}
	}
	sort.Strings(res.Unplaced)
	res.Layout = out
	return res, nil
}
