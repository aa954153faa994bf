package optimizer

import (
	"github.com/paulmach/orb"

	"github.com/iliyamo/venue-floor-planner/internal/geometry"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Footprint returns buffer(union(table, chairs), margin). A table without a
// usable rectangle has no footprint (ok=false); unusable chair rectangles
// are skipped. Both cases are logged.
func Footprint(t model.Table, opts Options) (geometry.Shape, bool) {
	if !t.Rect.Meters.Valid() {
		opts.log().Warn("table has no usable rectangle, no footprint", "table", t.ID, "rect", t.Rect.Meters)
		return geometry.Shape{}, false
	}
	boxes := make([]orb.Bound, 0, 1+len(t.Chairs))
	boxes = append(boxes, t.Rect.Meters.Bound())
	for _, c := range t.Chairs {
		if !c.Rect.Meters.Valid() {
			opts.log().Warn("skipping chair with unusable rectangle", "table", t.ID, "chair", c.ID, "rect", c.Rect.Meters)
			continue
		}
		boxes = append(boxes, c.Rect.Meters.Bound())
	}
	return geometry.Buffer(boxes, opts.Margin), true
}

// Obstacles unions the footprints of every table not listed in skip.
func Obstacles(l model.Layout, skip map[string]bool, opts Options) geometry.Shape {
	var out geometry.Shape
	for _, t := range l.Tables {
		if skip[t.ID] {
			continue
		}
		if fp, ok := Footprint(t, opts); ok {
			out = out.Union(fp)
		}
	}
	return out
}

// outline returns the layout's planning outline, logging any fallback.
func outline(l model.Layout, opts Options) orb.Ring {
	ring, fallback := l.Outline()
	if fallback {
		opts.log().Warn("perimeter missing or degenerate, using bounding rectangle",
			"layout", l.ID, "outline", ring.Bound())
	}
	return ring
}
