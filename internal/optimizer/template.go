package optimizer

import (
	"github.com/paulmach/orb"

	"github.com/iliyamo/venue-floor-planner/internal/geometry"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// ChairQuota splits n chairs over k tables: n/k each, and the first n%k
// tables get one more.
func ChairQuota(n, k int) []int {
	if k <= 0 {
		return nil
	}
	q := make([]int, k)
	for i := range q {
		q[i] = n / k
		if i < n%k {
			q[i]++
		}
	}
	return q
}

// RowCenters returns the centers of k tables lined up along o with step
// length, the row centered on center.
func RowCenters(k int, length float64, o model.Orientation, center orb.Point) []orb.Point {
	start := -(length*float64(k))/2 + length/2
	out := make([]orb.Point, k)
	for i := range out {
		off := start + float64(i)*length
		if o == model.Horizontal {
			out[i] = orb.Point{center[0] + off, center[1]}
		} else {
			out[i] = orb.Point{center[0], center[1] + off}
		}
	}
	return out
}

// row is the concrete geometry of a cluster: one box per table and, per
// table, the chairs seated at it with their new boxes.
type row struct {
	tables []model.Box
	seats  [][]seat
}

type seat struct {
	chair model.Chair
	box   model.Box
}

// layoutRow places k tables of size width×length along o, the long side on
// the row axis so neighbours touch, then seats chairs round-robin. Chair j
// of a table goes to the negative side when j is even and to the positive
// side when odd, offset by half the table's cross extent plus half the
// chair's own matching extent.
func layoutRow(k int, width, length float64, o model.Orientation, center orb.Point, chairs []model.Chair) row {
	r := row{tables: make([]model.Box, k), seats: make([][]seat, k)}
	centers := RowCenters(k, length, o, center)
	quota := ChairQuota(len(chairs), k)
	next := 0
	for i, c := range centers {
		if o == model.Horizontal {
			r.tables[i] = model.BoxAround(c, length, width)
		} else {
			r.tables[i] = model.BoxAround(c, width, length)
		}
		for j := 0; j < quota[i] && next < len(chairs); j++ {
			ch := chairs[next]
			next++
			cw, chh := chairSize(ch)
			side := 1.0
			if j%2 == 0 {
				side = -1
			}
			var at orb.Point
			if o == model.Horizontal {
				at = orb.Point{c[0], c[1] + side*(width/2+chh/2)}
			} else {
				at = orb.Point{c[0] + side*(width/2+cw/2), c[1]}
			}
			r.seats[i] = append(r.seats[i], seat{chair: ch, box: model.BoxAround(at, cw, chh)})
		}
	}
	return r
}

func chairSize(c model.Chair) (w, h float64) {
	if !c.Rect.Meters.Valid() {
		return DefaultChairSize, DefaultChairSize
	}
	return c.Rect.Meters.Width(), c.Rect.Meters.Height()
}

// Templates holds a cluster template for each orientation.
type Templates struct {
	Horizontal geometry.Shape
	Vertical   geometry.Shape
}

// For returns the template built for o.
func (t Templates) For(o model.Orientation) geometry.Shape {
	if o == model.Horizontal {
		return t.Horizontal
	}
	return t.Vertical
}

// BuildTemplate returns the buffered shape of k merged tables of the given
// average size, centered on the origin, with chairs seated using their real
// sizes. k < 1 yields an empty shape.
func BuildTemplate(k int, width, length float64, o model.Orientation, chairs []model.Chair, opts Options) geometry.Shape {
	if k < 1 {
		return geometry.Shape{}
	}
	r := layoutRow(k, width, length, o, orb.Point{0, 0}, chairs)
	boxes := make([]orb.Bound, 0, k+len(chairs))
	for i, t := range r.tables {
		boxes = append(boxes, t.Bound())
		for _, s := range r.seats[i] {
			boxes = append(boxes, s.box.Bound())
		}
	}
	return geometry.Buffer(boxes, opts.Margin)
}

// BuildTemplates builds both orientations.
func BuildTemplates(k int, width, length float64, chairs []model.Chair, opts Options) Templates {
	return Templates{
		Horizontal: BuildTemplate(k, width, length, model.Horizontal, chairs, opts),
		Vertical:   BuildTemplate(k, width, length, model.Vertical, chairs, opts),
	}
}
