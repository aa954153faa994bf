package geometry

import (
	"sort"

	"github.com/paulmach/orb"
)

const (
	// areaEpsilon is the area below which a region counts as empty.
	areaEpsilon = 1e-9
	xEpsilon    = 1e-12
)

// layer is one ring taking part in a sweep. Rings of the same group are
// unioned; each ring on its own follows the even-odd rule.
type layer struct {
	ring  orb.Ring
	group int
}

type edge struct {
	x0, y0, x1, y1 float64
	layer          int
}

func (e edge) yAt(x float64) float64 {
	return e.y0 + (e.y1-e.y0)*(x-e.x0)/(e.x1-e.x0)
}

type moments struct {
	area, mx, my float64
	bound        orb.Bound
	hit          bool
}

func (m moments) centroid() orb.Point {
	return orb.Point{m.mx / m.area, m.my / m.area}
}

func (m *moments) extend(p orb.Point) {
	if !m.hit {
		m.bound = orb.Bound{Min: p, Max: p}
		m.hit = true
		return
	}
	m.bound = m.bound.Extend(p)
}

// add accumulates the trapezoid between bot and top over [x0, x1]. Within a
// slab both boundaries are linear, so Simpson's rule is exact for the area
// and both first moments.
func (m *moments) add(bot, top edge, x0, xm, x1 float64) {
	b0, bm, b1 := bot.yAt(x0), bot.yAt(xm), bot.yAt(x1)
	t0, tm, t1 := top.yAt(x0), top.yAt(xm), top.yAt(x1)
	l0, lm, l1 := t0-b0, tm-bm, t1-b1
	if lm <= 0 {
		return
	}
	w := x1 - x0
	m.area += w / 6 * (l0 + 4*lm + l1)
	m.mx += w / 6 * (x0*l0 + 4*xm*lm + x1*l1)
	m.my += w / 12 * ((t0*t0 - b0*b0) + 4*(tm*tm-bm*bm) + (t1*t1 - b1*b1))
	m.extend(orb.Point{x0, b0})
	m.extend(orb.Point{x0, t0})
	m.extend(orb.Point{x1, b1})
	m.extend(orb.Point{x1, t1})
}

type crossing struct {
	e edge
	y float64
}

// integrate sweeps vertical slabs over [lo, hi]. For each predicate it
// accumulates area, first moments and bounds of the points whose group
// membership satisfies it. Predicates must be false outside every ring.
//
// Slab boundaries are every vertex abscissa and every crossing between edges
// of different rings, so inside a slab no two edges swap order and the
// cross-section of any boolean combination is a set of trapezoids.
func integrate(layers []layer, groups int, lo, hi float64, preds ...func(in []bool) bool) []moments {
	out := make([]moments, len(preds))
	if hi-lo <= xEpsilon || len(layers) == 0 {
		return out
	}

	var edges []edge
	xs := []float64{lo, hi}
	for i, l := range layers {
		r := l.ring
		n := len(r)
		if n > 1 && r[0] == r[n-1] {
			n--
		}
		for j := 0; j < n; j++ {
			a, b := r[j], r[(j+1)%n]
			if a[0] > lo && a[0] < hi {
				xs = append(xs, a[0])
			}
			if a[0] > b[0] {
				a, b = b, a
			}
			if b[0]-a[0] <= xEpsilon || b[0] <= lo || a[0] >= hi {
				continue
			}
			edges = append(edges, edge{x0: a[0], y0: a[1], x1: b[0], y1: b[1], layer: i})
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].x0 < edges[j].x0 })
	xs = appendCrossings(xs, edges, lo, hi)
	sort.Float64s(xs)

	inRing := make([]bool, len(layers))
	count := make([]int, groups)
	in := make([]bool, groups)
	open := make([]int, len(preds))
	active := make([]edge, 0, 64)
	cross := make([]crossing, 0, 64)
	next := 0

	for s := 0; s+1 < len(xs); s++ {
		x0, x1 := xs[s], xs[s+1]
		if x1-x0 <= xEpsilon {
			continue
		}
		xm := (x0 + x1) / 2

		kept := active[:0]
		for _, e := range active {
			if e.x1 > xm {
				kept = append(kept, e)
			}
		}
		active = kept
		for next < len(edges) && edges[next].x0 < xm {
			if edges[next].x1 > xm {
				active = append(active, edges[next])
			}
			next++
		}
		if len(active) == 0 {
			continue
		}

		cross = cross[:0]
		for _, e := range active {
			cross = append(cross, crossing{e: e, y: e.yAt(xm)})
		}
		sort.Slice(cross, func(i, j int) bool { return cross[i].y < cross[j].y })

		for i := range inRing {
			inRing[i] = false
		}
		for g := range count {
			count[g] = 0
			in[g] = false
		}
		for p := range open {
			open[p] = -1
		}
		for i, c := range cross {
			li := c.e.layer
			g := layers[li].group
			inRing[li] = !inRing[li]
			if inRing[li] {
				count[g]++
			} else {
				count[g]--
			}
			in[g] = count[g] > 0
			for p, pred := range preds {
				now := pred(in)
				switch {
				case now && open[p] < 0:
					open[p] = i
				case !now && open[p] >= 0:
					out[p].add(cross[open[p]].e, c.e, x0, xm, x1)
					open[p] = -1
				}
			}
		}
	}
	return out
}

// appendCrossings adds the abscissae where edges of different rings cross
// strictly inside (lo, hi). edges must be sorted by x0.
func appendCrossings(xs []float64, edges []edge, lo, hi float64) []float64 {
	for i := range edges {
		a := edges[i]
		for j := i + 1; j < len(edges) && edges[j].x0 < a.x1; j++ {
			b := edges[j]
			if a.layer == b.layer {
				continue
			}
			if max(a.y0, a.y1) < min(b.y0, b.y1) || max(b.y0, b.y1) < min(a.y0, a.y1) {
				continue
			}
			sa := (a.y1 - a.y0) / (a.x1 - a.x0)
			sb := (b.y1 - b.y0) / (b.x1 - b.x0)
			if sa == sb {
				continue
			}
			ia := a.y0 - sa*a.x0
			ib := b.y0 - sb*b.x0
			x := (ib - ia) / (sa - sb)
			left, right := max(a.x0, b.x0), min(a.x1, b.x1)
			if x > left && x < right && x > lo && x < hi {
				xs = append(xs, x)
			}
		}
	}
	return xs
}
