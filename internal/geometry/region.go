package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	groupOutline = iota
	groupObstacle
	groupCandidate
	groupCount
)

// Region is free space: the inside of a simple outline minus a set of
// obstacles. It is never materialised as a polygon; queries are answered by
// sweeping the outline, the obstacles and the query shape together.
type Region struct {
	outline   orb.Ring
	obstacles Shape
	bounds    []orb.Bound
}

// NewRegion returns outline minus obstacles. The outline is closed if needed.
func NewRegion(outline orb.Ring, obstacles Shape) Region {
	r := make(orb.Ring, len(outline), len(outline)+1)
	copy(r, outline)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	bounds := make([]orb.Bound, len(obstacles.Parts))
	for i, p := range obstacles.Parts {
		bounds[i] = p.Bound()
	}
	return Region{outline: r, obstacles: obstacles, bounds: bounds}
}

// Outline returns the closed outline ring.
func (r Region) Outline() orb.Ring { return r.outline }

// Obstacles returns the obstacle union.
func (r Region) Obstacles() Shape { return r.obstacles }

func inFree(in []bool) bool { return in[groupOutline] && !in[groupObstacle] }

func (r Region) layers(candidate Shape, clip orb.Bound, filter bool) []layer {
	out := make([]layer, 0, 1+len(r.obstacles.Parts)+len(candidate.Parts))
	out = append(out, layer{ring: r.outline, group: groupOutline})
	for i, p := range r.obstacles.Parts {
		if filter && !r.bounds[i].Intersects(clip) {
			continue
		}
		out = append(out, layer{ring: p, group: groupObstacle})
	}
	for _, p := range candidate.Parts {
		out = append(out, layer{ring: p, group: groupCandidate})
	}
	return out
}

func (r Region) sweep() moments {
	if len(r.outline) < 4 {
		return moments{}
	}
	b := r.outline.Bound()
	return integrate(r.layers(Shape{}, b, false), groupCount, b.Min[0], b.Max[0], inFree)[0]
}

// Area is the free area.
func (r Region) Area() float64 { return r.sweep().area }

// IsEmpty reports whether no free area is left.
func (r Region) IsEmpty() bool { return r.Area() <= areaEpsilon }

// Bound returns the bounding box of the free area; ok is false when the
// region is empty.
func (r Region) Bound() (b orb.Bound, ok bool) {
	m := r.sweep()
	if m.area <= areaEpsilon || !m.hit {
		return orb.Bound{}, false
	}
	return m.bound, true
}

// Contains reports whether p lies inside the outline and outside every
// obstacle.
func (r Region) Contains(p orb.Point) bool {
	if len(r.outline) < 4 || !planar.RingContains(r.outline, p) {
		return false
	}
	for i, o := range r.obstacles.Parts {
		if r.bounds[i].Contains(p) && planar.RingContains(o, p) {
			return false
		}
	}
	return true
}

// Coverage returns area(s ∩ free) / area(s), or 0 for a zero-area shape.
func (r Region) Coverage(s Shape) float64 {
	if s.IsEmpty() || len(r.outline) < 4 {
		return 0
	}
	b := s.Bound()
	m := integrate(r.layers(s, b, true), groupCount, b.Min[0], b.Max[0],
		func(in []bool) bool { return in[groupCandidate] },
		func(in []bool) bool { return in[groupCandidate] && inFree(in) },
	)
	if m[0].area <= areaEpsilon {
		return 0
	}
	return m[1].area / m[0].area
}
