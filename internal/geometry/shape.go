// Package geometry is the planar kernel behind footprints, templates and the
// placement searches.
//
// Shapes are unions of convex rings (buffered boxes are convex, and the
// buffer of a union of boxes is the union of the buffered boxes), which keeps
// containment and distance queries simple. Areas of boolean combinations are
// computed exactly by the slab sweep in overlay.go.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// QuarterSegments is the number of chords used to approximate each rounded
// corner of a buffered box.
const QuarterSegments = 8

// Shape is the union of its parts. Every part is a closed, counter-clockwise,
// convex ring.
type Shape struct {
	Parts []orb.Ring
}

// Box returns the closed counter-clockwise ring of an axis-aligned box.
func Box(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}
}

// FromBound returns the unbuffered shape of b.
func FromBound(b orb.Bound) Shape {
	return Shape{Parts: []orb.Ring{Box(b.Min[0], b.Min[1], b.Max[0], b.Max[1])}}
}

// BufferBound grows b by d, rounding the corners. d <= 0 yields the plain box.
func BufferBound(b orb.Bound, d float64) orb.Ring {
	if d <= 0 {
		return Box(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
	}
	corners := [4]struct {
		c     orb.Point
		start float64
	}{
		{orb.Point{b.Max[0], b.Min[1]}, -math.Pi / 2},
		{orb.Point{b.Max[0], b.Max[1]}, 0},
		{orb.Point{b.Min[0], b.Max[1]}, math.Pi / 2},
		{orb.Point{b.Min[0], b.Min[1]}, math.Pi},
	}
	ring := make(orb.Ring, 0, 4*(QuarterSegments+1)+1)
	for _, k := range corners {
		for i := 0; i <= QuarterSegments; i++ {
			a := k.start + float64(i)*(math.Pi/2)/QuarterSegments
			ring = append(ring, orb.Point{k.c[0] + d*math.Cos(a), k.c[1] + d*math.Sin(a)})
		}
	}
	return append(ring, ring[0])
}

// Buffer returns buffer(union(boxes), d).
func Buffer(boxes []orb.Bound, d float64) Shape {
	s := Shape{Parts: make([]orb.Ring, 0, len(boxes))}
	for _, b := range boxes {
		s.Parts = append(s.Parts, BufferBound(b, d))
	}
	return s
}

// IsEmpty reports whether the shape has no parts.
func (s Shape) IsEmpty() bool { return len(s.Parts) == 0 }

// Bound returns the bounding box of all parts. The zero Bound is returned for
// an empty shape.
func (s Shape) Bound() orb.Bound {
	if s.IsEmpty() {
		return orb.Bound{}
	}
	b := s.Parts[0].Bound()
	for _, p := range s.Parts[1:] {
		b = b.Union(p.Bound())
	}
	return b
}

// Union returns a shape covering both s and o.
func (s Shape) Union(o Shape) Shape {
	parts := make([]orb.Ring, 0, len(s.Parts)+len(o.Parts))
	parts = append(parts, s.Parts...)
	parts = append(parts, o.Parts...)
	return Shape{Parts: parts}
}

// Translate returns a copy of s moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	return s.mapPoints(func(p orb.Point) orb.Point {
		return orb.Point{p[0] + dx, p[1] + dy}
	})
}

// Rotate returns a copy of s rotated counter-clockwise by deg around origin.
func (s Shape) Rotate(deg float64, origin orb.Point) Shape {
	if math.Mod(deg, 360) == 0 {
		return s.mapPoints(func(p orb.Point) orb.Point { return p })
	}
	return s.mapPoints(func(p orb.Point) orb.Point { return RotatePoint(p, origin, deg) })
}

// Area is the area of the union of the parts.
func (s Shape) Area() float64 {
	if s.IsEmpty() {
		return 0
	}
	b := s.Bound()
	m := integrate(s.layers(0), 1, b.Min[0], b.Max[0], func(in []bool) bool { return in[0] })
	return m[0].area
}

// Centroid is the area centroid of the union of the parts. An empty or
// zero-area shape yields the center of its bounding box.
func (s Shape) Centroid() orb.Point {
	b := s.Bound()
	if s.IsEmpty() {
		return b.Center()
	}
	m := integrate(s.layers(0), 1, b.Min[0], b.Max[0], func(in []bool) bool { return in[0] })
	if m[0].area <= areaEpsilon {
		return b.Center()
	}
	return m[0].centroid()
}

func (s Shape) layers(group int) []layer {
	out := make([]layer, 0, len(s.Parts))
	for _, p := range s.Parts {
		out = append(out, layer{ring: p, group: group})
	}
	return out
}

func (s Shape) mapPoints(f func(orb.Point) orb.Point) Shape {
	parts := make([]orb.Ring, len(s.Parts))
	for i, p := range s.Parts {
		r := make(orb.Ring, len(p))
		for j, pt := range p {
			r[j] = f(pt)
		}
		parts[i] = r
	}
	return Shape{Parts: parts}
}

// RotatePoint rotates p counter-clockwise by deg around origin. Quarter turns
// are exact.
func RotatePoint(p, origin orb.Point, deg float64) orb.Point {
	sin, cos := sinCos(deg)
	dx, dy := p[0]-origin[0], p[1]-origin[1]
	return orb.Point{
		origin[0] + dx*cos - dy*sin,
		origin[1] + dx*sin + dy*cos,
	}
}

func sinCos(deg float64) (float64, float64) {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}

// RotateBound rotates b around origin and returns the bounding box of the
// result; for quarter turns that is the rotated box itself.
func RotateBound(b orb.Bound, origin orb.Point, deg float64) orb.Bound {
	out := orb.Bound{Min: RotatePoint(b.Min, origin, deg), Max: RotatePoint(b.Min, origin, deg)}
	for _, p := range []orb.Point{{b.Max[0], b.Min[1]}, b.Max, {b.Min[0], b.Max[1]}} {
		out = out.Extend(RotatePoint(p, origin, deg))
	}
	return out
}
