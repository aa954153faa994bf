package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/peterstace/simplefeatures/geom"
)

// Distance is the minimum distance between two shapes, 0 when they touch or
// overlap. It is +Inf when either shape is empty.
func Distance(a, b Shape) float64 {
	d, _ := NewField(a).Clearance(b, math.Inf(-1))
	return d
}

// BoundaryDistance is the distance from the boundary line of ring to s: 0 if
// s crosses the boundary, otherwise the gap between s and the nearest edge.
func BoundaryDistance(ring orb.Ring, s Shape) float64 {
	if len(ring) < 2 || s.IsEmpty() {
		return math.Inf(1)
	}
	d, ok := geom.Distance(lineString(ring).AsGeometry(), collection(s))
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Field is a shape prepared for repeated distance queries. Each part keeps
// its bound, a disk inscribed in it and its polygon.
type Field struct {
	parts []fieldPart
}

type fieldPart struct {
	bound orb.Bound
	disk  disk
	poly  geom.Geometry
}

// NewField prepares s. Parts must be convex.
func NewField(s Shape) Field {
	f := Field{parts: make([]fieldPart, len(s.Parts))}
	for i, p := range s.Parts {
		f.parts[i] = fieldPart{
			bound: p.Bound(),
			disk:  inscribed(p),
			poly:  polygon(p).AsGeometry(),
		}
	}
	return f
}

// IsEmpty reports whether the field has no parts.
func (f Field) IsEmpty() bool { return len(f.parts) == 0 }

// Clearance returns the distance from s to the field if it is greater than
// floor. As soon as some part of the field is known to lie within floor of s
// it gives up and returns ok=false with a distance no greater than floor.
// An empty field or shape is +Inf away.
//
// Inscribed disks give a cheap upper bound and part bounds a lower bound,
// so exact polygon distances are only taken for parts that can still be the
// nearest one.
func (f Field) Clearance(s Shape, floor float64) (d float64, ok bool) {
	if f.IsEmpty() || s.IsEmpty() {
		return math.Inf(1), true
	}
	disks := make([]disk, len(s.Parts))
	for i, p := range s.Parts {
		disks[i] = inscribed(p)
	}
	sb := s.Bound()

	type near struct {
		part int
		gap  float64
	}
	order := make([]near, 0, len(f.parts))
	for i, fp := range f.parts {
		for _, dk := range disks {
			if ub := dk.gap(fp.disk); ub <= floor {
				return ub, false
			}
		}
		order = append(order, near{part: i, gap: boundGap(sb, fp.bound)})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].gap < order[j].gap })

	best := math.Inf(1)
	var target geom.Geometry
	for i, n := range order {
		if n.gap >= best {
			break
		}
		if i == 0 {
			target = collection(s)
		}
		dist, _ := geom.Distance(f.parts[n.part].poly, target)
		if dist <= floor {
			return dist, false
		}
		if dist < best {
			best = dist
		}
		if best == 0 {
			break
		}
	}
	return best, true
}

// disk is a circle lying inside a convex ring.
type disk struct {
	c orb.Point
	r float64
}

// gap is an upper bound of the distance between the rings holding d and o.
func (d disk) gap(o disk) float64 {
	return math.Max(0, math.Hypot(d.c[0]-o.c[0], d.c[1]-o.c[1])-d.r-o.r)
}

// inscribed centers a disk on the vertex mean, which lies inside any convex
// ring, and grows it to the nearest edge.
func inscribed(r orb.Ring) disk {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	if n == 0 {
		return disk{}
	}
	var c orb.Point
	for _, p := range r[:n] {
		c[0] += p[0]
		c[1] += p[1]
	}
	c[0] /= float64(n)
	c[1] /= float64(n)
	rad := math.Inf(1)
	for i := 0; i < n; i++ {
		rad = math.Min(rad, planar.DistanceFromSegment(r[i], r[(i+1)%n], c))
	}
	return disk{c: c, r: rad}
}

// boundGap is a lower bound of the distance between anything inside a and
// anything inside b.
func boundGap(a, b orb.Bound) float64 {
	dx := max(0, max(a.Min[0]-b.Max[0], b.Min[0]-a.Max[0]))
	dy := max(0, max(a.Min[1]-b.Max[1], b.Min[1]-a.Max[1]))
	return math.Hypot(dx, dy)
}

func lineString(r orb.Ring) geom.LineString {
	coords := make([]float64, 0, 2*len(r)+2)
	for _, p := range r {
		coords = append(coords, p[0], p[1])
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		coords = append(coords, r[0][0], r[0][1])
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}

func polygon(r orb.Ring) geom.Polygon {
	return geom.NewPolygon([]geom.LineString{lineString(r)})
}

// collection keeps the parts as separate polygons; they may overlap, which a
// multipolygon does not allow.
func collection(s Shape) geom.Geometry {
	gs := make([]geom.Geometry, len(s.Parts))
	for i, p := range s.Parts {
		gs[i] = polygon(p).AsGeometry()
	}
	return geom.NewGeometryCollection(gs).AsGeometry()
}
