package optimizer

import (
	"context"
	"math"

	"github.com/paulmach/orb"

	"github.com/iliyamo/venue-floor-planner/internal/geometry"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Placement is the outcome of a search. Center is where the shape's origin
// lands. Orientation is set by FirstFit, Angle (degrees) by MaxClearance;
// Clearance is the score MaxClearance maximised.
type Placement struct {
	Center      orb.Point
	Orientation model.Orientation
	Angle       float64
	Clearance   float64
}

// scanStep is max(MinScanStep, min(width, height)/2) of the shape's bound.
func scanStep(s geometry.Shape) float64 {
	b := s.Bound()
	return math.Max(MinScanStep, math.Min(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])/2)
}

// axis returns lo, lo+step, ... strictly below hi.
func axis(lo, hi, step float64) []float64 {
	if step <= 0 || hi <= lo {
		return nil
	}
	n := int(math.Ceil((hi - lo) / step))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := lo + float64(i)*step
		if v >= hi {
			break
		}
		out = append(out, v)
	}
	return out
}

// FirstFit scans the free area of outline minus obstacles, orientations in
// model.Orientations order, x outer and y inner, and returns the first
// candidate whose coverage reaches CoverageTolerance.
func FirstFit(t Templates, outline orb.Ring, obstacles geometry.Shape) (Placement, bool) {
	free := geometry.NewRegion(outline, obstacles)
	fb, ok := free.Bound()
	if !ok {
		return Placement{}, false
	}
	for _, o := range model.Orientations {
		tpl := t.For(o)
		if tpl.IsEmpty() {
			continue
		}
		step := scanStep(tpl)
		for _, x := range axis(fb.Min[0], fb.Max[0], step) {
			for _, y := range axis(fb.Min[1], fb.Max[1], step) {
				if free.Coverage(tpl.Translate(x, y)) >= CoverageTolerance {
					return Placement{Center: orb.Point{x, y}, Orientation: o}, true
				}
			}
		}
	}
	return Placement{}, false
}

// clearanceAngles are tried in this order; ties keep the earlier candidate.
var clearanceAngles = [2]float64{0, 90}

// Place moves fp to p: rotated by p.Angle about the center of its bounding
// box, then translated by p.Center.
func (p Placement) Place(fp geometry.Shape) geometry.Shape {
	return fp.Rotate(p.Angle, fp.Bound().Center()).Translate(p.Center[0], p.Center[1])
}

// MaxClearance places a footprint centered on the origin at the grid point
// that maximises its distance to the obstacles, or to the outline boundary
// when there are no obstacles yet. Only grid points inside the free area are
// considered. Use Placement.Place to move the footprint.
func MaxClearance(fp geometry.Shape, outline orb.Ring, obstacles geometry.Shape) (Placement, bool) {
	p, ok, _ := maxClearance(context.Background(), fp, outline, obstacles)
	return p, ok
}

func maxClearance(ctx context.Context, fp geometry.Shape, outline orb.Ring, obstacles geometry.Shape) (Placement, bool, error) {
	free := geometry.NewRegion(outline, obstacles)
	fb, ok := free.Bound()
	if !ok || fp.IsEmpty() {
		return Placement{}, false, nil
	}
	field := geometry.NewField(obstacles)
	pivot := fp.Bound().Center()

	var best Placement
	found := false
	for _, angle := range clearanceAngles {
		rotated := fp.Rotate(angle, pivot)
		step := scanStep(rotated)
		for _, x := range axis(fb.Min[0], fb.Max[0], step) {
			if err := ctx.Err(); err != nil {
				return Placement{}, false, err
			}
			for _, y := range axis(fb.Min[1], fb.Max[1], step) {
				p := orb.Point{x, y}
				if !free.Contains(p) {
					continue
				}
				cand := rotated.Translate(x, y)
				floor := math.Inf(-1)
				if found {
					floor = best.Clearance
				}
				// coverage is only worth sweeping for a candidate that would win
				score, better := clearance(field, free.Outline(), cand, floor)
				if !better || free.Coverage(cand) < CoverageTolerance {
					continue
				}
				best = Placement{Center: p, Angle: angle, Clearance: score}
				found = true
			}
		}
	}
	return best, found, nil
}

// clearance scores cand against the placed obstacles, or the outline when
// there are none. better is false when the score cannot exceed floor.
func clearance(field geometry.Field, outline orb.Ring, cand geometry.Shape, floor float64) (float64, bool) {
	if field.IsEmpty() {
		d := geometry.BoundaryDistance(outline, cand)
		return d, d > floor
	}
	return field.Clearance(cand, floor)
}
