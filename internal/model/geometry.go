package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// DefaultPixelsPerMeter is used when a venue's dimensions cannot produce a
// usable scale (0.05 m per pixel).
const DefaultPixelsPerMeter = 20.0

// ScaleFor returns pixels per meter for an image of widthPx pixels showing a
// venue widthM meters wide, falling back to DefaultPixelsPerMeter.
func ScaleFor(widthPx, widthM float64) float64 {
	if widthPx <= 0 || widthM <= 0 || math.IsNaN(widthPx) || math.IsNaN(widthM) ||
		math.IsInf(widthPx, 0) || math.IsInf(widthM, 0) {
		return DefaultPixelsPerMeter
	}
	return widthPx / widthM
}

// Box is an axis-aligned rectangle with (X1,Y1) the minimum corner and
// (X2,Y2) the maximum corner. It serialises as [x1, y1, x2, y2].
type Box struct {
	X1, Y1, X2, Y2 float64
}

// BoxFromBound converts an orb bound.
func BoxFromBound(b orb.Bound) Box {
	return Box{X1: b.Min[0], Y1: b.Min[1], X2: b.Max[0], Y2: b.Max[1]}
}

// BoxAround returns the w×h box centered on c.
func BoxAround(c orb.Point, w, h float64) Box {
	return Box{X1: c[0] - w/2, Y1: c[1] - h/2, X2: c[0] + w/2, Y2: c[1] + h/2}
}

// Valid reports whether the box has finite coordinates and positive extent
// on both axes.
func (b Box) Valid() bool {
	for _, v := range [4]float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Center returns the midpoint of the box.
func (b Box) Center() orb.Point { return orb.Point{(b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2} }

// Bound converts to an orb bound.
func (b Box) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.X1, b.Y1}, Max: orb.Point{b.X2, b.Y2}}
}

// Scale multiplies every coordinate by f.
func (b Box) Scale(f float64) Box {
	return Box{X1: b.X1 * f, Y1: b.Y1 * f, X2: b.X2 * f, Y2: b.Y2 * f}
}

// Round rounds every coordinate to the given number of decimals.
func (b Box) Round(places int) Box {
	return Box{X1: Round(b.X1, places), Y1: Round(b.Y1, places), X2: Round(b.X2, places), Y2: Round(b.Y2, places)}
}

func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

func (b *Box) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("box needs 4 coordinates, got %d", len(v))
	}
	*b = Box{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	return nil
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Rect is a box held in both meters and pixels. Meters drive every geometric
// computation; pixels are always derived as meters × scale.
type Rect struct {
	Meters Box `json:"meters"`
	Pixels Box `json:"pixels"`
}

// NewRect builds a rect from meter coordinates.
func NewRect(m Box, scale float64) Rect {
	return Rect{Meters: m, Pixels: m.Scale(scale)}
}

// Rescale recomputes the pixel box from the meter box.
func (r Rect) Rescale(scale float64) Rect {
	return NewRect(r.Meters, scale)
}
