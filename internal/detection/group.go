// Package detection turns raw object-detector output into a base layout:
// boxes are filtered by confidence and real-world size, converted to meters
// and every chair is attached to its nearest table.
package detection

import (
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/logging"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// MinConfidence is the detector score below which a box is discarded.
const MinConfidence = 0.25

// Detection is one box reported by the detector, in image pixels.
type Detection struct {
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Box        model.Box `json:"box"`
}

// SizeWindow bounds the longer side of a detected object, in meters. A zero
// MaxSide means no upper bound.
type SizeWindow struct {
	MinSide float64 `json:"min_side" toml:"min_side"`
	MaxSide float64 `json:"max_side" toml:"max_side"`
}

func (w SizeWindow) admits(side float64) bool {
	if side < w.MinSide {
		return false
	}
	return w.MaxSide <= 0 || side <= w.MaxSide
}

// Filters holds one size window per object family.
type Filters struct {
	Table SizeWindow `json:"table" toml:"table"`
	Chair SizeWindow `json:"chair" toml:"chair"`
}

// Request describes one floor-plan image and what was detected on it.
// Perimeter, when present, is in pixels.
type Request struct {
	Name       string      `json:"name"`
	WidthPx    float64     `json:"width_px"`
	HeightPx   float64     `json:"height_px"`
	WidthM     float64     `json:"width_m"`
	HeightM    float64     `json:"height_m"`
	Perimeter  []orb.Point `json:"perimeter"`
	Filters    Filters     `json:"filters"`
	Detections []Detection `json:"detections"`
}

// Report counts what was dropped while grouping.
type Report struct {
	LowConfidence int `json:"low_confidence"`
	Unknown       int `json:"unknown"`
	OutOfSize     int `json:"out_of_size"`
	Orphans       int `json:"orphans"`
}

// Grouper builds layouts from detections. The zero value is usable.
type Grouper struct {
	Logger *log.Logger
	// NewID returns a fresh id with the given prefix; uuid-based by default.
	NewID func(prefix string) string
}

func (g Grouper) log() *log.Logger {
	if g.Logger == nil {
		return logging.Discard()
	}
	return g.Logger
}

func (g Grouper) id(prefix string) string {
	if g.NewID != nil {
		return g.NewID(prefix)
	}
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

type family int

const (
	familyNone family = iota
	familyTable
	familyChair
)

func classify(label string) family {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "chair"), strings.Contains(l, "silla"):
		return familyChair
	case strings.Contains(l, "table"), strings.Contains(l, "mesa"):
		return familyTable
	}
	return familyNone
}

// Group converts req into a layout with every table free.
func (g Grouper) Group(req Request) (model.Layout, Report, error) {
	if req.WidthM <= 0 || req.HeightM <= 0 {
		return model.Layout{}, Report{}, apperr.New(apperr.ErrCodeInvalidInput,
			"venue size must be positive, got %gx%g m", req.WidthM, req.HeightM)
	}
	scale := model.ScaleFor(req.WidthPx, req.WidthM)
	l := model.Layout{
		Name:       req.Name,
		Dimensions: model.Dimensions{WidthPx: req.WidthPx, HeightPx: req.HeightPx, WidthM: req.WidthM, HeightM: req.HeightM},
		Scale:      scale,
	}
	for _, p := range req.Perimeter {
		l.Perimeter = append(l.Perimeter, orb.Point{p[0] / scale, p[1] / scale})
	}

	var rep Report
	var chairs []model.Chair
	for _, d := range req.Detections {
		if d.Confidence < MinConfidence {
			rep.LowConfidence++
			continue
		}
		m := d.Box.Scale(1 / scale)
		if !m.Valid() {
			rep.OutOfSize++
			continue
		}
		side := math.Max(m.Width(), m.Height())
		switch classify(d.Label) {
		case familyTable:
			kind, ok := model.ParseTableKind(d.Label)
			if !ok {
				kind = model.SquareTable
			}
			if !req.Filters.Table.admits(side) {
				rep.OutOfSize++
				continue
			}
			l.Tables = append(l.Tables, model.Table{ID: g.id("M-"), Kind: kind, Rect: model.NewRect(m, scale), State: model.TableFree})
		case familyChair:
			kind, ok := model.ParseChairKind(d.Label)
			if !ok {
				kind = model.SquareChair
			}
			if !req.Filters.Chair.admits(side) {
				rep.OutOfSize++
				continue
			}
			chairs = append(chairs, model.Chair{ID: g.id("S-"), Kind: kind, Rect: model.NewRect(m, scale)})
		default:
			rep.Unknown++
		}
	}

	for _, c := range chairs {
		i := nearest(l.Tables, c.Rect.Meters.Center())
		if i < 0 {
			rep.Orphans++
			continue
		}
		l.Tables[i].Chairs = append(l.Tables[i].Chairs, c)
	}
	if rep.Orphans > 0 {
		g.log().Warn("chairs detected without any table", "count", rep.Orphans)
	}
	l.Normalize()
	g.log().Info("grouped detections", "tables", len(l.Tables), "chairs", l.ChairCount(),
		"low_confidence", rep.LowConfidence, "out_of_size", rep.OutOfSize, "unknown", rep.Unknown)
	return l, rep, nil
}

// nearest returns the index of the table whose center is closest to p; the
// first one wins ties.
func nearest(tables []model.Table, p orb.Point) int {
	best, bestD := -1, math.Inf(1)
	for i, t := range tables {
		c := t.Rect.Meters.Center()
		if d := math.Hypot(c[0]-p[0], c[1]-p[1]); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
