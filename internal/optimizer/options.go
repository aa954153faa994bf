// Package optimizer places tables and chairs inside a venue outline.
//
// Every function here is pure: it receives a model.Layout snapshot and
// returns a new one, never mutating its input. Geometry runs on the planar
// kernel in internal/geometry; meters are authoritative and pixel boxes are
// recomputed through the layout scale whenever meters change.
//
// The fixed constants below are part of the observable contract: changing
// the coverage tolerance, the scan step floor or the scan order changes which
// placement a search returns.
package optimizer

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/iliyamo/venue-floor-planner/internal/logging"
)

const (
	// DefaultMargin is the clearance grown around furniture, in meters.
	DefaultMargin = 0.15
	// DefaultWindow is the half-width of a reservation's exclusivity window.
	DefaultWindow = 120 * time.Minute
	// CoverageTolerance is the fraction of a candidate that must fall in
	// free space for the candidate to be accepted.
	CoverageTolerance = 0.999
	// MinScanStep is the smallest grid step used by the searches, meters.
	MinScanStep = 0.5
	// DefaultTableSize is used for average table dims when no selected table
	// has a usable rectangle.
	DefaultTableSize = 0.8
	// DefaultChairSize is the side of a chair whose rectangle is unusable.
	DefaultChairSize = 0.5
	// CoordinatePlaces is the rounding applied to redistributed coordinates.
	CoordinatePlaces = 3
)

// Options carries the per-request configuration of the optimizer.
type Options struct {
	Margin float64
	Window time.Duration
	Logger *log.Logger
}

// DefaultOptions returns the standard margin and window with a silent logger.
func DefaultOptions() Options {
	return Options{Margin: DefaultMargin, Window: DefaultWindow, Logger: logging.Discard()}
}

func (o Options) log() *log.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

func (o Options) window() time.Duration {
	if o.Window <= 0 {
		return DefaultWindow
	}
	return o.Window
}
