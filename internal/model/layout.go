package model

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/paulmach/orb"
)

// Dimensions of the source image and of the venue it shows.
type Dimensions struct {
	WidthPx  float64 `json:"width_px"`  // layouts.width_px
	HeightPx float64 `json:"height_px"` // layouts.height_px
	WidthM   float64 `json:"width_m"`   // layouts.width_m
	HeightM  float64 `json:"height_m"`  // layouts.height_m
}

// Layout is a complete snapshot of one venue: outline, tables and chairs.
// Operations never mutate a snapshot they were handed; they work on Clone().
// Tables are kept sorted by ID so iteration order is deterministic.
type Layout struct {
	ID         uint64      // layouts.id
	Name       string      // layouts.name
	Dimensions Dimensions  // layouts.width_px..height_m
	Scale      float64     // pixels per meter
	Perimeter  []orb.Point // layouts.perimeter (meters)
	Tables     []Table
	CreatedAt  time.Time // layouts.created_at
}

// Normalize sorts tables by ID, fills a missing scale from the dimensions
// and recomputes every pixel box from its meter box.
func (l *Layout) Normalize() {
	if l.Scale <= 0 {
		l.Scale = ScaleFor(l.Dimensions.WidthPx, l.Dimensions.WidthM)
	}
	sort.SliceStable(l.Tables, func(i, j int) bool { return l.Tables[i].ID < l.Tables[j].ID })
	for i := range l.Tables {
		t := &l.Tables[i]
		t.Rect = t.Rect.Rescale(l.Scale)
		if t.State == "" {
			t.State = TableFree
		}
		for j := range t.Chairs {
			t.Chairs[j].Rect = t.Chairs[j].Rect.Rescale(l.Scale)
		}
	}
}

// Clone returns a deep copy.
func (l Layout) Clone() Layout {
	c := l
	c.Perimeter = append([]orb.Point(nil), l.Perimeter...)
	c.Tables = make([]Table, len(l.Tables))
	for i, t := range l.Tables {
		c.Tables[i] = t.Clone()
	}
	return c
}

// Index returns the position of the table with the given id, or -1.
func (l Layout) Index(id string) int {
	i := sort.Search(len(l.Tables), func(i int) bool { return l.Tables[i].ID >= id })
	if i < len(l.Tables) && l.Tables[i].ID == id {
		return i
	}
	return -1
}

// Table returns the table with the given id.
func (l Layout) Table(id string) (Table, bool) {
	if i := l.Index(id); i >= 0 {
		return l.Tables[i], true
	}
	return Table{}, false
}

// FreeCapacity sums the capacity of every free table.
func (l Layout) FreeCapacity() int {
	n := 0
	for _, t := range l.Tables {
		if t.IsFree() {
			n += t.Capacity()
		}
	}
	return n
}

// ChairCount is the number of chairs across all tables.
func (l Layout) ChairCount() int {
	n := 0
	for _, t := range l.Tables {
		n += len(t.Chairs)
	}
	return n
}

// Released returns a copy with every table free and untagged.
func (l Layout) Released() Layout {
	c := l.Clone()
	for i := range c.Tables {
		c.Tables[i].State = TableFree
		c.Tables[i].Reservation = ""
	}
	return c
}

// Outline returns the perimeter to plan against. When the stored perimeter is
// unusable it falls back to the venue's bounding rectangle, then to the box
// around all furniture; fallback reports whether a substitute was used.
func (l Layout) Outline() (ring orb.Ring, fallback bool) {
	if len(l.Perimeter) >= 3 && ringArea(l.Perimeter) > 0 {
		r := append(orb.Ring(nil), l.Perimeter...)
		if r[0] != r[len(r)-1] {
			r = append(r, r[0])
		}
		return r, false
	}
	if l.Dimensions.WidthM > 0 && l.Dimensions.HeightM > 0 {
		b := Box{X2: l.Dimensions.WidthM, Y2: l.Dimensions.HeightM}
		return boxRing(b), true
	}
	var b Box
	first := true
	for _, t := range l.Tables {
		for _, m := range append([]Box{t.Rect.Meters}, chairBoxes(t)...) {
			if !m.Valid() {
				continue
			}
			if first {
				b, first = m, false
				continue
			}
			b = BoxFromBound(b.Bound().Union(m.Bound()))
		}
	}
	return boxRing(b), true
}

func chairBoxes(t Table) []Box {
	out := make([]Box, len(t.Chairs))
	for i, c := range t.Chairs {
		out[i] = c.Rect.Meters
	}
	return out
}

func boxRing(b Box) orb.Ring {
	return orb.Ring{{b.X1, b.Y1}, {b.X2, b.Y1}, {b.X2, b.Y2}, {b.X1, b.Y2}, {b.X1, b.Y1}}
}

func ringArea(pts []orb.Point) float64 {
	a := 0.0
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	if a < 0 {
		a = -a
	}
	return a / 2
}

type perimeterJSON struct {
	Meters []orb.Point `json:"meters"`
	Pixels []orb.Point `json:"pixels"`
}

type layoutJSON struct {
	ID         uint64           `json:"id,omitempty"`
	Name       string           `json:"name,omitempty"`
	Dimensions Dimensions       `json:"dimensions"`
	Scale      float64          `json:"pixels_per_meter"`
	Perimeter  perimeterJSON    `json:"perimeter"`
	Tables     map[string]Table `json:"tables"`
}

// MarshalJSON writes the snapshot wire form: tables keyed by id, perimeter
// in both units.
func (l Layout) MarshalJSON() ([]byte, error) {
	w := layoutJSON{
		ID:         l.ID,
		Name:       l.Name,
		Dimensions: l.Dimensions,
		Scale:      l.Scale,
		Perimeter: perimeterJSON{
			Meters: make([]orb.Point, len(l.Perimeter)),
			Pixels: make([]orb.Point, len(l.Perimeter)),
		},
		Tables: make(map[string]Table, len(l.Tables)),
	}
	for i, p := range l.Perimeter {
		w.Perimeter.Meters[i] = p
		w.Perimeter.Pixels[i] = orb.Point{p[0] * l.Scale, p[1] * l.Scale}
	}
	for _, t := range l.Tables {
		w.Tables[t.ID] = t
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the wire form. Meter coordinates win; a perimeter sent
// only in pixels is converted with the layout scale.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var w layoutJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = Layout{ID: w.ID, Name: w.Name, Dimensions: w.Dimensions, Scale: w.Scale}
	if l.Scale <= 0 {
		l.Scale = ScaleFor(w.Dimensions.WidthPx, w.Dimensions.WidthM)
	}
	switch {
	case len(w.Perimeter.Meters) > 0:
		l.Perimeter = w.Perimeter.Meters
	case len(w.Perimeter.Pixels) > 0:
		l.Perimeter = make([]orb.Point, len(w.Perimeter.Pixels))
		for i, p := range w.Perimeter.Pixels {
			l.Perimeter[i] = orb.Point{p[0] / l.Scale, p[1] / l.Scale}
		}
	}
	l.Tables = make([]Table, 0, len(w.Tables))
	for id, t := range w.Tables {
		if t.ID == "" {
			t.ID = id
		}
		l.Tables = append(l.Tables, t)
	}
	l.Normalize()
	return nil
}
