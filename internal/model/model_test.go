package model

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() Layout {
	l := Layout{
		ID:         7,
		Name:       "terrace",
		Dimensions: Dimensions{WidthPx: 200, HeightPx: 100, WidthM: 10, HeightM: 5},
		Perimeter:  []orb.Point{{0, 0}, {10, 0}, {10, 5}, {0, 5}},
		Tables: []Table{
			{ID: "T2", Kind: RoundTable, Rect: Rect{Meters: Box{6, 1, 7, 2}}, Chairs: []Chair{
				{ID: "C3", Kind: RoundChair, Rect: Rect{Meters: Box{6, 0.4, 6.5, 0.9}}},
			}},
			{ID: "T1", Kind: SquareTable, Rect: Rect{Meters: Box{1, 1, 2, 2}}, Chairs: []Chair{
				{ID: "C1", Kind: SquareChair, Rect: Rect{Meters: Box{1, 0.4, 1.5, 0.9}}},
				{ID: "C2", Kind: SquareChair, Rect: Rect{Meters: Box{1, 2.1, 1.5, 2.6}}},
			}},
		},
	}
	l.Normalize()
	return l
}

func TestScaleFor(t *testing.T) {
	assert.Equal(t, 20.0, ScaleFor(200, 10))
	assert.Equal(t, DefaultPixelsPerMeter, ScaleFor(0, 10))
	assert.Equal(t, DefaultPixelsPerMeter, ScaleFor(640, 0))
}

func TestNormalize_SortsAndRescales(t *testing.T) {
	l := sampleLayout()
	require.Len(t, l.Tables, 2)
	assert.Equal(t, "T1", l.Tables[0].ID)
	assert.Equal(t, Box{20, 20, 40, 40}, l.Tables[0].Rect.Pixels)
	assert.Equal(t, Box{20, 8, 30, 18}, l.Tables[0].Chairs[0].Rect.Pixels)
	assert.Equal(t, TableFree, l.Tables[1].State)
}

func TestTable_CapacityFollowsChairs(t *testing.T) {
	l := sampleLayout()
	tb, ok := l.Table("T1")
	require.True(t, ok)
	assert.Equal(t, 2, tb.Capacity())
	assert.Equal(t, 3, l.FreeCapacity())
	assert.Equal(t, 3, l.ChairCount())

	l.Tables[0].State = TableReserved
	assert.Equal(t, 1, l.FreeCapacity())
}

func TestLayoutJSON_RoundTrip(t *testing.T) {
	l := sampleLayout()
	data, err := json.Marshal(l)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	tables := wire["tables"].(map[string]any)
	assert.Contains(t, tables, "T1")
	assert.Equal(t, 2.0, tables["T1"].(map[string]any)["capacity"])
	assert.Equal(t, "round", tables["T2"].(map[string]any)["type"])

	var back Layout
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, l.Tables, back.Tables)
	assert.Equal(t, l.Perimeter, back.Perimeter)
	assert.Equal(t, l.Scale, back.Scale)
	assert.Equal(t, l.Dimensions, back.Dimensions)
}

func TestLayoutJSON_PixelPerimeterConverted(t *testing.T) {
	raw := `{"dimensions":{"width_px":100,"height_px":50,"width_m":5,"height_m":2.5},
		"perimeter":{"pixels":[[0,0],[100,0],[100,50],[0,50]]},"tables":{}}`
	var l Layout
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, 20.0, l.Scale)
	assert.Equal(t, orb.Point{5, 2.5}, l.Perimeter[2])
}

func TestLayout_CloneIsDeep(t *testing.T) {
	l := sampleLayout()
	c := l.Clone()
	c.Tables[0].Chairs[0].ID = "changed"
	c.Perimeter[0] = orb.Point{9, 9}
	assert.Equal(t, "C1", l.Tables[0].Chairs[0].ID)
	assert.Equal(t, orb.Point{0, 0}, l.Perimeter[0])
}

func TestLayout_OutlineFallback(t *testing.T) {
	l := sampleLayout()
	r, fallback := l.Outline()
	assert.False(t, fallback)
	assert.Equal(t, r[0], r[len(r)-1])

	l.Perimeter = nil
	r, fallback = l.Outline()
	assert.True(t, fallback)
	assert.Equal(t, orb.Point{10, 5}, r[2])

	l.Dimensions = Dimensions{}
	r, fallback = l.Outline()
	assert.True(t, fallback)
	assert.Equal(t, orb.Point{1, 0.4}, r[0])
	assert.Equal(t, orb.Point{7, 2.6}, r[2])
}

func TestBox_Valid(t *testing.T) {
	assert.True(t, Box{0, 0, 1, 1}.Valid())
	assert.False(t, Box{0, 0, 0, 1}.Valid())
	assert.False(t, Box{1, 0, 0, 1}.Valid())
}

func TestKinds_ParseLabels(t *testing.T) {
	k, ok := ParseTableKind("Mesa redonda")
	require.True(t, ok)
	assert.Equal(t, RoundTable, k)

	c, ok := ParseChairKind("sillas_cuadradas")
	require.True(t, ok)
	assert.Equal(t, SquareChair, c)

	_, ok = ParseTableKind("sofa")
	assert.False(t, ok)

	var tk TableKind
	assert.Error(t, json.Unmarshal([]byte(`"hexagon"`), &tk))
}

func TestKind_ZeroIsNotValid(t *testing.T) {
	var tb Table
	require.NoError(t, json.Unmarshal([]byte(`{"id": "T1", "chairs": [{"id": "C1"}]}`), &tb))
	assert.False(t, tb.Kind.Valid())
	assert.False(t, tb.Chairs[0].Kind.Valid())
	_, err := json.Marshal(tb)
	assert.Error(t, err)

	assert.True(t, SquareTable.Valid())
	assert.True(t, RoundChair.Valid())
}
