package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

const layoutJSON = `{
  "name": "terrace",
  "dimensions": {"width_px": 200, "height_px": 200, "width_m": 10, "height_m": 10},
  "tables": {
    "T1": {"type": "square", "rect": {"meters": [1, 1, 1.8, 1.8]}, "chairs": [
      {"id": "C1", "type": "square", "rect": {"meters": [1, 0.4, 1.4, 0.8]}},
      {"id": "C2", "type": "square", "rect": {"meters": [1, 2, 1.4, 2.4]}}
    ]},
    "T2": {"type": "round", "rect": {"meters": [5, 5, 6.2, 6.2]}, "chairs": [
      {"id": "C3", "type": "round", "rect": {"meters": [5, 4.4, 5.4, 4.8]}},
      {"id": "C4", "type": "round", "rect": {"meters": [5, 6.4, 5.4, 6.8]}},
      {"id": "C5", "type": "round", "rect": {"meters": [4.4, 5, 4.8, 5.4]}},
      {"id": "C6", "type": "round", "rect": {"meters": [6.4, 5, 6.8, 5.4]}}
    ]}
  }
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.Bytes(), err
}

func TestPlanPicksLargestFittingTable(t *testing.T) {
	layout := writeFile(t, "layout.json", layoutJSON)

	out, err := run(t, "plan", layout, "--party", "3")
	require.NoError(t, err)
	var p optimizer.Proposal
	require.NoError(t, json.Unmarshal(out, &p))
	assert.Equal(t, []string{"T2"}, p.TableIDs)
	assert.False(t, p.Clustered())

	_, err = run(t, "plan", layout, "--party", "7")
	assert.Error(t, err)
}

func TestSimulateReplaysActiveReservations(t *testing.T) {
	layout := writeFile(t, "layout.json", layoutJSON)
	res := writeFile(t, "res.json", `[
	  {"id": 1, "code": "r1", "party_size": 4, "at": "2026-05-01T19:00:00Z", "status": "active", "table_ids": ["T2"]},
	  {"id": 2, "code": "r2", "party_size": 2, "at": "2026-05-01T23:00:00Z", "status": "active", "table_ids": ["T1"]}
	]`)

	out, err := run(t, "simulate", layout, res, "--at", "2026-05-01T20:00:00Z")
	require.NoError(t, err)
	var snap struct {
		Tables map[string]struct {
			State       string `json:"state"`
			Reservation string `json:"reservation"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(out, &snap))
	assert.Equal(t, "reserved", snap.Tables["T2"].State)
	assert.Equal(t, "r1", snap.Tables["T2"].Reservation)
	// exactly one window (3h) away does not overlap
	assert.Equal(t, "free", snap.Tables["T1"].State)

	_, err = run(t, "simulate", layout, res, "--at", "tonight")
	assert.Error(t, err)
}

func TestRedistributeWritesResult(t *testing.T) {
	layout := writeFile(t, "layout.json", layoutJSON)
	out, err := run(t, "redistribute", layout)
	require.NoError(t, err)
	var res map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Contains(t, res, "layout")
	assert.Contains(t, res, "moves")
}

func TestGroupDetections(t *testing.T) {
	det := writeFile(t, "det.json", `{
	  "name": "scan",
	  "width_px": 200, "height_px": 200, "width_m": 10, "height_m": 10,
	  "detections": [
	    {"label": "square table", "confidence": 0.9, "box": [20, 20, 36, 36]},
	    {"label": "chair", "confidence": 0.8, "box": [40, 20, 48, 28]},
	    {"label": "chair", "confidence": 0.1, "box": [60, 60, 68, 68]},
	    {"label": "plant", "confidence": 0.9, "box": [100, 100, 110, 110]}
	  ]
	}`)
	out, err := run(t, "group", det)
	require.NoError(t, err)
	var got struct {
		Layout struct {
			Tables map[string]struct {
				Capacity int `json:"capacity"`
			} `json:"tables"`
		} `json:"layout"`
		Dropped struct {
			LowConfidence int `json:"low_confidence"`
			Unknown       int `json:"unknown"`
		} `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.Layout.Tables, 1)
	for id, tbl := range got.Layout.Tables {
		assert.Regexp(t, `^M-`, id)
		assert.Equal(t, 1, tbl.Capacity)
	}
	assert.Equal(t, 1, got.Dropped.LowConfidence)
	assert.Equal(t, 1, got.Dropped.Unknown)
}

func TestGroupUsesSettingsFilters(t *testing.T) {
	cfg := writeFile(t, "floor.toml", `
[filters.table]
min_side = 1.5
`)
	det := writeFile(t, "det.json", `{
	  "width_px": 200, "height_px": 200, "width_m": 10, "height_m": 10,
	  "detections": [{"label": "table", "confidence": 0.9, "box": [20, 20, 36, 36]}]
	}`)
	out, err := run(t, "--config", cfg, "group", det)
	require.NoError(t, err)
	var got struct {
		Dropped struct {
			OutOfSize int `json:"out_of_size"`
		} `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, 1, got.Dropped.OutOfSize)
}

func TestLoadSettings(t *testing.T) {
	p := writeFile(t, "floor.toml", `
margin_m = 0.3
window = "90m"

[filters.chair]
max_side = 0.7
`)
	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.Margin)
	assert.Equal(t, 90*time.Minute, s.Window.Duration)
	assert.Equal(t, 0.7, s.Filters.Chair.MaxSide)

	s, err = LoadSettings(writeFile(t, "partial.toml", `margin_m = 0.05`))
	require.NoError(t, err)
	assert.Equal(t, optimizer.DefaultWindow, s.Window.Duration)

	_, err = LoadSettings(writeFile(t, "typo.toml", `margn_m = 0.3`))
	assert.ErrorContains(t, err, "unknown key")

	_, err = LoadSettings(writeFile(t, "bad.toml", `window = "soon"`))
	assert.Error(t, err)

	_, err = LoadSettings(writeFile(t, "neg.toml", `margin_m = -1.0`))
	assert.Error(t, err)
}
