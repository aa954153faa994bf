package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// Duration reads a Go duration string ("90m") from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Settings are the planner parameters floorctl runs with.
type Settings struct {
	Margin  float64           `toml:"margin_m"`
	Window  Duration          `toml:"window"`
	Filters detection.Filters `toml:"filters"`
}

// DefaultSettings match the server defaults. The detection filters accept
// any size.
func DefaultSettings() Settings {
	return Settings{Margin: optimizer.DefaultMargin, Window: Duration{optimizer.DefaultWindow}}
}

// LoadSettings decodes path over DefaultSettings. Unknown keys are an
// error so a typo does not silently fall back to a default.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Settings{}, fmt.Errorf("read settings %s: unknown key %q", path, undec[0].String())
	}
	if s.Margin < 0 {
		return Settings{}, fmt.Errorf("read settings %s: margin_m must not be negative", path)
	}
	if s.Window.Duration <= 0 {
		return Settings{}, fmt.Errorf("read settings %s: window must be positive", path)
	}
	return s, nil
}
