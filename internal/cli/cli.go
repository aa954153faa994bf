// Package cli implements floorctl, an offline front end to the planner.
// Every command reads JSON files, runs one optimizer or detection step and
// writes JSON to stdout; nothing touches the database.
//
// Planner settings come from an optional TOML file (--config):
//
//	margin_m = 0.2
//	window   = "90m"
//
//	[filters.table]
//	min_side = 0.4
//	max_side = 3.0
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
	settings   Settings
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
			Prefix:          "floorctl",
		}),
		settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "floorctl",
		Short:        "Plan, simulate and redistribute venue floors offline",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath == "" {
				return nil
			}
			s, err := LoadSettings(c.configPath)
			if err != nil {
				return err
			}
			c.settings = s
			c.Logger.Debug("settings loaded", "path", c.configPath, "margin", s.Margin, "window", s.Window)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML planner settings file")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.redistributeCommand())
	root.AddCommand(c.groupCommand())
	return root
}

func (c *CLI) options() optimizer.Options {
	return optimizer.Options{Margin: c.settings.Margin, Window: c.settings.Window.Duration, Logger: c.Logger}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
