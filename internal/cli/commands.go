package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

func (c *CLI) planCommand() *cobra.Command {
	var party int
	cmd := &cobra.Command{
		Use:   "plan <layout.json>",
		Short: "Propose tables for a party on a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l model.Layout
			if err := readJSON(args[0], &l); err != nil {
				return err
			}
			p, err := optimizer.Plan(l, party, c.options())
			if err != nil {
				return err
			}
			c.Logger.Info("planned", "party", party, "tables", p.TableIDs, "cluster", p.Clustered())
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().IntVarP(&party, "party", "n", 0, "party size")
	_ = cmd.MarkFlagRequired("party")
	return cmd
}

func (c *CLI) simulateCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "simulate <layout.json> <reservations.json>",
		Short: "Rebuild the floor at an instant from a base layout and its reservations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			instant, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			var base model.Layout
			if err := readJSON(args[0], &base); err != nil {
				return err
			}
			var res []model.Reservation
			if err := readJSON(args[1], &res); err != nil {
				return err
			}
			snap := optimizer.Simulate(base, res, instant.UTC(), c.options())
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "instant, RFC 3339")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (c *CLI) redistributeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redistribute <layout.json>",
		Short: "Spread every table evenly over the free floor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var l model.Layout
			if err := readJSON(args[0], &l); err != nil {
				return err
			}
			res, err := optimizer.Redistribute(cmd.Context(), l, c.options())
			if err != nil {
				return err
			}
			if len(res.Unplaced) > 0 {
				c.Logger.Warn("tables left in place", "unplaced", res.Unplaced)
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (c *CLI) groupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "group <detections.json>",
		Short: "Build a layout from detector output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req detection.Request
			if err := readJSON(args[0], &req); err != nil {
				return err
			}
			if req.Filters == (detection.Filters{}) {
				req.Filters = c.settings.Filters
			}
			l, rep, err := detection.Grouper{Logger: c.Logger}.Group(req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Layout  model.Layout     `json:"layout"`
				Dropped detection.Report `json:"dropped"`
			}{l, rep})
		},
	}
}
