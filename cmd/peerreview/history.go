package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kingrea/peerreview/internal/journal"
	"github.com/kingrea/peerreview/internal/output"
	"github.com/kingrea/peerreview/internal/scoring"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded submission attempts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), c, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func runHistory(ctx context.Context, c *cli, limit int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if !cfg.JournalEnabled() {
		c.ui.Warning("The journal is disabled in %s", cfg.ProjectConfigPath())
		return nil
	}
	store, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		c.ui.Info("No submissions recorded yet.")
		return nil
	}

	table := c.ui.Table([]string{"When", "Reviewer", "Presenter", "Total", "Status", "Attempt", "Detail"})
	for _, e := range entries {
		detail := e.Error
		if detail == "" && e.StatusCode != 0 {
			detail = "HTTP " + strconv.Itoa(e.StatusCode)
		}
		total := scoring.FormatTotal(e.Total)
		_ = table.Append([]string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Reviewer,
			e.Presenter,
			output.TotalColor(e.Total, total),
			output.StatusColor(string(e.Status)),
			strconv.Itoa(e.Attempt),
			detail,
		})
	}
	return table.Render()
}
