package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dp-coding/zammad-tui/internal/app"
	"github.com/dp-coding/zammad-tui/internal/config"
	"github.com/dp-coding/zammad-tui/internal/tracker"
	"github.com/dp-coding/zammad-tui/internal/zammad"
)

var rootCmd = &cobra.Command{
	Use:   "zammad-tui",
	Short: "Browse Zammad tickets, track time and create ticket branches",
	Long: `zammad-tui is a terminal client for a Zammad helpdesk instance.

It lists the open tickets assigned to you, shows their tags and articles,
records billable time against a ticket, and creates git branches named after
a ticket.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Open()
		if err != nil {
			return err
		}
		setupLogging(store)

		svc := zammad.NewService(store)
		trk := tracker.New()
		if _, err := app.NewProgram(svc, trk).Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// setupLogging sends slog to a file next to the settings; stdout belongs to
// the TUI.
func setupLogging(store *config.Store) {
	var w io.Writer = io.Discard
	if dir := store.Dir(); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err == nil {
			if f, err := os.OpenFile(filepath.Join(dir, "zammad-tui.log"),
				os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
				w = f
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
}
