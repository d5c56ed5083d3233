package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/ygelfand/vidctl/internal/commands"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/presenters"
	"github.com/ygelfand/vidctl/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:     "history [filter]",
	Short:   "Show recently played sources",
	Long:    `Show recently played sources, newest first. A filter fuzzy matches titles and URLs.`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: "manage",
	RunE: commands.RunWithHistory(func(ctx context.Context, store *history.Store, cmd *cobra.Command, args []string, opts *commands.VidctlOptions) error {
		entries, err := store.List()
		if err != nil {
			return err
		}

		p := &presenters.HistoryPresenter{Items: entries}
		if len(args) == 1 {
			slog.Debug("History: filtering", "query", args[0], "entries", len(entries))
			p.Items = history.Filter(entries, args[0])
			p.Ranked = true
		}
		return commands.Print(p, opts)
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recently played source",
	Args:  cobra.NoArgs,
	RunE: commands.RunWithHistory(func(ctx context.Context, store *history.Store, cmd *cobra.Command, args []string, opts *commands.VidctlOptions) error {
		if err := store.Clear(); err != nil {
			return err
		}
		ui.RenderSuccess("Playback history cleared")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
}
