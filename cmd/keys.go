package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ygelfand/vidctl/internal/commands"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/player"
	"github.com/ygelfand/vidctl/internal/presenters"
	"github.com/ygelfand/vidctl/internal/tui"
)

var keysCmd = &cobra.Command{
	Use:     "keys",
	Short:   "List the keyboard shortcuts of the player",
	Args:    cobra.NoArgs,
	GroupID: "playback",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := player.DefaultKeyMap(config.Get().SkipSeconds)
		return commands.Print(presenters.NewKeysPresenter(tui.Bindings(keys)), commands.CurrentOptions())
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
