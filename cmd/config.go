package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/ui"
)

// settableKeys are the config keys `config set` accepts
var settableKeys = []string{
	"output", "theme", "icon_type", "cache_dir", "mpv_path", "tct",
	"idle_hide_ms", "skip_seconds", "volume_step", "initial_volume", "close_video_on_quit",
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show the active configuration",
	Args:    cobra.NoArgs,
	GroupID: "manage",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		path := cfg.ConfigPath
		if path == "" {
			path = "(none, using defaults)"
		}
		ui.RenderSummary(os.Stdout, "Configuration", []ui.SummaryItem{
			{Label: "Config file", Value: path},
			{Label: "Theme", Value: ui.CurrentTheme().DisplayName()},
			{Label: "Icons", Value: string(cfg.IconType)},
			{Label: "Output", Value: cfg.OutputFormat},
			{Label: "Cache dir", Value: cfg.CacheDir},
			{Label: "mpv", Value: cfg.MpvPath},
			{Label: "Terminal video", Value: strconv.FormatBool(cfg.Tct)},
			{Label: "Hide controls after", Value: cfg.IdleHide().String()},
			{Label: "Skip step", Value: fmt.Sprintf("%gs", cfg.SkipSeconds)},
			{Label: "Volume step", Value: ui.FormatPercent(cfg.VolumeStep)},
			{Label: "Initial volume", Value: ui.FormatPercent(cfg.InitialVolume)},
			{Label: "Close video on quit", Value: strconv.FormatBool(cfg.CloseVideoOnQuit)},
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change a setting and save it to the config file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: settableKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !slices.Contains(settableKeys, key) {
			return fmt.Errorf("unknown setting %q (one of %v)", key, settableKeys)
		}

		cfg := config.Get()
		viper.Set(key, value)
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		cfg.Normalize()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		ui.RenderSuccess(fmt.Sprintf("Saved %s to %s", key, cfg.ConfigPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}
