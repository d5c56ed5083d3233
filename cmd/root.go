package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/ui"
)

var (
	cfgFile    string
	sortCol    string
	noCache    bool
	outputType string
)

var rootCmd = &cobra.Command{
	Use:           "vidctl",
	Short:         "A terminal video player with a custom control surface",
	Version:       config.Version,
	Long:          `vidctl plays a video source through mpv and drives it from a keyboard and mouse friendly terminal control bar`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.RenderError(err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// assigned here rather than in the literal: loadConfig reads rootCmd's flags
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("vidctl version {{.Version}} (commit: %s, date: %s)\n", config.GitCommit, config.BuildDate))

	rootCmd.AddGroup(&cobra.Group{ID: "playback", Title: "Playback"})
	rootCmd.AddGroup(&cobra.Group{ID: "manage", Title: "Settings & History"})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vidctl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputType, "output", "o", "table", "Output format (table, json, json-pretty, yaml, csv, txt)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase verbosity")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the poster cache and playback history")
	viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))

	rootCmd.PersistentFlags().StringVar(&sortCol, "sort", "", "column to sort by")
	viper.BindPFlag("sort", rootCmd.PersistentFlags().Lookup("sort"))
}

var outputFormats = []string{"table", "json", "json-pretty", "yaml", "csv", "txt", "text"}

// loadConfig merges defaults, the config file, VIDCTL_* env and flags into
// the global config
func loadConfig() error {
	cfg := config.Get()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vidctl")
	}

	viper.SetEnvPrefix("VIDCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		cfg.ConfigPath = viper.ConfigFileUsed()
	} else if cfgFile != "" {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// an explicit -o wins over the file
	if rootCmd.PersistentFlags().Changed("output") {
		cfg.OutputFormat = outputType
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "table"
	}
	if !slices.Contains(outputFormats, cfg.OutputFormat) {
		return fmt.Errorf("invalid output format: %s", cfg.OutputFormat)
	}

	cfg.Normalize()
	cfg.SetupLogging()
	slog.Debug("Config loaded", "file", cfg.ConfigPath, "cache_dir", cfg.CacheDir, "no_cache", cfg.NoCache)

	viper.Set("output", cfg.OutputFormat)
	return nil
}
