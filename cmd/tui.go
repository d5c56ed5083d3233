package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ygelfand/vidctl/internal/cache"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/player"
	"github.com/ygelfand/vidctl/internal/tui"
	"github.com/ygelfand/vidctl/internal/ui"
)

// logToFile moves logging off the terminal before the TUI takes it over
func logToFile() {
	cfg := config.Get()
	cfg.LogFile = filepath.Join(cfg.CacheDir, "tui.log")
	cfg.SetupLogging()
	slog.Info("TUI Starting", "log_file", cfg.LogFile, "verbosity", cfg.Verbosity)
}

func runTUI(ctx context.Context, ctrl *player.Controller, store *history.Store) error {
	cfg := config.Get()

	m, err := cache.Default()
	if err != nil {
		slog.Warn("TUI: poster cache unavailable", "error", err)
	}

	err = tui.Run(ctx, ctrl, tui.Options{
		Theme:    ui.CurrentTheme(),
		Icons:    cfg.IconType,
		Cache:    m,
		History:  store,
		Autoplay: autoplay,
	})
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("TUI: Program run failed", "error", err)
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	slog.Info("TUI Finished normally")
	return nil
}
