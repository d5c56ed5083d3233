package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ygelfand/vidctl/internal/commands"
	"github.com/ygelfand/vidctl/internal/config"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/mpv"
	"github.com/ygelfand/vidctl/internal/player"
	"github.com/ygelfand/vidctl/internal/tui"
	"github.com/ygelfand/vidctl/internal/ui"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

var (
	posterURL string
	title     string
	layout    string
	tctMode   bool
	headless  bool
	autoplay  bool
)

// errStopped ends the play run group without reporting a failure
var errStopped = errors.New("playback stopped")

var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Play a video URL or file",
	Long: `Play a video URL or local file in mpv with the vidctl control bar.
Without a source, pick one from the playback history.`,
	Args:    cobra.MaximumNArgs(1),
	GroupID: "playback",
	RunE: commands.RunWithHistory(func(ctx context.Context, store *history.Store, cmd *cobra.Command, args []string, opts *commands.VidctlOptions) error {
		src, err := resolveSource(store, args)
		if err != nil {
			return err
		}
		return play(ctx, store, src)
	}),
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&posterURL, "poster", "", "poster image URL or file shown before playback starts")
	playCmd.Flags().StringVar(&title, "title", "", "title shown above the video (default \"Video Player\")")
	playCmd.Flags().StringVar(&layout, "layout", "", "layout hint passed through to the player")
	playCmd.Flags().BoolVar(&tctMode, "tct", false, "Use terminal video (implies --headless)")
	playCmd.Flags().BoolVar(&headless, "headless", false, "Log playback state instead of running the control bar")
	playCmd.Flags().BoolVar(&autoplay, "autoplay", false, "Start playback as soon as the video is ready")
}

// resolveSource builds the source from the argument and flags, or asks the
// user to pick a previously played one
func resolveSource(store *history.Store, args []string) (player.Source, error) {
	if len(args) == 1 {
		return applyFlags(player.Source{URL: args[0]}), nil
	}

	entries, err := store.List()
	if err != nil {
		return player.Source{}, err
	}
	if len(entries) == 0 {
		return player.Source{}, fmt.Errorf("no source given and no playback history")
	}

	choices := make([]ui.Choice, 0, len(entries))
	for _, e := range entries {
		choices = append(choices, ui.Choice{Title: e.Title, Desc: e.URL, Value: e.URL})
	}
	choice, err := ui.SelectOption("Play again", choices)
	if err != nil {
		return player.Source{}, err
	}
	for _, e := range entries {
		if e.URL == choice {
			return applyFlags(e.Source()), nil
		}
	}
	return player.Source{}, ui.ErrNoSelection
}

func applyFlags(src player.Source) player.Source {
	if posterURL != "" {
		src.Poster = posterURL
	}
	if title != "" {
		src.Title = title
	}
	if layout != "" {
		src.Layout = layout
	}
	return src
}

func play(ctx context.Context, store *history.Store, src player.Source) error {
	cfg := config.Get()
	tct := tctMode || cfg.Tct
	interactive := !headless && !tct && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		logToFile()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := mpv.New(mpv.Options{
		Path:        cfg.MpvPath,
		Tct:         tct,
		QuitOnClose: cfg.CloseVideoOnQuit,
		Logger:      cfg.Logger,
	})
	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Debug("Play: engine close failed", "error", err)
		}
	}()

	ctrl := player.New(engine, engine,
		player.WithLogger(cfg.Logger),
		player.WithIdleHide(cfg.IdleHide()),
		player.WithSkipStep(cfg.SkipSeconds),
		player.WithVolumeStep(cfg.VolumeStep),
		player.WithInitialVolume(cfg.InitialVolume),
	)
	if err := ctrl.Mount(ctx, src); err != nil {
		return err
	}
	defer ctrl.Close()

	slog.Info("Playing", "title", src.DisplayTitle(), "url", src.URL, "engine", engine.ID())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-engine.Exited():
			slog.Info("Play: mpv exited")
		case <-gctx.Done():
		}
		return errStopped
	})
	g.Go(func() error {
		var err error
		if interactive {
			err = runTUI(gctx, ctrl, store)
		} else {
			err = runHeadless(gctx, os.Stdout, ctrl, store)
		}
		if err != nil {
			return err
		}
		return errStopped
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errStopped) {
		return err
	}
	return nil
}

// runHeadless plays the source and prints state changes until ctx ends
func runHeadless(ctx context.Context, w io.Writer, ctrl *player.Controller, store *history.Store) error {
	fmt.Fprintf(w, "Playing %s. Press Ctrl+C to stop.\n", ctrl.State().Source.DisplayTitle())

	progress := rate.Sometimes{Interval: 5 * time.Second}
	var prev player.PlayerState
	requested, recorded := false, false
	updates := ctrl.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			if s.LoadState == player.Ready && !requested {
				requested = true
				if err := ctrl.TogglePlay(); err != nil {
					return err
				}
			}
			if s.Playing && !recorded {
				recorded = true
				if err := store.Record(s.Source, time.Now()); err != nil {
					slog.Warn("Play: history write failed", "error", err)
				}
			}

			line := tui.StateLine(s)
			if transportChanged(prev, s) {
				fmt.Fprintln(w, line)
			} else {
				progress.Do(func() { fmt.Fprintln(w, line) })
			}
			prev = s
		}
	}
}

// transportChanged ignores the playhead and control visibility
func transportChanged(a, b player.PlayerState) bool {
	a.CurrentTime, b.CurrentTime = 0, 0
	a.ControlsVisible, b.ControlsVisible = false, false
	return a != b
}
