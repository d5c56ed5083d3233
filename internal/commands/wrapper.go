package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ygelfand/vidctl/internal/cache"
	"github.com/ygelfand/vidctl/internal/history"
	"github.com/ygelfand/vidctl/internal/presenters"
	"github.com/ygelfand/vidctl/internal/ui"
)

// RunnerFunc defines the signature for a command handler that receives the history store
type RunnerFunc func(ctx context.Context, store *history.Store, cmd *cobra.Command, args []string, opts *VidctlOptions) error

// RunWithHistory wraps a cobra command RunE function to inject the history store
// backed by the shared cache
func RunWithHistory(runner RunnerFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := CurrentOptions()

		m, err := cache.Default()
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		return runner(cmd.Context(), history.New(m), cmd, args, opts)
	}
}

// CurrentOptions reads the shared flags after config is loaded
func CurrentOptions() *VidctlOptions {
	return &VidctlOptions{
		OutputFormat: viper.GetString("output"),
		Verbosity:    viper.GetInt("verbose"),
		Sort:         viper.GetString("sort"),
	}
}

// Print formats and prints data using the provided Presenter
func Print(p presenters.Presenter, opts *VidctlOptions) error {
	sortCol := opts.Sort
	if sortCol == "" {
		sortCol = p.DefaultSort()
	}

	if sortCol != "" && !p.SortBy(sortCol) {
		return fmt.Errorf("cannot sort by %q (sortable: %v)", sortCol, p.SortableColumns())
	}

	data := ui.OutputData{
		Title:   p.Title(),
		Headers: p.Headers(),
		Rows:    p.Rows(),
		Raw:     p.Raw(),
	}

	return data.Print()
}
