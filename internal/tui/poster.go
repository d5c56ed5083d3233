package tui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gopixels "github.com/saran13raj/go-pixels"
	"github.com/ygelfand/vidctl/internal/cache"
	_ "golang.org/x/image/webp"
)

const (
	posterTTL      = 7 * 24 * time.Hour
	posterMaxBytes = 16 << 20
)

var posterClient = &http.Client{Timeout: 15 * time.Second}

// fetchPoster loads and renders the poster image at the given cell width.
// Rendered posters are cached by source and width.
func fetchPoster(ctx context.Context, m *cache.Manager, src string, width int) tea.Cmd {
	return func() tea.Msg {
		render := func() (*string, error) {
			start := time.Now()
			data, err := readPoster(ctx, src)
			if err != nil {
				return nil, err
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("decode poster: %w", err)
			}
			s, err := gopixels.FromImageStream(img, width, 0, "halfcell", true)
			if err != nil {
				return nil, fmt.Errorf("render poster: %w", err)
			}
			slog.Debug("Poster: rendered", "src", src, "width", width, "duration", time.Since(start))
			return &s, nil
		}

		var view string
		var err error
		if m != nil {
			err = cache.WithCache(m, fmt.Sprintf("poster/%d/%s", width, src), posterTTL, &view, render)
		} else {
			var s *string
			if s, err = render(); err == nil {
				view = *s
			}
		}
		if err != nil {
			slog.Debug("Poster: unavailable", "src", src, "error", err)
		}
		return posterMsg{view: view, err: err}
	}
}

func readPoster(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := posterClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("poster request: %s", resp.Status)
		}
		return io.ReadAll(io.LimitReader(resp.Body, posterMaxBytes))
	}
	return os.ReadFile(strings.TrimPrefix(src, "file://"))
}
