package presenters

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygelfand/vidctl/internal/history"
)

func TestHistoryPresenterSort(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	p := &HistoryPresenter{Items: []history.Entry{
		{URL: "https://example.com/b.mp4", Title: "sintel", PlayedAt: t0},
		{URL: "https://example.com/a.mp4", Title: "Big Buck Bunny", Poster: "https://example.com/a.jpg", PlayedAt: t0.Add(time.Hour)},
	}}

	require.True(t, p.SortBy(p.DefaultSort()))
	assert.Equal(t, "Big Buck Bunny", p.Items[0].Title)

	require.True(t, p.SortBy("TITLE"))
	assert.Equal(t, "Big Buck Bunny", p.Items[0].Title)

	require.True(t, p.SortBy("source"))
	assert.Equal(t, "https://example.com/a.mp4", p.Items[0].URL)

	assert.False(t, p.SortBy("poster"))

	rows := p.Rows()
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(p.Headers()))
	assert.Equal(t, "https://example.com/a.jpg", rows[0][3])
	assert.Equal(t, "-", rows[1][3])
}

func TestKeysPresenter(t *testing.T) {
	p := NewKeysPresenter([]key.Binding{
		key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "mute/unmute")),
		key.NewBinding(key.WithKeys("x"), key.WithDisabled()),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
	})

	require.Len(t, p.Items, 2)
	assert.Equal(t, []string{"m", "M"}, p.Items[0].Keys)
	assert.Equal(t, [][]string{{"m", "mute/unmute"}, {"f", "fullscreen"}}, p.Rows())

	require.True(t, p.SortBy("key"))
	assert.Equal(t, "f", p.Items[0].Key)
	assert.False(t, p.SortBy("keys"))
}
