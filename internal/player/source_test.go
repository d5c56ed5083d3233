package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceValidate(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "clip.webm")
	require.NoError(t, os.WriteFile(local, []byte("webm"), 0o644))

	tests := []struct {
		name    string
		src     Source
		wantErr bool
	}{
		{"http url", Source{URL: "https://example.com/video.mp4"}, false},
		{"local file", Source{URL: local}, false},
		{"file url", Source{URL: "file://" + local}, false},
		{"poster url", Source{URL: local, Poster: "https://example.com/poster.jpg"}, false},
		{"missing url", Source{}, true},
		{"missing file", Source{URL: filepath.Join(dir, "nope.ogg")}, true},
		{"bad poster", Source{URL: local, Poster: "not a poster"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.Normalized().Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSource)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourceNormalized(t *testing.T) {
	src := Source{URL: "  https://example.com/a.ogg ", Title: "  "}.Normalized()

	assert.Equal(t, "https://example.com/a.ogg", src.URL)
	assert.Equal(t, DefaultTitle, src.Title)
	assert.Equal(t, "Elephants Dream", Source{Title: "Elephants Dream"}.DisplayTitle())
}
