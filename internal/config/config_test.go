package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 3*time.Second, cfg.IdleHide())
	assert.Equal(t, 10.0, cfg.SkipSeconds)
	assert.Equal(t, 0.1, cfg.VolumeStep)
	assert.Equal(t, 1.0, cfg.InitialVolume)
	assert.Equal(t, "mpv", cfg.MpvPath)
	assert.True(t, cfg.CloseVideoOnQuit)
}

func TestNormalizeRepairsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.SkipSeconds = -4
	cfg.VolumeStep = 3
	cfg.InitialVolume = 1.5
	cfg.MpvPath = ""
	cfg.IconType = "sparkles"
	cfg.IdleHideMs = 0

	cfg.Normalize()

	assert.Equal(t, 10.0, cfg.SkipSeconds)
	assert.Equal(t, 0.1, cfg.VolumeStep)
	assert.Equal(t, 1.0, cfg.InitialVolume)
	assert.Equal(t, "mpv", cfg.MpvPath)
	assert.Equal(t, IconTypeASCII, cfg.IconType)
	assert.Equal(t, 3*time.Second, cfg.IdleHide())
}

func TestSetupLoggingLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, LevelTrace},
		{5, LevelTrace},
	}

	for _, tt := range tests {
		cfg := Defaults()
		cfg.Verbosity = tt.verbosity
		cfg.LogFile = t.TempDir() + "/vidctl.log"
		cfg.SetupLogging()

		assert.Equal(t, tt.want, cfg.LogLevel.Level(), "verbosity %d", tt.verbosity)
		assert.True(t, cfg.Enabled(tt.want))
	}
}
