package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns a concatenated version string
func FullVersion() string {
	return fmt.Sprintf("%s-%s-%s", Version, GitCommit, BuildDate)
}

type IconType string

const (
	IconTypeASCII     IconType = "ascii"
	IconTypeEmoji     IconType = "emoji"
	IconTypeNerdFonts IconType = "nerdfonts"
)

// Config holds the global configuration for vidctl
type Config struct {
	OutputFormat string   `mapstructure:"output"`
	Verbosity    int      `mapstructure:"verbose"`
	Theme        string   `mapstructure:"theme"`
	IconType     IconType `mapstructure:"icon_type"`
	CacheDir     string   `mapstructure:"cache_dir"`
	NoCache      bool     `mapstructure:"no_cache"`

	// Playback
	MpvPath          string  `mapstructure:"mpv_path"`
	Tct              bool    `mapstructure:"tct"`
	IdleHideMs       int     `mapstructure:"idle_hide_ms"`
	SkipSeconds      float64 `mapstructure:"skip_seconds"`
	VolumeStep       float64 `mapstructure:"volume_step"`
	InitialVolume    float64 `mapstructure:"initial_volume"`
	CloseVideoOnQuit bool    `mapstructure:"close_video_on_quit"`

	// Runtime only
	ConfigPath string       `mapstructure:"-"`
	LogFile    string       `mapstructure:"-"`
	Logger     *slog.Logger `mapstructure:"-"`
	LogLevel   *slog.LevelVar
}

var (
	instance *Config
	once     sync.Once
)

const (
	LevelTrace slog.Level = -8
)

// Defaults returns a configuration populated with the built-in values
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	lvl := &slog.LevelVar{}
	lvl.Set(slog.LevelInfo)
	return &Config{
		Logger:           slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})),
		LogLevel:         lvl,
		OutputFormat:     "table",
		IconType:         IconTypeASCII,
		CacheDir:         filepath.Join(home, ".vidctl", "cache"),
		MpvPath:          "mpv",
		IdleHideMs:       3000,
		SkipSeconds:      10,
		VolumeStep:       0.1,
		InitialVolume:    1,
		CloseVideoOnQuit: true,
	}
}

// Get returns the global configuration singleton
func Get() *Config {
	once.Do(func() {
		instance = Defaults()
	})
	return instance
}

// IdleHide is the pointer-idle period after which playing controls are hidden
func (c *Config) IdleHide() time.Duration {
	if c.IdleHideMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.IdleHideMs) * time.Millisecond
}

// Normalize clamps out-of-range playback settings back to usable values
func (c *Config) Normalize() {
	if c.SkipSeconds <= 0 {
		c.SkipSeconds = 10
	}
	if c.VolumeStep <= 0 || c.VolumeStep > 1 {
		c.VolumeStep = 0.1
	}
	if c.InitialVolume < 0 || c.InitialVolume > 1 {
		c.InitialVolume = 1
	}
	if c.MpvPath == "" {
		c.MpvPath = "mpv"
	}
	switch c.IconType {
	case IconTypeASCII, IconTypeEmoji, IconTypeNerdFonts:
	default:
		c.IconType = IconTypeASCII
	}
}

// SetupLogging initializes the global logger based on verbosity
func (c *Config) SetupLogging() {
	var level slog.Level
	switch {
	case c.Verbosity >= 2:
		level = LevelTrace
	case c.Verbosity >= 1:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	c.LogLevel.Set(level)

	opts := &slog.HandlerOptions{
		Level: c.LogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)
				if level == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	var writer io.Writer = os.Stderr
	if c.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(c.LogFile), 0755)
		f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			writer = f
		}
	}

	c.Logger = slog.New(slog.NewTextHandler(writer, opts))
	slog.SetDefault(c.Logger)
}

// Enabled returns true if the given level is enabled
func (c *Config) Enabled(level slog.Level) bool {
	return c.LogLevel.Level() <= level
}

// Save persists the current configuration to disk
func (c *Config) Save() error {
	viper.Set("output", c.OutputFormat)
	viper.Set("verbose", c.Verbosity)
	viper.Set("theme", c.Theme)
	viper.Set("icon_type", c.IconType)
	viper.Set("cache_dir", c.CacheDir)
	viper.Set("mpv_path", c.MpvPath)
	viper.Set("tct", c.Tct)
	viper.Set("idle_hide_ms", c.IdleHideMs)
	viper.Set("skip_seconds", c.SkipSeconds)
	viper.Set("volume_step", c.VolumeStep)
	viper.Set("initial_volume", c.InitialVolume)
	viper.Set("close_video_on_quit", c.CloseVideoOnQuit)

	if c.ConfigPath != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.ConfigPath = filepath.Join(home, ".vidctl.yaml")
	return viper.WriteConfigAs(c.ConfigPath)
}
