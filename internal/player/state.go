package player

import (
	"math"
	"slices"
)

type LoadState int

const (
	Loading LoadState = iota
	Ready
	Errored
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Rates is the fixed set of selectable playback rates
var Rates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// ValidRate reports whether rate is one of Rates
func ValidRate(rate float64) bool {
	return slices.Contains(Rates, rate)
}

// PlayerState is the UI-facing mirror of the engine
type PlayerState struct {
	Source          Source
	Playing         bool
	CurrentTime     float64
	Duration        float64 // 0 while unknown
	Volume          float64
	Muted           bool
	PlaybackRate    float64
	Fullscreen      bool
	ControlsVisible bool
	Focused         bool
	LoadState       LoadState
	ErrorMessage    string
}

func (s PlayerState) Errored() bool { return s.LoadState == Errored }

func (s PlayerState) Loading() bool { return s.LoadState == Loading }

// HasDuration is false for live streams and before metadata arrives
func (s PlayerState) HasDuration() bool {
	return s.Duration > 0 && !math.IsInf(s.Duration, 0) && !math.IsNaN(s.Duration)
}

// Progress returns the playback position as a percentage of the duration
func (s PlayerState) Progress() float64 {
	if !s.HasDuration() {
		return 0
	}
	return math.Min(100, s.CurrentTime/s.Duration*100)
}

// EffectiveVolume is what the engine is actually outputting
func (s PlayerState) EffectiveVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

func newState(src Source, volume float64) PlayerState {
	return PlayerState{
		Source:          src,
		Volume:          volume,
		Muted:           volume == 0,
		PlaybackRate:    1,
		ControlsVisible: true,
		LoadState:       Loading,
	}
}

// settle enforces that paused or errored players always show controls
func (s *PlayerState) settle() {
	if !s.Playing || s.LoadState == Errored {
		s.ControlsVisible = true
	}
}
