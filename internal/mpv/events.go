package mpv

import (
	"github.com/dexterlb/mpvipc"
	"github.com/ygelfand/vidctl/internal/player"
)

// observed property ids
const (
	propPause = iota + 1
	propTimePos
	propDuration
	propVolume
	propMute
	propSpeed
	propFullscreen
	propEOF
)

var observed = []struct {
	id   int
	name string
}{
	{propPause, "pause"},
	{propTimePos, "time-pos"},
	{propDuration, "duration"},
	{propVolume, "volume"},
	{propMute, "mute"},
	{propSpeed, "speed"},
	{propFullscreen, "fullscreen"},
	{propEOF, "eof-reached"},
}

// tracker folds mpv's event stream into media element events. mpv reports
// properties one at a time, so volume and mute are remembered to build a
// complete volumechange.
type tracker struct {
	loaded   bool
	duration float64
	volume   float64
	muted    bool
}

func newTracker() *tracker {
	return &tracker{volume: 1}
}

// translate maps one mpv event. fullscreen is non-nil when the event was a
// fullscreen property change.
func (t *tracker) translate(ev *mpvipc.Event) (out []player.Event, fullscreen *bool) {
	if ev == nil {
		return nil, nil
	}

	switch ev.Name {
	case "start-file":
		t.loaded = false
		t.duration = 0
		return []player.Event{{Type: player.EventLoadStart}}, nil
	case "file-loaded":
		t.loaded = true
		return []player.Event{{Type: player.EventLoadedMetadata, Duration: t.duration}}, nil
	case "end-file":
		switch ev.Reason {
		case "error":
			t.loaded = false
			return []player.Event{{Type: player.EventError, Detail: "mpv: end-file error"}}, nil
		case "eof":
			return []player.Event{{Type: player.EventEnded}}, nil
		}
		return nil, nil
	case "property-change":
		return t.property(ev)
	}
	return nil, nil
}

func (t *tracker) property(ev *mpvipc.Event) ([]player.Event, *bool) {
	if ev.Data == nil {
		return nil, nil
	}

	switch ev.ID {
	case propPause:
		paused, ok := ev.Data.(bool)
		if !ok || !t.loaded {
			return nil, nil
		}
		if paused {
			return []player.Event{{Type: player.EventPause}}, nil
		}
		return []player.Event{{Type: player.EventPlay}}, nil
	case propTimePos:
		pos, ok := ev.Data.(float64)
		if !ok || !t.loaded {
			return nil, nil
		}
		return []player.Event{{Type: player.EventTimeUpdate, Time: pos}}, nil
	case propDuration:
		d, ok := ev.Data.(float64)
		if !ok {
			return nil, nil
		}
		t.duration = d
		if !t.loaded {
			return nil, nil
		}
		return []player.Event{{Type: player.EventLoadedMetadata, Duration: d}}, nil
	case propVolume:
		v, ok := ev.Data.(float64)
		if !ok {
			return nil, nil
		}
		t.volume = v / 100
		return []player.Event{t.volumeChange()}, nil
	case propMute:
		m, ok := ev.Data.(bool)
		if !ok {
			return nil, nil
		}
		t.muted = m
		return []player.Event{t.volumeChange()}, nil
	case propSpeed:
		r, ok := ev.Data.(float64)
		if !ok {
			return nil, nil
		}
		return []player.Event{{Type: player.EventRateChange, Rate: r}}, nil
	case propFullscreen:
		fs, ok := ev.Data.(bool)
		if !ok {
			return nil, nil
		}
		return nil, &fs
	case propEOF:
		if eof, ok := ev.Data.(bool); ok && eof && t.loaded {
			return []player.Event{{Type: player.EventEnded}}, nil
		}
	}
	return nil, nil
}

func (t *tracker) volumeChange() player.Event {
	return player.Event{Type: player.EventVolumeChange, Volume: t.volume, Muted: t.muted}
}
