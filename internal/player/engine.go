package player

import "context"

type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventEnded
	EventTimeUpdate
	EventLoadedMetadata
	EventVolumeChange
	EventRateChange
	EventError
	EventLoadStart
)

func (t EventType) String() string {
	switch t {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventTimeUpdate:
		return "timeupdate"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventVolumeChange:
		return "volumechange"
	case EventRateChange:
		return "ratechange"
	case EventError:
		return "error"
	case EventLoadStart:
		return "loadstart"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by the engine. Only the fields relevant to
// Type are populated.
type Event struct {
	Type     EventType
	Time     float64 // timeupdate
	Duration float64 // loadedmetadata
	Volume   float64 // volumechange, 0..1
	Muted    bool    // volumechange
	Rate     float64 // ratechange
	Detail   string  // error
}

// Engine is the media engine a controller drives. Calls are requests; the
// engine confirms them through the events delivered to Subscribe handlers.
type Engine interface {
	// ID identifies the underlying media surface; two controllers may not
	// share one.
	ID() string
	Load(ctx context.Context, url, title string) error
	// Play may block until the engine accepts or refuses the request.
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	SetVolume(ctx context.Context, volume float64) error
	SetRate(ctx context.Context, rate float64) error
	Subscribe(handler func(Event)) (unsubscribe func())
}

// Screen is the fullscreen surface hosting the video
type Screen interface {
	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error
	SubscribeFullscreen(handler func(fullscreen bool)) (unsubscribe func())
}
