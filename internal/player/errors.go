package player

import "errors"

// User-facing messages shown on the error panel
const (
	MsgPlaybackRejected = "Unable to play video"
	MsgMediaLoad        = "Video failed to load. Please check the video source."
)

var (
	// ErrPlaybackRejected means the engine refused a play request
	ErrPlaybackRejected = errors.New(MsgPlaybackRejected)
	// ErrMediaLoad means the engine failed to load or decode the source
	ErrMediaLoad = errors.New(MsgMediaLoad)

	ErrInvalidRate   = errors.New("playback rate not supported")
	ErrInvalidSource = errors.New("invalid media source")
	ErrEngineInUse   = errors.New("engine already attached to a controller")
	ErrNotMounted    = errors.New("controller is not mounted")
)
