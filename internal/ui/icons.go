package ui

import (
	"strings"

	"github.com/kyokomi/emoji/v2"
	"github.com/ygelfand/vidctl/internal/config"
)

type Icon int

const (
	IconPlay Icon = iota
	IconPause
	IconSkipBack
	IconSkipForward
	IconVolume
	IconMuted
	IconFullscreen
	IconExitFullscreen
	IconRate
	IconError
)

var asciiIcons = map[Icon]string{
	IconPlay:           ">",
	IconPause:          "||",
	IconSkipBack:       "<<",
	IconSkipForward:    ">>",
	IconVolume:         "vol",
	IconMuted:          "mute",
	IconFullscreen:     "[ ]",
	IconExitFullscreen: "][",
	IconRate:           "x",
	IconError:          "!",
}

var emojiIcons = map[Icon]string{
	IconPlay:           ":arrow_forward:",
	IconPause:          ":pause_button:",
	IconSkipBack:       ":rewind:",
	IconSkipForward:    ":fast_forward:",
	IconVolume:         ":loud_sound:",
	IconMuted:          ":mute:",
	IconFullscreen:     ":tv:",
	IconExitFullscreen: ":arrow_down_small:",
	IconRate:           ":gear:",
	IconError:          ":warning:",
}

var nerdIcons = map[Icon]string{
	IconPlay:           "\uf04b",
	IconPause:          "\uf04c",
	IconSkipBack:       "\uf04a",
	IconSkipForward:    "\uf04e",
	IconVolume:         "\uf028",
	IconMuted:          "\uf026",
	IconFullscreen:     "\uf065",
	IconExitFullscreen: "\uf066",
	IconRate:           "\uf0e4",
	IconError:          "\uf071",
}

// Glyph renders an icon in the given style
func Glyph(kind config.IconType, icon Icon) string {
	switch kind {
	case config.IconTypeEmoji:
		return strings.TrimSpace(emoji.Sprint(emojiIcons[icon]))
	case config.IconTypeNerdFonts:
		return nerdIcons[icon]
	default:
		return asciiIcons[icon]
	}
}
