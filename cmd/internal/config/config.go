package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chriskillpack/modengine"
)

// Backend names an audio output library.
type Backend string

const (
	BackendPortAudio Backend = "portaudio"
	BackendOto       Backend = "oto"
	BackendEbiten    Backend = "ebiten"
)

// ClockFromFlag maps the -clock flag value to an Amiga clock.
func ClockFromFlag(clock string) (c modengine.Clock, err error) {
	switch strings.ToLower(clock) {
	case "ntsc":
		c = modengine.ClockNTSC
	case "pal":
		c = modengine.ClockPAL
	default:
		err = fmt.Errorf("unrecognized clock %q, choose from ntsc or pal", clock)
	}

	return c, err
}

// InterpolationFromFlag maps the -interp flag value to an interpolation mode.
func InterpolationFromFlag(interp string) (i modengine.Interpolation, err error) {
	switch strings.ToLower(interp) {
	case "nearest":
		i = modengine.Nearest
	case "linear":
		i = modengine.Linear
	default:
		err = fmt.Errorf("unrecognized interpolation %q, choose from nearest or linear", interp)
	}

	return i, err
}

// BackendFromFlag validates the -backend flag value.
func BackendFromFlag(backend string) (Backend, error) {
	switch b := Backend(strings.ToLower(backend)); b {
	case BackendPortAudio, BackendOto, BackendEbiten:
		return b, nil
	default:
		return "", fmt.Errorf("unrecognized backend %q, choose from portaudio, oto or ebiten", backend)
	}
}

// MuteFromFlag turns a comma separated list of 1-based channel numbers,
// e.g. "1,3", into a mute bitmask with channel 1 in the LSB.
func MuteFromFlag(channels string) (uint, error) {
	var mask uint
	if channels == "" {
		return 0, nil
	}

	for _, s := range strings.Split(channels, ",") {
		ch, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("bad mute channel %q: %w", s, err)
		}
		if ch < 1 || ch > 32 {
			return 0, fmt.Errorf("mute channel %d out of range", ch)
		}
		mask |= 1 << (ch - 1)
	}

	return mask, nil
}
