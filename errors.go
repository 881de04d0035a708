package modengine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("unrecognized MOD format tag")
	ErrTruncated     = errors.New("truncated MOD data")
	ErrBadSongLength = errors.New("song length out of range")

	ErrNoSong           = errors.New("no song loaded")
	ErrPlaying          = errors.New("cannot load a song while one is playing")
	ErrNegativePosition = errors.New("negative sample position")
	ErrBadInterpolation = errors.New("unknown interpolation mode")
	ErrBadFinetune      = errors.New("finetune out of range")
	ErrBadSampleRate    = errors.New("sample rate must be positive")
)

// DecodeError reports where in the file decoding failed. Decoding never
// produces a partial Song, any DecodeError aborts the load.
type DecodeError struct {
	Op     string // what the decoder was reading
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (offset=%d): %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
