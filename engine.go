package modengine

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// PlayState is the lifecycle state of an Engine.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("PlayState(%d)", int(s))
	}
}

// Event carries playback notifications from Watch().
type Event struct {
	Kind   EventKind
	Reason StopReason
}

type EventKind int

const (
	EventStopped EventKind = iota
)

// StopReason says why playback stopped.
type StopReason int

const (
	ReasonEndOfSong StopReason = iota
	ReasonRequested
)

func (r StopReason) String() string {
	switch r {
	case ReasonEndOfSong:
		return "end of song"
	case ReasonRequested:
		return "requested"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Engine owns a loaded song and the Player rendering it. Audio sinks pull
// from it with GenerateAudio or Read, usually on their own goroutine, while
// the application drives it with Play, Pause, Stop and SkipPattern.
type Engine struct {
	mu     sync.Mutex
	opts   []Option
	song   *Song
	player *Player
	state  PlayState
	mute   uint
	buf    []int16

	eventCh   chan Event
	eventChMu sync.Mutex
}

// NewEngine returns a stopped Engine with no song loaded. The options are
// applied to every Player the Engine creates.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Engine{opts: opts, mute: cfg.Mute}, nil
}

// Load decodes the MOD file at path and makes it the current song. Loading
// is rejected while a song is playing or paused.
func (e *Engine) Load(path string) error {
	return e.load(func() (*Song, error) { return LoadMOD(path) })
}

// LoadBytes is Load for a MOD file held in memory.
func (e *Engine) LoadBytes(b []byte) error {
	return e.load(func() (*Song, error) { return NewMODSongFromBytes(b) })
}

func (e *Engine) load(decode func() (*Song, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Stopped {
		return ErrPlaying
	}
	song, err := decode()
	if err != nil {
		return err
	}
	e.song = song
	e.player = nil

	return nil
}

// Play starts the song from the beginning, or resumes it if paused.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.song == nil {
		return ErrNoSong
	}
	switch e.state {
	case Playing:
		return nil
	case Paused:
		e.state = Playing
		return nil
	}

	player, err := NewPlayer(e.song, e.opts...)
	if err != nil {
		return err
	}
	player.SetMute(e.mute)
	e.player = player
	e.state = Playing

	return nil
}

// Pause suspends playback. Read produces silence while paused.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.song == nil {
		return ErrNoSong
	}
	if e.state == Playing {
		e.state = Paused
	}

	return nil
}

// Stop ends playback. The next Play starts the song from the beginning.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.song == nil {
		e.mu.Unlock()
		return ErrNoSong
	}
	wasStopped := e.state == Stopped
	e.state = Stopped
	e.mu.Unlock()

	if !wasStopped {
		e.sendEvent(Event{Kind: EventStopped, Reason: ReasonRequested})
	}
	return nil
}

// SkipPattern moves playback to the start of the next pattern table entry.
func (e *Engine) SkipPattern() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.song == nil {
		return ErrNoSong
	}
	if e.player != nil && e.state != Stopped {
		e.player.SkipPattern()
	}

	return nil
}

// SeekTo moves playback to row of pattern table entry order. Seeking past
// the end of the song ends it on the next pull.
func (e *Engine) SeekTo(order, row int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.song == nil {
		return ErrNoSong
	}
	if e.player != nil && e.state != Stopped {
		e.player.SeekTo(order, row)
	}

	return nil
}

// Mute returns the bitmask of muted channels, channel 1 in LSB.
func (e *Engine) Mute() uint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.mute
}

// SetMute replaces the muted channel bitmask. It applies immediately to a
// playing song and to every later Play.
func (e *Engine) SetMute(mask uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mute = mask
	if e.player != nil {
		e.player.SetMute(mask)
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() PlayState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Song returns the loaded song, nil if there is none.
func (e *Engine) Song() *Song {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.song
}

// PlayerState returns a snapshot of the player, ok is false if nothing has
// been played yet.
func (e *Engine) PlayerState() (state PlayerState, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player == nil {
		return PlayerState{}, false
	}
	return e.player.State(), true
}

// NoteDataFor returns the pattern data at order and row of the current song.
func (e *Engine) NoteDataFor(order, row int) []ChannelNoteData {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player == nil {
		return nil
	}
	return e.player.NoteDataFor(order, row)
}

// GenerateAudio fills out with interleaved stereo frames and returns the
// number of frames written. It returns 0 unless the engine is playing.
func (e *Engine) GenerateAudio(out []int16) int {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return 0
	}
	n := e.player.GenerateAudio(out)
	ended := e.endIfFinished()
	e.mu.Unlock()

	if ended {
		e.sendEvent(Event{Kind: EventStopped, Reason: ReasonEndOfSong})
	}
	return n
}

// Read implements io.Reader over 16-bit little endian stereo frames for
// sinks that pull bytes. While paused it reads silence, once the song has
// ended or the engine is stopped it returns io.EOF.
func (e *Engine) Read(p []byte) (int, error) {
	e.mu.Lock()

	frames := len(p) / 4
	if frames == 0 {
		e.mu.Unlock()
		return 0, nil
	}

	switch e.state {
	case Stopped:
		e.mu.Unlock()
		return 0, io.EOF
	case Paused:
		e.mu.Unlock()
		clear(p[:frames*4])
		return frames * 4, nil
	}

	if cap(e.buf) < frames*2 {
		e.buf = make([]int16, frames*2)
	}
	buf := e.buf[:frames*2]
	n := e.player.GenerateAudio(buf)
	for i, s := range buf[:n*2] {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}
	ended := e.endIfFinished()
	e.mu.Unlock()

	if ended {
		e.sendEvent(Event{Kind: EventStopped, Reason: ReasonEndOfSong})
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n * 4, nil
}

// endIfFinished moves to Stopped once the player has run out of song.
// Must be called with e.mu held.
func (e *Engine) endIfFinished() bool {
	if !e.player.Finished() {
		return false
	}
	e.state = Stopped
	return true
}

func (e *Engine) sendEvent(ev Event) {
	e.eventChMu.Lock()
	ch := e.eventCh
	e.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Nobody listening, drop event
		}
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered and events are dropped when it is full. Only the most recent
// Watch() channel receives events.
func (e *Engine) Watch() <-chan Event {
	ch := make(chan Event, 8)
	e.eventChMu.Lock()
	e.eventCh = ch
	e.eventChMu.Unlock()
	return ch
}
