package modengine

import (
	"fmt"
	"log"
	"math"

	clone "github.com/huandu/go-clone/generic"
)

const (
	defaultTempo = 125 // BPM, tick rate of defaultTickHz
	noRow        = -1
	noOrder      = -1
)

// Player renders a Song. It walks the pattern table one tick at a time,
// applies each cell's effect to the channel voices and mixes the voices into
// 16-bit stereo audio. A Player is not safe for concurrent use, see Engine.
type Player struct {
	*Song
	cfg Config
	log *log.Logger

	// song configuration
	Tempo          int // in beats per minute, display only
	Speed          int // number of ticks before advancing to the next row
	samplesPerTick float64

	// These next fields track player position in the song
	order             int     // current pattern table index
	row               int     // current row in the pattern
	tick              int     // current tick in the row
	samplesToNextTick float64 // output frames still to generate for this tick
	ordersPlayed      int     // number of pattern table entries played
	orderStarted      bool    // a row of the current entry has been played
	finished          bool

	// Flow control latched during a row and applied when the row ends
	breakRow    int // row to break to in the next pattern, noRow if none
	jumpOrder   int // pattern table index to jump to, noOrder if none
	loopRow     int // row to loop back to, noRow if none
	loopCount   int
	loopPending bool

	voices []*Voice
	mixer  *mixer
	state  PlayerState
}

// ChannelNoteData represents the note data for a channel
type ChannelNoteData struct {
	Note       string // 'A-3', 'C#2', ...
	Instrument int    // 0 if no instrument
	Effect     Effect
	Arg        int
}

// String returns a formatted string of the note data
func (c *ChannelNoteData) String() string {
	return fmt.Sprintf("%s %2X %s", c.Note, c.Instrument, Cell{Effect: c.Effect, Arg: byte(c.Arg)}.Code())
}

// ChannelState holds the current state of a channel
type ChannelState struct {
	Instrument         int // 0 if no instrument playing
	Active             bool
	Volume             int
	Period             int
	TrigOrder, TrigRow int // The order and row the instrument was triggered (played)
}

// PlayerState holds player position and channel state
type PlayerState struct {
	Order   int
	Pattern int
	Row     int
	Tick    int
	Speed   int
	Tempo   int

	Notes    []ChannelNoteData
	Channels []ChannelState
}

// NewPlayer returns a new Player for the given song, positioned at the start
// of the song.
func NewPlayer(song *Song, opts ...Option) (*Player, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	p := &Player{
		Song:  song,
		cfg:   cfg,
		log:   cfg.Logger,
		mixer: newMixer(cfg.Mute),
	}
	p.voices = make([]*Voice, song.Channels)
	for i := range p.voices {
		p.voices[i] = NewVoice(cfg.SampleRate, cfg.Clock, cfg.Interpolation)
	}
	p.state.Notes = make([]ChannelNoteData, song.Channels)
	p.state.Channels = make([]ChannelState, song.Channels)
	p.reset()

	return p, nil
}

func (p *Player) reset() {
	p.Speed = p.Song.Speed
	p.setTempo(defaultTempo)
	p.order = 0
	p.ordersPlayed = 0
	p.orderStarted = false
	p.finished = false

	// Setup counters so that the first tick of the player executes the
	// first row immediately.
	p.row = noRow
	p.tick = p.Speed
	p.samplesToNextTick = 0

	p.breakRow = noRow
	p.jumpOrder = noOrder
	p.clearLoop()

	for i, v := range p.voices {
		v.Reset()
		// LRRL, repeating for channels beyond the first four
		switch i & 3 {
		case 0, 3:
			v.SetPan(64)
		case 1, 2:
			v.SetPan(192)
		}
	}
}

func (p *Player) setTempo(bpm int) {
	p.samplesPerTick = float64(p.cfg.SampleRate) / (float64(bpm) * 0.4)
	p.Tempo = bpm
}

func (p *Player) clearLoop() {
	p.loopRow = noRow
	p.loopCount = 0
	p.loopPending = false
}

// Voice returns the voice for channel ch.
func (p *Player) Voice(ch int) *Voice { return p.voices[ch] }

// Finished reports whether the end of the song has been reached.
func (p *Player) Finished() bool { return p.finished }

// Position returns the current pattern table index, row and tick.
func (p *Player) Position() (order, row, tick int) {
	return p.order, max(p.row, 0), p.tick
}

// GenerateAudio fills out with stereo sample data (LRLRLR...) and returns the
// number of stereo frames generated.
//
// This function also advances the player through the song. In the case that
// the player reaches the end of the song it may generate less frames than
// the buffer can hold, after that it generates none.
func (p *Player) GenerateAudio(out []int16) int {
	if p.finished {
		return 0
	}

	count := len(out) / 2 // L&R samples are interleaved
	p.mixer.prepare(count)
	generated := 0

	for generated < count {
		// generate frames until we either reach the next tick or fill the buffer
		n := min(int(math.Floor(p.samplesToNextTick)), count-generated)
		p.mixer.mix(p.voices, n, generated)
		generated += n
		p.samplesToNextTick -= float64(n)
		if p.samplesToNextTick >= 1 {
			continue
		}

		if !p.advanceTick() {
			break // song finished
		}
		p.processTick()
		if p.finished {
			break
		}
		p.samplesToNextTick += p.samplesPerTick
	}

	p.mixer.downsample(out, generated)
	return generated
}

// advanceTick moves to the next tick, and at the end of a row to the next row
// applying any pending flow control. It returns false when the song is over.
func (p *Player) advanceTick() bool {
	p.tick++
	if p.tick < p.Speed {
		return true
	}
	p.tick = 0

	entered := false
	switch {
	case p.breakRow != noRow:
		p.row = p.breakRow
		p.breakRow = noRow
		p.enterOrder(p.order + 1)
		entered = true
	case p.loopPending:
		p.row = p.loopRow
		p.loopCount++
		p.loopPending = false
	default:
		p.row++
	}

	if p.jumpOrder != noOrder {
		p.row = 0
		p.enterOrder(p.jumpOrder)
		p.jumpOrder = noOrder
		entered = true
	}

	if p.row >= RowsPerPattern {
		p.row = 0
		p.enterOrder(p.order + 1)
		entered = true
	}

	// A break and a jump on the same row leave a single entry
	if entered {
		p.ordersPlayed++
	}
	p.orderStarted = true
	p.checkEnd()

	return !p.finished
}

// enterOrder moves to a new pattern table entry. Loops never cross a pattern
// boundary.
func (p *Player) enterOrder(order int) {
	p.order = order
	p.clearLoop()
}

// checkEnd marks the song finished once it runs off the pattern table or
// has played PlayOrderLimit entries.
func (p *Player) checkEnd() {
	if p.order >= p.SongLength {
		p.finished = true
	}
	if limit := p.cfg.PlayOrderLimit; limit != -1 && p.ordersPlayed >= limit {
		p.finished = true
	}
}

// processTick applies every channel's cell on the current row for the
// current tick.
func (p *Player) processTick() {
	for ci, v := range p.voices {
		cell := p.Song.Cell(p.order, p.row, ci)

		if p.tick == 0 && cell.Effect != EffectTremolo {
			v.setTremolo(0)
		}
		// An arpeggio ends on whichever step its last tick used, the
		// following row plays the base note again.
		if p.tick == 0 && v.arpActive && (cell.Effect != EffectArpeggio || cell.Arg == 0) {
			v.SetPeriod(v.basePeriod)
			v.arpActive = false
		}
		if cell.Effect == EffectEmpty {
			continue
		}
		p.applyEffect(ci, v, cell)
	}

	if p.tick == 0 {
		p.updateState()
	}
}

// Mute returns the bitmask of muted channels, channel 1 in LSB.
func (p *Player) Mute() uint { return p.mixer.mute }

// SetMute replaces the bitmask of muted channels. Muted channels keep
// playing silently so unmuting resumes them mid-note.
func (p *Player) SetMute(mask uint) { p.mixer.mute = mask }

// SkipPattern jumps to the start of the next pattern table entry.
func (p *Player) SkipPattern() {
	p.SeekTo(p.order+1, 0)
}

// SeekTo sets the player's current position. The row is clamped to the
// pattern, an order past the end of the song ends playback. Channel voices
// carry on playing.
func (p *Player) SeekTo(order, row int) {
	// Leaving an entry that has started playing counts towards PlayOrderLimit
	if p.orderStarted {
		p.ordersPlayed++
		p.orderStarted = false
	}
	p.order = max(order, 0)
	p.checkEnd()
	if p.finished {
		return
	}

	p.row = min(max(row, 0), RowsPerPattern-1) - 1
	p.tick = p.Speed
	p.samplesToNextTick = 0
	p.breakRow = noRow
	p.jumpOrder = noOrder
	p.clearLoop()
}

// State returns the current state of the player (song position, channel
// state, etc.). Note and channel data are as of the start of the current
// row. The returned value does not share memory with the player.
func (p *Player) State() PlayerState {
	s := clone.Clone(p.state)
	s.Tick = p.tick
	return s
}

func (p *Player) updateState() {
	s := &p.state
	s.Order = p.order
	s.Pattern = int(p.PatternTable[p.order])
	s.Row = p.row
	s.Speed = p.Speed
	s.Tempo = p.Tempo
	p.fillNoteData(s.Notes, p.order, p.row)

	for i, v := range p.voices {
		s.Channels[i] = ChannelState{
			Instrument: p.instrumentNumber(v.Instrument()),
			Active:     v.Active(),
			Volume:     v.Volume(),
			Period:     v.Period(),
			TrigOrder:  v.trigOrder,
			TrigRow:    v.trigRow,
		}
	}
}

// NoteDataFor returns the note data for a specific order and row, or nil if
// the requested position is invalid.
func (p *Player) NoteDataFor(order, row int) []ChannelNoteData {
	if order < 0 || row < 0 || order >= p.SongLength || row >= RowsPerPattern {
		return nil
	}
	nd := make([]ChannelNoteData, p.Channels)
	p.fillNoteData(nd, order, row)

	return nd
}

func (p *Player) fillNoteData(nd []ChannelNoteData, order, row int) {
	for i := range nd {
		cell := p.Song.Cell(order, row, i)
		nd[i] = ChannelNoteData{
			Note:       noteStrFromPeriod(cell.Period),
			Instrument: cell.Sample,
			Effect:     cell.Effect,
			Arg:        int(cell.Arg),
		}
	}
}

func (p *Player) instrumentNumber(ins *Instrument) int {
	if ins == nil {
		return 0
	}
	for i, si := range p.Instruments {
		if si == ins {
			return i + 1
		}
	}
	return 0
}
