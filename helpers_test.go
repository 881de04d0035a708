package modengine

import (
	"encoding/binary"
	"strconv"
	"strings"
	"testing"
)

const testSampleLen = 1000

// testInstrument describes an instrument slot for buildMOD. Lengths are in
// bytes, a length below 3 leaves the slot empty.
type testInstrument struct {
	name      string
	length    int
	finetune  byte
	volume    byte
	loopStart int
	loopLen   int
}

// testMOD describes a MOD image for buildMOD. cells maps pattern/row/channel
// to the four raw cell bytes.
type testMOD struct {
	title       string
	tag         string
	channels    int
	songLength  int // 0 means len(orders)
	orders      []byte
	instruments []testInstrument
	cells       map[[3]int][4]byte
}

// buildMOD writes m out in the on-disk MOD layout. Sample data is a ramp so
// that every instrument's bytes are distinguishable.
func buildMOD(m testMOD) []byte {
	if m.tag == "" {
		m.tag = "M.K."
	}
	if m.channels == 0 {
		m.channels = 4
	}
	if m.songLength == 0 {
		m.songLength = len(m.orders)
	}

	numPatterns := 0
	for _, o := range m.orders {
		numPatterns = max(numPatterns, int(o))
	}
	numPatterns++

	patternBytes := RowsPerPattern * m.channels * 4
	b := make([]byte, offsetPatterns+numPatterns*patternBytes)

	copy(b[offsetTitle:offsetTitle+20], m.title)
	for i, ins := range m.instruments {
		rec := b[offsetInstruments+i*instrumentRecLen:]
		copy(rec[:22], ins.name)
		binary.BigEndian.PutUint16(rec[22:], uint16(ins.length/2))
		rec[24] = ins.finetune
		rec[25] = ins.volume
		binary.BigEndian.PutUint16(rec[26:], uint16(ins.loopStart/2))
		binary.BigEndian.PutUint16(rec[28:], uint16(ins.loopLen/2))
	}

	b[offsetPatternTable] = byte(m.songLength)
	b[offsetPatternTable+1] = 127
	copy(b[offsetPatternTable+2:], m.orders)
	copy(b[offsetFormatTag:], m.tag)

	for k, cell := range m.cells {
		off := offsetPatterns + k[0]*patternBytes + (k[1]*m.channels+k[2])*4
		copy(b[off:], cell[:])
	}

	for i, ins := range m.instruments {
		n := ins.length / 2 * 2
		if n < 3 {
			continue
		}
		for j := range n {
			b = append(b, byte(i+j))
		}
	}

	return b
}

// modCell encodes a cell the way it is stored in a MOD file.
func modCell(sample, period int, effect, arg byte) [4]byte {
	return [4]byte{
		byte(sample&0xF0) | byte(period>>8)&0xF,
		byte(period),
		byte(sample&0xF)<<4 | effect&0xF,
		arg,
	}
}

// newTestSong returns a song with two constant instruments and the given
// pattern as pattern 0.
func newTestSong(pattern [][]string) *Song {
	song := &Song{
		Title:       "testsong",
		Channels:    len(pattern[0]),
		SongLength:  1,
		Speed:       defaultSpeed,
		Instruments: make([]*Instrument, NumInstruments),
		Patterns:    []Pattern{convertTestPatternData(pattern)},
	}
	for i, vol := range []int{60, 55} {
		data := make([]int8, testSampleLen)
		for j := range data {
			data[j] = 64
		}
		song.Instruments[i], _ = NewInstrument("testins"+strconv.Itoa(i+1), 0, vol, 0, 0, data)
	}

	return song
}

func newPlayerWithTestPattern(pattern [][]string, t *testing.T, opts ...Option) *Player {
	t.Helper()

	player, err := NewPlayer(newTestSong(pattern), opts...)
	if err != nil {
		t.Fatalf("Could not create test player: %v", err)
	}
	return player
}

// Takes input of the form
// C-2 01 C20     - play C-2 with instrument 1, with effect C parameter 20
// ... .. A01     - volume slide down on whatever is playing
// ... .. ...     - empty cell
// <empty string> - empty cell
//
// Rows not given are empty.
func convertTestPatternData(pattern [][]string) Pattern {
	nChannels := len(pattern[0])

	var pat Pattern
	for r := range pat.Rows {
		pat.Rows[r] = make(Row, nChannels)
		for c := range pat.Rows[r] {
			pat.Rows[r][c].Effect = EffectEmpty
		}
	}

	// Parse each row of input
	for r, row := range pattern {
		for c, col := range row {
			if col == "" {
				continue
			}

			parts := strings.Fields(col)
			cell := &pat.Rows[r][c]
			cell.Period = decodeNote(parts[0])
			cell.Sample = decodeInt(parts[1])
			cell.Effect, cell.Arg = decodeEffect(parts[2])
			if cell.Effect == EffectEmpty && (cell.Period != 0 || cell.Sample != 0) {
				cell.Effect = EffectArpeggio
			}
		}
	}

	return pat
}

func decodeNote(note string) int {
	// note is of the form A-2, A#2 or ...
	if note == "..." {
		return 0
	}
	period := periodFromNoteStr(note)
	if period < 0 {
		panic("bad note " + note)
	}
	return period
}

func decodeInt(sample string) int {
	if sample == ".." {
		return 0
	}

	ival, err := strconv.ParseInt(sample, 16, 0)
	if err != nil {
		panic(err)
	}
	return int(ival)
}

func decodeEffect(effect string) (Effect, byte) {
	if effect == "..." {
		return EffectEmpty, 0
	}

	raw, err := strconv.ParseUint(effect, 16, 12)
	if err != nil {
		panic(err)
	}
	nb := modCell(0, 0, byte(raw>>8), byte(raw))
	cell := cellFromMODbytes(nb[:])
	return cell.Effect, cell.Arg
}

// runTick advances the player by a single tick.
func runTick(plr *Player) bool {
	if !plr.advanceTick() {
		return false
	}
	plr.processTick()
	return true
}

// Advances to next row in the pattern, will have processed the first tick
// of the next row on return.
func advanceToNextRow(plr *Player) {
	order, row := plr.order, plr.row
	for order == plr.order && row == plr.row && runTick(plr) {
	}
}

func validateVoice(v *Voice, ins *Instrument, period, volume int, t *testing.T) {
	t.Helper()

	if v.Instrument() != ins {
		t.Errorf("Expecting instrument %v, got %v", ins, v.Instrument())
	}
	if v.Period() != period {
		t.Errorf("Expected period %d, got %d", period, v.Period())
	}
	if v.Volume() != volume {
		t.Errorf("Expected volume %d, got %d", volume, v.Volume())
	}
}
