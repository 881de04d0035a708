package modengine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fixed offsets in a MOD file
const (
	offsetTitle        = 0
	offsetInstruments  = 20
	instrumentRecLen   = 30
	offsetPatternTable = 950
	offsetFormatTag    = 1080
	offsetPatterns     = 1084

	bytesPerCell = 4
)

type formatInfo struct {
	channels    int
	instruments int
}

var formatTags = map[string]formatInfo{
	"M.K.": {4, NumInstruments},
	"FLT4": {4, NumInstruments},
	"M!K!": {4, NumInstruments},
	"4CHN": {4, NumInstruments},
	"6CHN": {6, NumInstruments},
	"8CHN": {8, NumInstruments},
	"OCTA": {8, NumInstruments},
}

// LoadMOD reads and decodes the MOD file at path. The file is closed before
// LoadMOD returns, whether or not decoding succeeded.
func LoadMOD(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeMOD(f)
}

// NewMODSongFromBytes parses a MOD file held in memory into a Song.
func NewMODSongFromBytes(songBytes []byte) (*Song, error) {
	return DecodeMOD(bytes.NewReader(songBytes))
}

// DecodeMOD parses a MOD file into a Song.
//
// This means reading out the format tag, pattern table, instrument records,
// sample data and pattern data into structures the Player can use. Any
// failure aborts the decode, no partial Song is returned.
func DecodeMOD(r io.ReaderAt) (*Song, error) {
	song := &Song{
		Speed:       defaultSpeed,
		Instruments: make([]*Instrument, NumInstruments),
	}

	// Detect number of channels from the MOD signature
	tag := make([]byte, 4)
	if err := readAt(r, offsetFormatTag, tag, "format tag"); err != nil {
		return nil, err
	}
	format, ok := formatTags[string(tag)]
	if !ok {
		return nil, &DecodeError{Op: "format tag", Offset: offsetFormatTag, Err: fmt.Errorf("%w %q", ErrUnknownFormat, tag)}
	}
	song.Channels = format.channels

	// Read pattern table
	orders := struct {
		SongLength uint8
		EndJump    uint8
		Table      [128]byte
	}{}
	if err := readAt(r, offsetPatternTable, &orders, "pattern table"); err != nil {
		return nil, err
	}
	if orders.SongLength == 0 || orders.SongLength > 128 {
		return nil, &DecodeError{Op: "pattern table", Offset: offsetPatternTable, Err: fmt.Errorf("%w: %d", ErrBadSongLength, orders.SongLength)}
	}
	song.SongLength = int(orders.SongLength)
	song.EndJump = int(orders.EndJump)
	song.PatternTable = orders.Table

	// Detect number of patterns by finding maximum pattern id in the whole
	// table, played or not.
	numPatterns := 0
	for _, p := range orders.Table {
		numPatterns = max(numPatterns, int(p))
	}
	numPatterns++ // num patterns = max_pattern_idx + 1

	patternBytes := RowsPerPattern * song.Channels * bytesPerCell
	sampleDataPos := int64(offsetPatterns + numPatterns*patternBytes)

	title := make([]byte, 20)
	if err := readAt(r, offsetTitle, title, "title"); err != nil {
		return nil, err
	}
	song.Title = cleanName(string(title))

	dumpf("Title:\t\t%s\n", song.Title)
	dumpf("Format:\t\t%s\n", tag)
	dumpf("Channels:\t%d\n", song.Channels)
	dumpf("Patterns:\t%d\n", numPatterns)
	dumpf("Orders:\t\t%d %v\n", song.SongLength, song.Orders())
	dumpf("End jump:\t%d\n", song.EndJump)
	dumpf("\n")

	// Read instrument records and their sample data. Sample data is stored
	// back to back in slot order, empty slots take no space.
	for i := 0; i < format.instruments; i++ {
		ins, n, err := readInstrument(r, i, sampleDataPos)
		if err != nil {
			return nil, err
		}
		song.Instruments[i] = ins
		sampleDataPos += n
	}

	// Read pattern data
	song.Patterns = make([]Pattern, numPatterns)
	scratch := make([]byte, patternBytes)
	for i := range song.Patterns {
		off := int64(offsetPatterns + i*patternBytes)
		if err := readAt(r, off, scratch, fmt.Sprintf("pattern %d", i)); err != nil {
			return nil, err
		}

		dumpf("Pattern %d (x%02X)\n", i, i)
		pat := &song.Patterns[i]
		for row := range pat.Rows {
			pat.Rows[row] = make(Row, song.Channels)
			dumpf("%02X: ", row)
			for ch := range pat.Rows[row] {
				p := (row*song.Channels + ch) * bytesPerCell
				cell := cellFromMODbytes(scratch[p : p+bytesPerCell])
				pat.Rows[row][ch] = cell

				dumpf("%s", cell)
				if ch < song.Channels-1 {
					dumpf("|")
				}
			}
			dumpf("\n")
		}
		dumpf("\n")
	}

	// Change the initial speed from the default if the very first cell of
	// the first played pattern sets it.
	first := song.Cell(0, 0, 0)
	if first.Effect == EffectSetSpeed && first.Arg > 0 && first.Arg < 32 {
		song.Speed = int(first.Arg)
	}
	dumpf("Speed:\t\t%d\n", song.Speed)

	return song, nil
}

// readInstrument reads instrument record si and its sample data starting at
// dataPos. It returns the number of sample bytes consumed, a nil instrument
// means the slot is empty.
func readInstrument(r io.ReaderAt, si int, dataPos int64) (*Instrument, int64, error) {
	data := struct {
		Name      [22]byte
		Length    uint16
		Finetune  uint8
		Volume    uint8
		LoopStart uint16
		LoopLen   uint16
	}{}

	op := fmt.Sprintf("instrument %d", si+1)
	if err := readAt(r, int64(offsetInstruments+si*instrumentRecLen), &data, op); err != nil {
		return nil, 0, err
	}

	length := int(data.Length) * 2
	if length < 3 {
		return nil, 0, nil
	}

	raw := make([]byte, length)
	if err := readAt(r, dataPos, raw, op+" sample data"); err != nil {
		return nil, 0, err
	}
	smp := make([]int8, length)
	for i, b := range raw {
		smp[i] = int8(b)
	}

	ins, err := NewInstrument(
		cleanName(string(data.Name[:])),
		finetuneFromRaw(int(data.Finetune&0xF)),
		int(data.Volume),
		int(data.LoopStart)*2,
		int(data.LoopLen)*2,
		smp,
	)
	if err != nil {
		return nil, 0, &DecodeError{Op: op, Offset: int64(offsetInstruments + si*instrumentRecLen), Err: err}
	}
	dumpf("Sample %d x%02X\n", si+1, si+1)
	dumpf("%s", ins)

	return ins, int64(length), nil
}

// finetuneFromRaw converts the 4-bit finetune nibble to -8..7.
func finetuneFromRaw(raw int) int {
	if raw >= 8 {
		return raw - 16
	}
	return raw
}

func cellFromMODbytes(nb []byte) Cell {
	cell := Cell{
		Sample: int(nb[0]&0xF0 | nb[2]>>4),
		Period: int(nb[0]&0xF)<<8 | int(nb[1]),
		Effect: Effect(nb[2] & 0xF),
		Arg:    nb[3],
	}

	switch {
	case cell.Effect == effectExtended:
		cell.Effect = Effect(0xE0 | int(cell.Arg>>4))
		cell.Arg &= 0xF
	case nb[0]|nb[1]|nb[2]|nb[3] == 0:
		cell.Effect = EffectEmpty
	}

	return cell
}

func readAt(r io.ReaderAt, off int64, data any, op string) error {
	var err error
	if b, ok := data.([]byte); ok {
		var n int
		n, err = r.ReadAt(b, off)
		if n == len(b) {
			// ReadAt may return EOF alongside a full read
			err = nil
		}
	} else {
		err = binary.Read(io.NewSectionReader(r, off, int64(binary.Size(data))), binary.BigEndian, data)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	}

	return &DecodeError{Op: op, Offset: off, Err: err}
}

// Strips trailing 0x00 bytes and replaces any non ASCII character with a space
func cleanName(in string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r > 127 {
			return ' '
		}
		return r
	}, strings.TrimRight(in, "\x00"))
}
