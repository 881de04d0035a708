package modengine

import "fmt"

const (
	RowsPerPattern = 64
	NumInstruments = 31 // every supported format tag carries 31 instrument slots
	maxVolume      = 64 // channel maximum volume
	defaultSpeed   = 6
)

// Song represents a decoded MOD file. A Song is never modified after
// decoding and may be shared between players.
type Song struct {
	Title        string
	Channels     int
	SongLength   int // number of pattern table entries that are played
	EndJump      int
	PatternTable [128]byte
	Speed        int // initial ticks per row

	// Instruments has NumInstruments slots, a nil slot means "no instrument".
	Instruments []*Instrument
	Patterns    []Pattern
}

// Pattern is a block of RowsPerPattern rows.
type Pattern struct {
	Rows [RowsPerPattern]Row
}

// Row holds one Cell per channel.
type Row []Cell

// Cell is a single channel's note data for a row.
type Cell struct {
	Sample int // 1-based instrument number, 0 = no change
	Period int // 0 = no note
	Effect Effect
	Arg    byte
}

// Orders returns the part of the pattern table that is played.
func (s *Song) Orders() []byte {
	return s.PatternTable[:s.SongLength]
}

// Instrument returns the instrument for a 1-based sample number, or nil if the
// number is 0, out of range or refers to an empty slot.
func (s *Song) Instrument(sampleNum int) *Instrument {
	if sampleNum < 1 || sampleNum > len(s.Instruments) {
		return nil
	}
	return s.Instruments[sampleNum-1]
}

// Cell returns the cell for a channel in the pattern played at the given
// pattern table index.
func (s *Song) Cell(order, row, channel int) *Cell {
	return &s.Patterns[s.PatternTable[order]].Rows[row][channel]
}

func (c Cell) String() string {
	smp := ".."
	if c.Sample != 0 {
		smp = fmt.Sprintf("%02X", c.Sample)
	}
	return fmt.Sprintf("%s %s %s", noteStrFromPeriod(c.Period), smp, c.Code())
}
