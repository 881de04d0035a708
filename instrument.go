package modengine

import (
	"fmt"
	"math"
)

// Interpolation selects how a fractional sample position is resolved.
type Interpolation int

const (
	Nearest Interpolation = iota
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// Instrument holds information about an instrument including its 8-bit
// signed waveform.
type Instrument struct {
	Name      string
	Finetune  int // -8..7
	Volume    int // initial volume, 0..64
	LoopStart int // in sample frames
	LoopLen   int // in sample frames
	Data      []int8
}

// NewInstrument validates the instrument parameters. A zero length waveform
// is never an instrument, the slot is left empty instead.
func NewInstrument(name string, finetune, volume, loopStart, loopLen int, data []int8) (*Instrument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("instrument %q has no sample data", name)
	}
	if finetune < -8 || finetune > 7 {
		return nil, fmt.Errorf("instrument %q: %w: %d", name, ErrBadFinetune, finetune)
	}
	if loopStart < 0 || loopLen < 0 {
		return nil, fmt.Errorf("instrument %q has a negative loop", name)
	}

	ins := &Instrument{
		Name:      name,
		Finetune:  finetune,
		Volume:    min(volume, maxVolume),
		LoopStart: loopStart,
		LoopLen:   loopLen,
		Data:      data,
	}
	ins.fixLoop()

	return ins, nil
}

// If the loop data overshoots the end of the sample then correct the loop.
// This logic lifted from MilkyTracker.
func (ins *Instrument) fixLoop() {
	length := len(ins.Data)
	if ins.LoopStart+ins.LoopLen > length {
		// First attempt, move the loop start back
		dx := ins.LoopStart + ins.LoopLen - length
		ins.LoopStart = max(ins.LoopStart-dx, 0)
		// If it still overshoots the end then clamp the loop
		if ins.LoopStart+ins.LoopLen > length {
			ins.LoopLen = length - ins.LoopStart
		}
	}
}

// Length is the waveform length in sample frames.
func (ins *Instrument) Length() int { return len(ins.Data) }

// IsLooping reports whether the instrument has a loop region.
func (ins *Instrument) IsLooping() bool { return ins.LoopLen > 2 }

func (ins *Instrument) loopEnd() int { return ins.LoopStart + ins.LoopLen }

// Sample returns the waveform value at a fractional position, expanded to
// 16 bits. Positions past the end of a looping instrument fold back into the
// loop, positions past the end of a one-shot instrument are silent.
func (ins *Instrument) Sample(pos float64, interp Interpolation) (int16, error) {
	if pos < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativePosition, pos)
	}
	if interp != Nearest && interp != Linear {
		return 0, fmt.Errorf("%w: %v", ErrBadInterpolation, interp)
	}
	return ins.sampleAt(pos, interp), nil
}

// sampleAt is Sample without argument checks, pos must be >= 0.
func (ins *Instrument) sampleAt(pos float64, interp Interpolation) int16 {
	if interp == Linear {
		floor := math.Floor(pos)
		frac := pos - floor
		s1 := float64(ins.at(int(floor)))
		s2 := float64(ins.at(int(floor) + 1))
		return int16(s1*(1-frac) + s2*frac)
	}
	return ins.at(int(math.Round(pos)))
}

func (ins *Instrument) at(idx int) int16 {
	if ins.IsLooping() {
		if end := ins.loopEnd(); idx >= end {
			idx = (idx-end)%ins.LoopLen + ins.LoopStart
		}
	} else if idx >= len(ins.Data) {
		return 0
	}

	return int16(ins.Data[idx]) << 8
}

func (ins *Instrument) String() string {
	return fmt.Sprintf(
		"\tName:\t\t%s\n"+
			"\tLength:\t\t%d\n"+
			"\tFinetune:\t%d\n"+
			"\tVolume:\t\t%d\n"+
			"\tLoop Start:\t%d\n"+
			"\tLoop Len:\t%d\n", ins.Name, ins.Length(), ins.Finetune, ins.Volume, ins.LoopStart, ins.LoopLen,
	)
}
