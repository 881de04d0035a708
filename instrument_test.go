package modengine

import (
	"errors"
	"testing"
)

func rampInstrument(t *testing.T, length, loopStart, loopLen int) *Instrument {
	t.Helper()

	data := make([]int8, length)
	for i := range data {
		data[i] = int8(i*7 - 60)
	}
	ins, err := NewInstrument("ramp", 0, 64, loopStart, loopLen, data)
	if err != nil {
		t.Fatal(err)
	}
	return ins
}

func TestNewInstrument(t *testing.T) {
	if _, err := NewInstrument("none", 0, 64, 0, 0, nil); err == nil {
		t.Error("Expected an error for an instrument without data")
	}
	if _, err := NewInstrument("ft", 8, 64, 0, 0, make([]int8, 10)); !errors.Is(err, ErrBadFinetune) {
		t.Errorf("Expected ErrBadFinetune, got %v", err)
	}
	if _, err := NewInstrument("ft", -9, 64, 0, 0, make([]int8, 10)); !errors.Is(err, ErrBadFinetune) {
		t.Errorf("Expected ErrBadFinetune, got %v", err)
	}

	ins, err := NewInstrument("loud", -8, 80, 0, 0, make([]int8, 10))
	if err != nil {
		t.Fatal(err)
	}
	if ins.Volume != maxVolume {
		t.Errorf("Expected volume to be clamped to %d, got %d", maxVolume, ins.Volume)
	}
}

func TestFixLoop(t *testing.T) {
	cases := []struct {
		length, loopStart, loopLen int
		expStart, expLen           int
	}{
		{16, 4, 8, 4, 8},
		{16, 10, 8, 8, 8},
		{16, 10, 20, 0, 16},
	}
	for _, tc := range cases {
		ins := rampInstrument(t, tc.length, tc.loopStart, tc.loopLen)
		if ins.LoopStart != tc.expStart || ins.LoopLen != tc.expLen {
			t.Errorf("%d+%d in %d: expected loop %d+%d, got %d+%d",
				tc.loopStart, tc.loopLen, tc.length, tc.expStart, tc.expLen, ins.LoopStart, ins.LoopLen)
		}
	}
}

func TestIsLooping(t *testing.T) {
	for loopLen, expected := range map[int]bool{0: false, 1: false, 2: false, 3: true, 8: true} {
		ins := rampInstrument(t, 16, 0, loopLen)
		if ins.IsLooping() != expected {
			t.Errorf("Loop length %d: expected IsLooping %v", loopLen, expected)
		}
	}
}

func TestSampleNearest(t *testing.T) {
	ins := rampInstrument(t, 16, 0, 0)

	for i := range ins.Length() {
		s, err := ins.Sample(float64(i), Nearest)
		if err != nil {
			t.Fatal(err)
		}
		if s != int16(ins.Data[i])<<8 {
			t.Errorf("Index %d: expected %d, got %d", i, int16(ins.Data[i])<<8, s)
		}
	}

	// Rounds to the closest index
	if s, _ := ins.Sample(2.4, Nearest); s != int16(ins.Data[2])<<8 {
		t.Errorf("Expected position 2.4 to read index 2, got %d", s)
	}
	if s, _ := ins.Sample(2.6, Nearest); s != int16(ins.Data[3])<<8 {
		t.Errorf("Expected position 2.6 to read index 3, got %d", s)
	}

	// Past the end of a one-shot instrument is silence
	for _, pos := range []float64{16, 17, 1000} {
		if s, _ := ins.Sample(pos, Nearest); s != 0 {
			t.Errorf("Position %v: expected silence, got %d", pos, s)
		}
	}
}

func TestSampleLinear(t *testing.T) {
	ins := rampInstrument(t, 16, 0, 0)

	for i := range ins.Length() - 1 {
		s, err := ins.Sample(float64(i)+0.5, Linear)
		if err != nil {
			t.Fatal(err)
		}
		mean := (int(ins.Data[i])<<8 + int(ins.Data[i+1])<<8) / 2
		if int(s) != mean {
			t.Errorf("Position %v: expected %d, got %d", float64(i)+0.5, mean, s)
		}
	}
}

func TestSampleLoopIsPeriodic(t *testing.T) {
	ins := rampInstrument(t, 32, 4, 8)
	loopEnd := ins.LoopStart + ins.LoopLen

	for _, interp := range []Interpolation{Nearest, Linear} {
		for k := range 100 {
			got, err := ins.Sample(float64(loopEnd+k), interp)
			if err != nil {
				t.Fatal(err)
			}
			expected, _ := ins.Sample(float64(ins.LoopStart+k%ins.LoopLen), interp)
			if got != expected {
				t.Errorf("%v k=%d: expected %d, got %d", interp, k, expected, got)
			}
		}
	}
}

func TestSampleErrors(t *testing.T) {
	ins := rampInstrument(t, 16, 0, 0)

	if _, err := ins.Sample(-0.5, Nearest); !errors.Is(err, ErrNegativePosition) {
		t.Errorf("Expected ErrNegativePosition, got %v", err)
	}
	if _, err := ins.Sample(1, Interpolation(7)); !errors.Is(err, ErrBadInterpolation) {
		t.Errorf("Expected ErrBadInterpolation, got %v", err)
	}
}
