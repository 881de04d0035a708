package modengine

import "fmt"

const (
	minPeriod = 1
	maxPeriod = 0xFFFF
)

// Voice is the playback state of one channel: the instrument being played,
// its pitch, volume and pan, and the effect memory the sequencer keeps for
// the channel.
type Voice struct {
	rate   float64 // output sample rate
	clock  Clock
	interp Interpolation

	active     bool
	instrument *Instrument

	period     int     // current sample period
	basePeriod int     // period of the last note-on, reference for arpeggio and vibrato
	pos        float64 // read position into the waveform
	step       float64 // read position increment per output sample
	finetune   int

	volume int     // 0..64
	vol    float64 // volume/64
	panL   float64
	panR   float64

	// effect memory
	arpStep1, arpStep2 int
	arpCounter         int
	arpActive          bool // the period is on an arpeggio step
	portaTarget        int
	portaSpeed         int
	volSlide           int
	vibratoPos         int
	vibratoSpeed       int
	vibratoDepth       int
	tremoloPos         int
	tremoloSpeed       int
	tremoloDepth       int
	tremoloAdjust      int // added to volume while a tremolo runs

	// When the note was triggered
	trigOrder int
	trigRow   int
}

// NewVoice returns a reset voice that renders at sampleRate.
func NewVoice(sampleRate int, clock Clock, interp Interpolation) *Voice {
	v := &Voice{rate: float64(sampleRate), clock: clock, interp: interp}
	v.Reset()
	return v
}

// Reset silences the voice, unbinds the instrument, centers the pan and
// clears all effect memory.
func (v *Voice) Reset() {
	v.active = false
	v.SetVolume(0)
	v.instrument = nil

	// pan is centered
	v.panL = 1
	v.panR = 1

	v.arpStep1 = 0
	v.arpStep2 = 0
	v.arpCounter = 0
	v.arpActive = false
	v.portaTarget = 0
	v.portaSpeed = 0
	v.volSlide = 0
	v.vibratoPos = 0
	v.vibratoSpeed = 0
	v.vibratoDepth = 0
	v.tremoloPos = 0
	v.tremoloSpeed = 0
	v.tremoloDepth = 0
	v.setTremolo(0)
	v.trigOrder = -1
	v.trigRow = -1
}

// NoteOn starts ins playing at period. A nil instrument is a note-off, MOD
// files legitimately trigger empty instrument slots.
func (v *Voice) NoteOn(ins *Instrument, period int) {
	if ins == nil {
		v.active = false
		return
	}

	v.instrument = ins
	v.active = true
	v.finetune = ins.Finetune
	v.pos = 0
	v.vibratoPos = 0
	v.tremoloPos = 0
	v.SetPeriod(period)
	v.basePeriod = v.period
}

// NextSample returns the voice's next mono sample and advances the read
// position.
func (v *Voice) NextSample() int16 {
	if !v.active {
		return 0
	}

	ins := v.instrument
	s := ins.sampleAt(v.pos, v.interp)

	v.pos += v.step
	if length := float64(ins.Length()); v.pos >= length {
		if ins.IsLooping() {
			for v.pos >= length {
				v.pos -= float64(ins.LoopLen)
			}
		} else {
			// the voice stops playing after this sample
			v.active = false
		}
	}

	return int16(float64(s) * v.vol)
}

// SetPan sets the pan multipliers from a raw 0..255 pan position.
func (v *Voice) SetPan(raw int) {
	v.panL = min(float64(255-raw)/128, 1)
	v.panR = min(float64(raw)/128, 1)
}

// SetFinetune overrides the finetune of the playing note with a raw 0..15
// finetune nibble.
func (v *Voice) SetFinetune(raw int) error {
	if raw < 0 || raw > 15 {
		return fmt.Errorf("%w: raw value %d", ErrBadFinetune, raw)
	}
	v.finetune = finetuneFromRaw(raw)
	v.updateStep()

	return nil
}

// SetVolume sets the raw volume, clamped to 0..64.
func (v *Voice) SetVolume(vol int) {
	v.volume = min(max(vol, 0), maxVolume)
	v.updateVol()
}

func (v *Voice) setTremolo(adjust int) {
	v.tremoloAdjust = adjust
	v.updateVol()
}

func (v *Voice) updateVol() {
	v.vol = float64(min(max(v.volume+v.tremoloAdjust, 0), maxVolume)) / maxVolume
}

// SetPeriod sets the current period and recomputes the playback rate.
func (v *Voice) SetPeriod(period int) {
	v.period = min(max(period, minPeriod), maxPeriod)
	v.updateStep()
}

// SetInstrument changes the instrument without restarting the waveform. A
// nil instrument stops the voice.
func (v *Voice) SetInstrument(ins *Instrument) {
	v.instrument = ins
	if ins == nil {
		v.active = false
	}
}

// SetPosition moves the read position, used by the sample offset effect.
// A position at or past the end of the waveform stops the voice.
func (v *Voice) SetPosition(pos float64) {
	if v.instrument == nil || pos < 0 {
		return
	}
	if pos >= float64(v.instrument.Length()) {
		v.active = false
		return
	}
	v.pos = pos
}

func (v *Voice) updateStep() {
	p := max(v.period+v.finetune, minPeriod)
	v.step = float64(v.clock) / float64(p*2) / v.rate
}

func (v *Voice) Active() bool               { return v.active }
func (v *Voice) Instrument() *Instrument    { return v.instrument }
func (v *Voice) Period() int                { return v.period }
func (v *Voice) BasePeriod() int            { return v.basePeriod }
func (v *Voice) Volume() int                { return v.volume }
func (v *Voice) Finetune() int              { return v.finetune }
func (v *Voice) Position() float64          { return v.pos }
func (v *Voice) Pan() (left, right float64) { return v.panL, v.panR }
