package modengine

import "fmt"

// Effect identifies a cell's effect. Ordinary effects use the raw MOD effect
// nibble, extended effects (raw effect E) are remapped to 0xE0 | x where x is
// the high nibble of the effect argument. EffectEmpty marks a cell whose four
// bytes were all zero.
type Effect int

const (
	EffectArpeggio Effect = iota
	EffectPortamentoUp
	EffectPortamentoDown
	EffectTonePortamento
	EffectVibrato
	EffectTonePortamentoVolumeSlide
	EffectVibratoVolumeSlide
	EffectTremolo
	EffectSetPanning
	EffectSampleOffset
	EffectVolumeSlide
	EffectPositionJump
	EffectSetVolume
	EffectPatternBreak
	effectExtended // raw value only, never stored in a Cell
	EffectSetSpeed
)

// Extended effects (Exy)
const (
	EffectSetFilter Effect = 0xE0 + iota
	EffectFinePortamentoUp
	EffectFinePortamentoDown
	EffectGlissandoControl
	EffectSetVibratoWaveform
	EffectSetFinetune
	EffectPatternLoop
	EffectSetTremoloWaveform
	EffectCoarseSetPanning
	EffectRetrigger
	EffectFineVolumeSlideUp
	EffectFineVolumeSlideDown
	EffectNoteCut
	EffectNoteDelay
	EffectPatternDelay
	EffectInvertLoop
)

const EffectEmpty Effect = 0x100

var effectNames = map[Effect]string{
	EffectArpeggio:                  "Arpeggio",
	EffectPortamentoUp:              "PortamentoUp",
	EffectPortamentoDown:            "PortamentoDown",
	EffectTonePortamento:            "TonePortamento",
	EffectVibrato:                   "Vibrato",
	EffectTonePortamentoVolumeSlide: "TonePortamentoVolumeSlide",
	EffectVibratoVolumeSlide:        "VibratoVolumeSlide",
	EffectTremolo:                   "Tremolo",
	EffectSetPanning:                "SetPanning",
	EffectSampleOffset:              "SampleOffset",
	EffectVolumeSlide:               "VolumeSlide",
	EffectPositionJump:              "PositionJump",
	EffectSetVolume:                 "SetVolume",
	EffectPatternBreak:              "PatternBreak",
	EffectSetSpeed:                  "SetSpeed",
	EffectSetFilter:                 "SetFilter",
	EffectFinePortamentoUp:          "FinePortamentoUp",
	EffectFinePortamentoDown:        "FinePortamentoDown",
	EffectGlissandoControl:          "GlissandoControl",
	EffectSetVibratoWaveform:        "SetVibratoWaveform",
	EffectSetFinetune:               "SetFinetune",
	EffectPatternLoop:               "PatternLoop",
	EffectSetTremoloWaveform:        "SetTremoloWaveform",
	EffectCoarseSetPanning:          "CoarseSetPanning",
	EffectRetrigger:                 "Retrigger",
	EffectFineVolumeSlideUp:         "FineVolumeSlideUp",
	EffectFineVolumeSlideDown:       "FineVolumeSlideDown",
	EffectNoteCut:                   "NoteCut",
	EffectNoteDelay:                 "NoteDelay",
	EffectPatternDelay:              "PatternDelay",
	EffectInvertLoop:                "InvertLoop",
	EffectEmpty:                     "Empty",
}

func (e Effect) String() string {
	if s, ok := effectNames[e]; ok {
		return s
	}
	return fmt.Sprintf("Effect(%#x)", int(e))
}

// IsExtended reports whether e is one of the remapped Exy effects.
func (e Effect) IsExtended() bool {
	return e >= EffectSetFilter && e <= EffectInvertLoop
}

// Code returns the effect nibble and argument the way a tracker displays
// them, e.g. "C20" or "E51".
func (c Cell) Code() string {
	switch {
	case c.Effect == EffectEmpty:
		return "..."
	case c.Effect.IsExtended():
		return fmt.Sprintf("E%X%X", int(c.Effect)&0xF, c.Arg&0xF)
	default:
		return fmt.Sprintf("%X%02X", int(c.Effect), c.Arg)
	}
}
