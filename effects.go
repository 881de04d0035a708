package modengine

// applyEffect runs a channel's cell for the current tick. Tick 0 is the first
// tick of the row, most effects trigger the note there and then continue to
// modulate the voice on the remaining ticks.
func (p *Player) applyEffect(ci int, v *Voice, cell *Cell) {
	tick := p.tick
	arg := int(cell.Arg)

	switch cell.Effect {
	case EffectArpeggio:
		if tick == 0 {
			p.noteOn(v, cell)
			if arg != 0 {
				p.latchArpeggio(ci, v, arg)
			}
		}
		if arg != 0 {
			switch v.arpCounter % 3 {
			case 0:
				v.SetPeriod(v.basePeriod)
			case 1:
				v.SetPeriod(v.arpStep1)
			case 2:
				v.SetPeriod(v.arpStep2)
			}
			v.arpCounter++
			v.arpActive = true
		}

	case EffectPortamentoUp:
		if tick == 0 {
			p.noteOn(v, cell)
		} else {
			v.SetPeriod(v.period - arg)
		}

	case EffectPortamentoDown:
		if tick == 0 {
			p.noteOn(v, cell)
		} else {
			v.SetPeriod(v.period + arg)
		}

	case EffectTonePortamento:
		if tick == 0 {
			v.portaSpeed = 0
			if cell.Period != 0 {
				p.latchPortaTarget(v, cell)
				if arg != 0 {
					v.portaSpeed = arg
				}
			}
		}
		v.portaToNote()

	case EffectTonePortamentoVolumeSlide:
		if tick == 0 {
			v.volSlide = volumeSlideAmount(arg)
		} else {
			v.volumeSlide()
			v.portaToNote()
		}

	case EffectVibrato:
		if tick == 0 {
			p.noteOn(v, cell)
			v.latchVibrato(arg)
		}
		v.vibrato()

	case EffectVibratoVolumeSlide:
		if tick == 0 {
			p.noteOn(v, cell)
			v.volSlide = volumeSlideAmount(arg)
		} else {
			v.volumeSlide()
		}
		v.vibrato()

	case EffectTremolo:
		if tick == 0 {
			p.noteOn(v, cell)
			if arg>>4 != 0 {
				v.tremoloSpeed = arg >> 4
			}
			if arg&0xF != 0 {
				v.tremoloDepth = arg & 0xF
			}
		}
		v.tremolo()

	case EffectSetPanning:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetPan(arg)
		}

	case EffectSampleOffset:
		if tick == 0 {
			p.noteOn(v, cell)
			if cell.Period != 0 {
				v.SetPosition(float64(arg * 256))
			}
		}

	case EffectVolumeSlide:
		if tick == 0 {
			p.noteOn(v, cell)
			v.volSlide = volumeSlideAmount(arg)
		} else {
			v.volumeSlide()
		}

	case EffectPositionJump:
		if tick == 0 {
			p.noteOn(v, cell)
			p.jumpOrder = arg
		}

	case EffectSetVolume:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetVolume(arg)
		}

	case EffectPatternBreak:
		if tick == 0 {
			p.noteOn(v, cell)
			// The argument is decimal coded, D32 breaks to row 32
			row := (arg>>4)*10 + arg&0xF
			if row >= RowsPerPattern {
				row = 0
			}
			p.breakRow = row
		}

	case EffectSetSpeed:
		if tick == 0 {
			p.noteOn(v, cell)
			switch {
			case arg == 0:
				// Speed 0 would stall the song, treat it as the end
				p.log.Printf("order %d row %d: speed 0, stopping", p.order, p.row)
				p.finished = true
			case arg >= 32:
				p.setTempo(arg)
			default:
				p.Speed = arg
			}
		}

	case EffectFinePortamentoUp:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetPeriod(v.period - arg)
		}

	case EffectFinePortamentoDown:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetPeriod(v.period + arg)
		}

	case EffectSetFinetune:
		if tick == 0 && cell.Period != 0 {
			p.noteOn(v, cell)
			if err := v.SetFinetune(arg); err != nil {
				p.log.Printf("channel %d: %v", ci+1, err)
			}
		}

	case EffectPatternLoop:
		if tick == 0 {
			p.noteOn(v, cell)
			if arg == 0 {
				// Only reset the counter when the loop start moves, a loop
				// that has run its course must not start over.
				if p.loopRow != p.row {
					p.loopCount = 0
				}
				p.loopRow = p.row
			} else if p.loopCount < arg {
				if p.loopRow == noRow {
					p.loopRow = 0
				}
				p.loopPending = true
			}
		}

	case EffectCoarseSetPanning:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetPan(arg * 17)
		}

	case EffectRetrigger:
		if arg == 0 {
			if tick == 0 {
				p.noteOn(v, cell)
			}
			break
		}
		if tick%arg == 0 {
			if cell.Period != 0 {
				p.noteOn(v, cell)
			} else if ins := v.Instrument(); ins != nil {
				vol := v.Volume()
				v.NoteOn(ins, v.Period())
				v.SetVolume(vol)
				v.trigOrder, v.trigRow = p.order, p.row
			}
		}

	case EffectFineVolumeSlideUp:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetVolume(v.volume + arg)
		}

	case EffectFineVolumeSlideDown:
		if tick == 0 {
			p.noteOn(v, cell)
			v.SetVolume(v.volume - arg)
		}

	case EffectNoteCut:
		if tick == 0 {
			p.noteOn(v, cell)
		}
		if tick >= arg {
			v.SetVolume(0)
		}

	case EffectNoteDelay:
		if tick == arg {
			p.noteOn(v, cell)
		}

	default:
		// SetFilter, PatternDelay and the waveform controls have no effect
		// on the mix.
		if tick == 0 {
			p.noteOn(v, cell)
			p.log.Printf("order %d row %d channel %d: unimplemented effect %v %s", p.order, p.row, ci+1, cell.Effect, cell.Code())
		}
	}
}

// noteOn applies a cell's period and sample number to a voice.
//
//	Note Ins  Behavior
//	N    I    Play N with instrument I at I's volume.
//	N         Play N with the current instrument at the current volume.
//	     I    Next note uses I and the volume resets to I's volume. Whatever
//	          is playing carries on without restarting.
//
// An empty instrument slot is a note-off.
func (p *Player) noteOn(v *Voice, cell *Cell) {
	if cell.Period == 0 && cell.Sample == 0 {
		return
	}

	if cell.Period == 0 {
		ins := p.Song.Instrument(cell.Sample)
		v.SetInstrument(ins)
		v.SetVolume(instrumentVolume(ins))
		return
	}

	if cell.Sample != 0 {
		ins := p.Song.Instrument(cell.Sample)
		v.NoteOn(ins, cell.Period)
		v.SetVolume(instrumentVolume(ins))
	} else {
		v.NoteOn(v.Instrument(), cell.Period)
	}
	v.trigOrder, v.trigRow = p.order, p.row
}

func instrumentVolume(ins *Instrument) int {
	if ins == nil {
		return 0
	}
	return ins.Volume
}

// latchPortaTarget records the destination of a tone portamento. The note is
// not retriggered.
func (p *Player) latchPortaTarget(v *Voice, cell *Cell) {
	v.portaTarget = cell.Period
	v.basePeriod = cell.Period
	if cell.Sample == 0 {
		return
	}

	ins := p.Song.Instrument(cell.Sample)
	if ins == nil {
		ins = v.Instrument()
	}
	v.SetVolume(instrumentVolume(ins))
}

// latchArpeggio computes the two arpeggio periods from the instrument's
// period table.
func (p *Player) latchArpeggio(ci int, v *Voice, arg int) {
	v.arpCounter = 0
	ins := v.Instrument()
	if ins == nil {
		v.arpStep1, v.arpStep2 = v.basePeriod, v.basePeriod
		return
	}

	note, exact := periodToNote(ins.Finetune, v.basePeriod)
	if !exact {
		p.log.Printf("order %d row %d channel %d: arpeggio period %d is not in the period table, using %s",
			p.order, p.row, ci+1, v.basePeriod, noteStr(note))
	}
	table := periodTable(ins.Finetune)
	v.arpStep1 = table[min(note+arg>>4, notesPerTable-1)]
	v.arpStep2 = table[min(note+arg&0xF, notesPerTable-1)]
}

// volumeSlideAmount decodes a volume slide argument, up takes priority.
func volumeSlideAmount(arg int) int {
	if arg>>4 != 0 {
		return arg >> 4
	}
	return -(arg & 0xF)
}

func (v *Voice) volumeSlide() {
	v.SetVolume(v.volume + v.volSlide)
}

func (v *Voice) portaToNote() {
	if v.portaTarget == 0 || v.portaSpeed == 0 {
		return
	}

	period := v.period
	if period < v.portaTarget {
		period = min(period+v.portaSpeed, v.portaTarget)
	} else if period > v.portaTarget {
		period = max(period-v.portaSpeed, v.portaTarget)
	}
	v.SetPeriod(period)
}

// latchVibrato keeps the previous speed or depth when a nibble is zero.
func (v *Voice) latchVibrato(arg int) {
	if arg>>4 != 0 {
		v.vibratoSpeed = arg >> 4
	}
	if arg&0xF != 0 {
		v.vibratoDepth = arg & 0xF
	}
}

func (v *Voice) vibrato() {
	v.SetPeriod(v.basePeriod + sineTable[v.vibratoPos]*v.vibratoDepth/128)
	v.vibratoPos = (v.vibratoPos + v.vibratoSpeed) & 63
}

func (v *Voice) tremolo() {
	v.setTremolo(sineTable[v.tremoloPos] * v.tremoloDepth / 64)
	v.tremoloPos = (v.tremoloPos + v.tremoloSpeed) & 63
}
