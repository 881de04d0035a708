package modengine

const mixBufferLen = 8192 // stereo frames

// mixer sums channel voices into an interleaved stereo buffer. Voices are
// mixed into a wide accumulator first so loud passages only clip once, when
// the buffer is converted to 16-bit output.
type mixer struct {
	attenuation float64
	mute        uint // bitmask of muted channels, channel 1 in LSB

	// LRLRLR...
	buf []float64
}

func newMixer(mute uint) *mixer {
	return &mixer{
		attenuation: globalAttenuation,
		mute:        mute,
		buf:         make([]float64, mixBufferLen*2),
	}
}

// prepare clears room for frames stereo frames.
func (m *mixer) prepare(frames int) {
	if frames*2 > len(m.buf) {
		m.buf = make([]float64, frames*2)
	}
	clear(m.buf[:frames*2])
}

// mix renders nFrames of every voice into the buffer starting at frame
// offset.
func (m *mixer) mix(voices []*Voice, nFrames, offset int) {
	for ci, v := range voices {
		if !v.Active() {
			continue
		}

		// A muted channel keeps playing so it can be unmuted mid-note
		if m.mute&(1<<ci) != 0 {
			for range nFrames {
				v.NextSample()
			}
			continue
		}

		cur := offset * 2
		end := (offset + nFrames) * 2
		for ; cur < end && v.Active(); cur += 2 {
			s := float64(v.NextSample()) * m.attenuation
			m.buf[cur+0] += s * v.panL
			m.buf[cur+1] += s * v.panR
		}
	}
}

// downsample clamps the first frames of the mix buffer into out.
func (m *mixer) downsample(out []int16, frames int) {
	for i, s := range m.buf[:frames*2] {
		if s > 32767 {
			s = 32767
		} else if s < -32768 {
			s = -32768
		}
		out[i] = int16(s)
	}
}
