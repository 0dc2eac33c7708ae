package console

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// cyclesPerSample is how many CPU cycles separate one APU output sample
// from the next, at the NTSC CPU clock of ~1.789773 MHz. It's fractional
// (not a whole number of CPU cycles), so audioSink carries the remainder
// forward cycle to cycle instead of always rounding down.
const cyclesPerSample = 1789773.0 / sampleRate

// audioSink adapts the APU's per-cycle Sample() output to the
// io.Reader ebiten/v2/audio.Player expects: a stream of signed 16-bit
// little-endian stereo PCM. Bus.stepMasterClock feeds it one APU sample
// at a time; the ebiten audio goroutine drains it through Read at its
// own pace via a small ring buffer, so the emulation thread never blocks
// on the audio device.
type audioSink struct {
	ring      []byte
	readAt    int
	writeAt   int
	buffered  int
	accCycles float64
	player    *audio.Player
}

// ringCapacity is sized generously (a quarter second of stereo 16-bit
// audio) so a momentary stall in either the emulation or playback
// goroutine doesn't drop samples.
const ringCapacity = sampleRate / 4 * 4 // 4 bytes/sample (stereo s16)

func newAudioSink(ctx *audio.Context) (*audioSink, error) {
	s := &audioSink{ring: make([]byte, ringCapacity)}

	p, err := audio.NewPlayer(ctx, s)
	if err != nil {
		return nil, err
	}
	s.player = p
	p.Play()

	return s, nil
}

// observeCycle is called once per CPU cycle from stepMasterClock. It
// accumulates fractional cycles and pushes one mixed stereo sample into
// the ring buffer whenever it crosses a sample boundary; the NES's APU
// mixer output is mono, so the same value is written to both channels.
func (s *audioSink) observeCycle(sample float32) {
	s.accCycles++
	if s.accCycles < cyclesPerSample {
		return
	}
	s.accCycles -= cyclesPerSample

	v := int16(sample * 2 * 32767)
	s.push(v)
	s.push(v)
}

func (s *audioSink) push(v int16) {
	if s.buffered >= len(s.ring) {
		// Ring is full: the playback side is lagging. Drop the sample
		// rather than block the emulation thread.
		return
	}
	s.ring[s.writeAt] = byte(v)
	s.ring[s.writeAt+1] = byte(v >> 8)
	s.writeAt = (s.writeAt + 2) % len(s.ring)
	s.buffered += 2
}

// Read implements io.Reader for audio.Player. It never returns an
// error; when nothing is buffered yet it emits silence so the player
// doesn't stall waiting on emulation that hasn't produced samples.
func (s *audioSink) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.buffered == 0 {
			p[n] = 0
			n++
			continue
		}
		p[n] = s.ring[s.readAt]
		s.readAt = (s.readAt + 1) % len(s.ring)
		s.buffered--
		n++
	}
	return n, nil
}
