// Package apu implements the NES 2A03 audio processing unit: two
// pulse channels, a triangle channel, a noise channel, a DMC register
// stub, and the frame counter that quarter/half-frame clocks envelope,
// sweep, and length-counter logic and can assert an IRQ line.
//
// Grounded on flga-vnes/nes/apu.go, the one complete APU in the
// example corpus: channel register layout, length/duty/noise-period
// tables, the non-linear pulse/TND mixer formula, and frame-counter
// sequencing are all adapted from that file into this package's
// naming and the rest of this module's composition style. The
// per-channel-per-file WAV recording and biquad filter chain that file
// wires into its mixer are output-device concerns this module has no
// analog for (console.audioSink feeds ebiten/v2/audio directly), so
// they aren't carried over.
package apu

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var pulseDutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var pulseMixTable [31]float32
var tndMixTable [203]float32

func init() {
	for i := range pulseMixTable {
		pulseMixTable[i] = 95.52 / (8128.0/float32(i) + 100)
	}
	pulseMixTable[0] = 0
	for i := range tndMixTable {
		tndMixTable[i] = 163.67 / (24329.0/float32(i) + 100)
	}
	tndMixTable[0] = 0
}

type pulse struct {
	channel uint8 // 0 or 1; channel 0's sweep unit subtracts one extra

	enabled bool

	dutyTable     uint8
	envelopeLoop  bool
	lengthEnabled bool
	envelopeUse   bool
	envelopeV     uint8

	sweepTimer   uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepReload  bool
	sweepEnabled bool
	sweepCounter uint8

	freqTimer     uint16
	freqCounter   uint16
	lengthCounter uint8
	dutyCounter   uint8

	envelopeReset bool
	envelopeVol   uint8
	envelopeCtr   uint8
}

func (p *pulse) writePort(addr uint16, v uint8) {
	switch addr & 0x03 {
	case 0:
		p.dutyTable = v >> 6
		p.envelopeLoop = v&0x20 != 0
		p.lengthEnabled = v&0x20 == 0
		p.envelopeUse = v&0x10 == 0
		p.envelopeV = v & 0x0F
	case 1:
		p.sweepTimer = (v >> 4) & 0x07
		p.sweepNegate = v&0x08 != 0
		p.sweepShift = v & 0x07
		p.sweepEnabled = v&0x80 != 0 && p.sweepShift != 0
		p.sweepReload = true
	case 2:
		p.freqTimer = p.freqTimer&0xFF00 | uint16(v)
	case 3:
		p.freqTimer = uint16(v&0x07)<<8 | p.freqTimer&0x00FF
		if p.enabled {
			p.lengthCounter = lengthTable[v>>3]
		}
		p.dutyCounter = 0
		p.envelopeReset = true
	}
}

func (p *pulse) setEnabled(v bool) {
	p.enabled = v
	if !v {
		p.lengthCounter = 0
	}
}

func (p *pulse) clockFreq() {
	if p.freqCounter > 0 {
		p.freqCounter--
		return
	}
	p.freqCounter = p.freqTimer
	p.dutyCounter = (p.dutyCounter + 1) & 0x07
}

func (p *pulse) clockEnvelope() {
	if p.envelopeReset {
		p.envelopeReset = false
		p.envelopeVol = 0x0F
		p.envelopeCtr = p.envelopeV
		return
	}
	if p.envelopeCtr > 0 {
		p.envelopeCtr--
		return
	}
	p.envelopeCtr = p.envelopeV
	if p.envelopeVol > 0 {
		p.envelopeVol--
	} else if p.envelopeLoop {
		p.envelopeVol = 0x0F
	}
}

func (p *pulse) targetPeriod() uint16 {
	shift := p.freqTimer >> p.sweepShift
	if p.sweepNegate {
		adj := shift
		if p.channel == 0 {
			adj++
		}
		if adj > p.freqTimer {
			return 0
		}
		return p.freqTimer - adj
	}
	return p.freqTimer + shift
}

func (p *pulse) mutedBySweep() bool {
	return p.freqTimer < 8 || (!p.sweepNegate && p.targetPeriod() >= 0x800)
}

func (p *pulse) clockSweep() {
	if p.sweepCounter == 0 && p.sweepEnabled && !p.mutedBySweep() {
		p.freqTimer = p.targetPeriod()
	}
	if p.sweepCounter == 0 || p.sweepReload {
		p.sweepCounter = p.sweepTimer
		p.sweepReload = false
	} else {
		p.sweepCounter--
	}
}

func (p *pulse) clockLength() {
	if p.lengthEnabled && p.lengthCounter > 0 {
		p.lengthCounter--
	}
}

func (p *pulse) sample() uint8 {
	if !p.enabled || p.lengthCounter == 0 || p.mutedBySweep() {
		return 0
	}
	if pulseDutyTable[p.dutyTable][p.dutyCounter] == 0 {
		return 0
	}
	if p.envelopeUse {
		return p.envelopeVol
	}
	return p.envelopeV
}

type triangle struct {
	enabled bool

	lengthEnabled bool
	linearControl bool
	linearLoad    uint8
	linearReload  bool
	linearCounter uint8

	freqTimer   uint16
	freqCounter uint16

	lengthCounter uint8
	step          uint8
}

func (t *triangle) writePort(addr uint16, v uint8) {
	switch addr {
	case 0x4008:
		t.linearControl = v&0x80 != 0
		t.lengthEnabled = v&0x80 == 0
		t.linearLoad = v &^ 0x80
	case 0x400A:
		t.freqTimer = t.freqTimer&0xFF00 | uint16(v)
	case 0x400B:
		t.freqTimer = uint16(v&0x07)<<8 | t.freqTimer&0x00FF
		if t.enabled {
			t.lengthCounter = lengthTable[v>>3]
		}
		t.linearReload = true
	}
}

func (t *triangle) setEnabled(v bool) {
	t.enabled = v
	if !v {
		t.lengthCounter = 0
	}
}

func (t *triangle) ultrasonic() bool {
	return t.freqTimer < 2
}

func (t *triangle) clockFreq() {
	if t.lengthCounter == 0 || t.linearCounter == 0 || t.ultrasonic() {
		return
	}
	if t.freqCounter > 0 {
		t.freqCounter--
		return
	}
	t.freqCounter = t.freqTimer
	t.step = (t.step + 1) % 32
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linearCounter = t.linearLoad
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.linearControl {
		t.linearReload = false
	}
}

func (t *triangle) clockLength() {
	if t.lengthEnabled && t.lengthCounter > 0 {
		t.lengthCounter--
	}
}

func (t *triangle) sample() uint8 {
	return triangleTable[t.step]
}

type noise struct {
	enabled bool

	envelopeLoop  bool
	lengthEnabled bool
	envelopeUse   bool
	envelopeV     uint8

	freqTimer   uint16
	freqCounter uint16
	modeBit6    bool

	lengthCounter uint8
	shiftReg      uint16

	envelopeReset bool
	envelopeVol   uint8
	envelopeCtr   uint8
}

func (n *noise) writePort(addr uint16, v uint8) {
	switch addr {
	case 0x400C:
		n.envelopeLoop = v&0x20 != 0
		n.lengthEnabled = v&0x20 == 0
		n.envelopeUse = v&0x10 == 0
		n.envelopeV = v & 0x0F
	case 0x400E:
		n.freqTimer = noisePeriodTable[v&0x0F]
		n.modeBit6 = v&0x80 != 0
	case 0x400F:
		if n.enabled {
			n.lengthCounter = lengthTable[v>>3]
		}
		n.envelopeReset = true
	}
}

func (n *noise) setEnabled(v bool) {
	n.enabled = v
	if !v {
		n.lengthCounter = 0
	}
}

func (n *noise) clockFreq() {
	if n.freqCounter > 0 {
		n.freqCounter--
		return
	}
	n.freqCounter = n.freqTimer

	var feedback uint16
	if n.modeBit6 {
		feedback = (n.shiftReg >> 6) ^ n.shiftReg
	} else {
		feedback = (n.shiftReg >> 1) ^ n.shiftReg
	}
	feedback &= 1
	n.shiftReg >>= 1
	n.shiftReg |= feedback << 14
}

func (n *noise) clockEnvelope() {
	if n.envelopeReset {
		n.envelopeReset = false
		n.envelopeVol = 0x0F
		n.envelopeCtr = n.envelopeV
		return
	}
	if n.envelopeCtr > 0 {
		n.envelopeCtr--
		return
	}
	n.envelopeCtr = n.envelopeV
	if n.envelopeVol > 0 {
		n.envelopeVol--
	} else if n.envelopeLoop {
		n.envelopeVol = 0x0F
	}
}

func (n *noise) clockLength() {
	if n.lengthEnabled && n.lengthCounter > 0 {
		n.lengthCounter--
	}
}

func (n *noise) sample() uint8 {
	if n.lengthCounter == 0 || n.shiftReg&1 != 0 {
		return 0
	}
	if n.envelopeUse {
		return n.envelopeVol
	}
	return n.envelopeV
}

// APU ties the four channels above plus a DMC register stub to a
// 4-/5-step frame counter and exposes the mixed output sample.
type APU struct {
	pulse0, pulse1 *pulse
	triangle       *triangle
	noise          *noise

	dmcIRQEnabled bool
	dmcEnabled    bool

	sequencerMode    uint8 // 0 = 4-step, 1 = 5-step
	irqInhibit       bool
	sequencerCounter uint32
	frameIRQ         bool

	cycle uint64

	lastSample float32
}

// New returns a freshly power-on-reset APU.
func New() *APU {
	return &APU{
		pulse0:   &pulse{channel: 0, lengthEnabled: true},
		pulse1:   &pulse{channel: 1, lengthEnabled: true},
		triangle: &triangle{lengthEnabled: true},
		noise:    &noise{shiftReg: 1, lengthEnabled: true},
	}
}

// WritePort routes a CPU write to $4000-$4013, $4015, or $4017.
func (a *APU) WritePort(addr uint16, v uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse0.writePort(addr, v)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse1.writePort(addr-0x4000, v)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.writePort(addr, v)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.writePort(addr, v)
	case addr == 0x4010:
		a.dmcIRQEnabled = v&0x80 != 0
	case addr == 0x4015:
		a.pulse0.setEnabled(v&0x01 != 0)
		a.pulse1.setEnabled(v&0x02 != 0)
		a.triangle.setEnabled(v&0x04 != 0)
		a.noise.setEnabled(v&0x08 != 0)
		a.dmcEnabled = v&0x10 != 0
	case addr == 0x4017:
		a.sequencerMode = v >> 7
		a.irqInhibit = v&0x40 != 0
		if a.irqInhibit {
			a.frameIRQ = false
		}
		a.sequencerCounter = 0
		if a.sequencerMode == 1 {
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}
}

// ReadPort implements $4015's status readback, clearing the frame IRQ
// flag as a side effect the way real hardware does.
func (a *APU) ReadPort(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}

	var ret uint8
	if a.pulse0.lengthCounter != 0 {
		ret |= 0x01
	}
	if a.pulse1.lengthCounter != 0 {
		ret |= 0x02
	}
	if a.triangle.lengthCounter != 0 {
		ret |= 0x04
	}
	if a.noise.lengthCounter != 0 {
		ret |= 0x08
	}
	if a.frameIRQ {
		ret |= 0x40
	}
	a.frameIRQ = false
	return ret
}

// IRQPending reports whether the frame counter or DMC currently wants
// to assert the shared APU IRQ line. DMC never sets it in this module
// (playback is stubbed), but the accessor exists so console.Bus can
// poll a single boolean regardless of source.
func (a *APU) IRQPending() bool {
	return a.frameIRQ
}

func (a *APU) clockQuarterFrame() {
	a.pulse0.clockEnvelope()
	a.pulse1.clockEnvelope()
	a.triangle.clockLinear()
	a.noise.clockEnvelope()
}

func (a *APU) clockHalfFrame() {
	a.pulse0.clockSweep()
	a.pulse0.clockLength()
	a.pulse1.clockSweep()
	a.pulse1.clockLength()
	a.triangle.clockLength()
	a.noise.clockLength()
}

// clockFrameCounter advances the 4-/5-step sequencer by one CPU cycle.
// The thresholds below are CPU-cycle counts (NTSC: ~29830 CPU cycles
// per 4-step sweep of the sequencer), matching the values clocked by
// the APU hardware's own divide-by-two-then-count-to-~14913 structure.
func (a *APU) clockFrameCounter() {
	if a.sequencerMode == 0 {
		switch a.sequencerCounter {
		case 7457:
			a.clockQuarterFrame()
		case 14913:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		case 22371:
			a.clockQuarterFrame()
		case 29828:
			if !a.irqInhibit {
				a.frameIRQ = true
			}
		case 29829:
			a.clockQuarterFrame()
			a.clockHalfFrame()
			if !a.irqInhibit {
				a.frameIRQ = true
			}
		}
		a.sequencerCounter++
		if a.sequencerCounter == 29830 {
			a.sequencerCounter = 0
		}
	} else {
		switch a.sequencerCounter {
		case 7457:
			a.clockQuarterFrame()
		case 14913:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		case 22371:
			a.clockQuarterFrame()
		case 37281:
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
		a.sequencerCounter++
		if a.sequencerCounter == 37282 {
			a.sequencerCounter = 0
		}
	}
}

// Step advances the APU by one CPU cycle (two Steps per APU cycle for
// the pulse/noise timers, matching real hardware's divide-by-two
// input clock; the triangle timer runs at the full CPU rate).
func (a *APU) Step() {
	if a.cycle&1 == 1 {
		a.pulse0.clockFreq()
		a.pulse1.clockFreq()
		a.noise.clockFreq()
	}
	a.triangle.clockFreq()

	a.clockFrameCounter()

	pulseOut := pulseMixTable[a.pulse0.sample()+a.pulse1.sample()]
	tndIdx := 3*int(a.triangle.sample()) + 2*int(a.noise.sample())
	tndOut := tndMixTable[tndIdx]

	a.lastSample = pulseOut + tndOut
	a.cycle++
}

// Sample returns the most recently mixed output, in [0, 1).
func (a *APU) Sample() float32 {
	return a.lastSample
}
