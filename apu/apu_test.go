package apu

import "testing"

func TestPulseLengthCounterLoadedFromTable(t *testing.T) {
	a := New()
	a.WritePort(0x4015, 0x01) // enable pulse 0
	a.WritePort(0x4003, 0x08) // length index 1 -> 254

	if got, want := a.pulse0.lengthCounter, lengthTable[1]; got != want {
		t.Errorf("lengthCounter = %d, want %d", got, want)
	}
}

func TestPulseDisableClearsLengthCounter(t *testing.T) {
	a := New()
	a.WritePort(0x4015, 0x01)
	a.WritePort(0x4003, 0x08)
	a.WritePort(0x4015, 0x00)

	if a.pulse0.lengthCounter != 0 {
		t.Errorf("lengthCounter = %d, want 0 after disable", a.pulse0.lengthCounter)
	}
}

func TestPulseMutedWhenPeriodTooLow(t *testing.T) {
	p := &pulse{enabled: true, lengthCounter: 10, freqTimer: 2, dutyTable: 2, dutyCounter: 2}
	if !p.mutedBySweep() {
		t.Errorf("expected pulse with freqTimer<8 to be muted")
	}
	if got := p.sample(); got != 0 {
		t.Errorf("sample() = %d, want 0 for muted pulse", got)
	}
}

func TestTriangleStepsThroughSequence(t *testing.T) {
	tr := &triangle{enabled: true, lengthCounter: 5, linearCounter: 5, freqTimer: 2, freqCounter: 0}
	tr.clockFreq()
	if tr.step != 1 {
		t.Errorf("step = %d, want 1 after one clock", tr.step)
	}
	if got, want := tr.sample(), triangleTable[1]; got != want {
		t.Errorf("sample() = %d, want %d", got, want)
	}
}

func TestNoiseEnvelopeDecaysOverTime(t *testing.T) {
	n := &noise{envelopeV: 5, envelopeUse: true, envelopeReset: true, shiftReg: 1, lengthCounter: 1}
	n.clockEnvelope() // reset -> vol 15
	if n.envelopeVol != 0x0F {
		t.Fatalf("envelopeVol = %d, want 15 immediately after reset", n.envelopeVol)
	}
	for i := 0; i < int(n.envelopeV)+1; i++ {
		n.clockEnvelope()
	}
	if n.envelopeVol != 0x0E {
		t.Errorf("envelopeVol = %d, want 14 after one full decay period", n.envelopeVol)
	}
}

func TestFrameCounterAssertsIRQInFourStepMode(t *testing.T) {
	a := New()
	a.WritePort(0x4017, 0x00) // 4-step mode, IRQ enabled

	for i := 0; i < 29829; i++ {
		a.clockFrameCounter()
	}
	if !a.IRQPending() {
		t.Errorf("expected frame IRQ to be pending after a full 4-step sweep")
	}
}

func TestFrameCounterIRQInhibited(t *testing.T) {
	a := New()
	a.WritePort(0x4017, 0x40) // 4-step mode, IRQ inhibited

	for i := 0; i < 29829; i++ {
		a.clockFrameCounter()
	}
	if a.IRQPending() {
		t.Errorf("expected no frame IRQ when inhibit bit is set")
	}
}

func TestReadStatusClearsIRQ(t *testing.T) {
	a := New()
	a.frameIRQ = true
	if got := a.ReadPort(0x4015) & 0x40; got == 0 {
		t.Fatalf("expected status read to report pending IRQ")
	}
	if a.IRQPending() {
		t.Errorf("expected reading $4015 to clear the frame IRQ flag")
	}
}
