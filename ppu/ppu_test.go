package ppu

import "testing"

type testBus struct {
	chr          [0x2000]uint8
	nmiTriggered bool
	nmiCancelled bool
}

func (tb *testBus) ChrRead(start, end uint16) []uint8 {
	return tb.chr[start : end+1]
}

func (tb *testBus) ChrWrite(addr uint16, val uint8) { tb.chr[addr] = val }

func (tb *testBus) TriggerNMI() { tb.nmiTriggered = true }

func (tb *testBus) CancelNMI() { tb.nmiTriggered = false; tb.nmiCancelled = true }

func (tb *testBus) reset() { tb.nmiTriggered = false; tb.nmiCancelled = false }

func TestWriteRegPPUCTRL(t *testing.T) {
	cases := []struct {
		val   uint8
		wantT uint16
	}{
		// These are cumulative
		{0b11001100, 0b00000000_00000000},
		{0b01010101, 0b00000100_00000000},
		{0b01010111, 0b00001100_00000000},
		{0b01010100, 0b00000000_00000000},
		{0b01010110, 0b00001000_00000000},
	}

	p := New(&testBus{})

	for i, tc := range cases {
		p.WriteReg(PPUCTRL, tc.val)
		if p.t.data != tc.wantT {
			t.Errorf("%d: Got t=%015b wanted %015b", i, p.t.data, tc.wantT)
		}
	}
}

func TestWriteRegPPUSCROLL(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUSCROLL, 0x7D) // coarseX=15, fineX=5
	if p.t.coarseX() != 15 || p.x != 5 || p.wLatch != 1 {
		t.Fatalf("after first write: coarseX=%d x=%d wLatch=%d", p.t.coarseX(), p.x, p.wLatch)
	}

	p.WriteReg(PPUSCROLL, 0x5E) // coarseY=11, fineY=6
	if p.t.coarseY() != 11 || p.t.fineY() != 6 || p.wLatch != 0 {
		t.Fatalf("after second write: coarseY=%d fineY=%d wLatch=%d", p.t.coarseY(), p.t.fineY(), p.wLatch)
	}
}

func TestWriteRegPPUADDR(t *testing.T) {
	p := New(&testBus{})

	p.WriteReg(PPUADDR, 0x3F)
	if p.wLatch != 1 {
		t.Fatalf("wLatch = %d after high byte, want 1", p.wLatch)
	}
	p.WriteReg(PPUADDR, 0x10)
	if p.wLatch != 0 || p.v.data != 0x3F10 {
		t.Fatalf("v = 0x%04x wLatch=%d, want 0x3F10/0", p.v.data, p.wLatch)
	}
}

func TestPaletteMirroring(t *testing.T) {
	p := New(&testBus{})
	p.writePalette(0x00, 0x0F)
	if got := p.readPalette(0x10); got != 0x0F {
		t.Fatalf("palette index 0x10 = 0x%02x, want mirror of 0x00 (0x0F)", got)
	}
}

func TestVBlankSetAndNMIFires(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.ctrl = CTRL_GENERATE_NMI
	p.scanline = vblankStartLine
	p.scandot = 1
	p.Step()
	if p.status&STATUS_VERTICAL_BLANK == 0 {
		t.Fatalf("vblank flag not set at scanline %d dot 1", vblankStartLine)
	}
	if !bus.nmiTriggered {
		t.Fatalf("NMI not triggered on vblank entry with CTRL_GENERATE_NMI set")
	}
}

func TestOddFrameSkip(t *testing.T) {
	p := New(&testBus{})
	p.mask = MASK_SHOW_BACKGROUND
	p.scanline = scanlinesPerFrame - 2
	p.scandot = dotsPerScanline - 1
	p.frameOdd = false
	p.Step() // wraps into pre-render, frameOdd flips true, skip applies
	if p.scanline != preRenderLine || p.scandot != 1 {
		t.Fatalf("odd-frame skip: scanline=%d scandot=%d, want %d/1", p.scanline, p.scandot, preRenderLine)
	}
}

func TestOAMDMAWriteIncrementsAddr(t *testing.T) {
	p := New(&testBus{})
	p.oamAddr = 0xFE
	p.WriteOAMByte(0x11)
	p.WriteOAMByte(0x22)
	if p.oamData[0xFE] != 0x11 || p.oamData[0xFF] != 0x22 {
		t.Fatalf("OAM DMA write didn't land at the expected wrapped offsets")
	}
}

func TestPPUDATAWriteRoutesPatternTableToChrWrite(t *testing.T) {
	bus := &testBus{}
	p := New(bus)

	p.WriteReg(PPUADDR, 0x10) // v = 0x1000, inside the pattern tables
	p.WriteReg(PPUADDR, 0x00)
	p.WriteReg(PPUDATA, 0xAB)

	if bus.chr[0x1000] != 0xAB {
		t.Fatalf("CHR write through $2007 didn't reach the mapper's ChrWrite: chr[0x1000] = 0x%02x", bus.chr[0x1000])
	}
}

func TestPPUSTATUSReadSuppressesRecentNMI(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.ctrl = CTRL_GENERATE_NMI
	p.scanline = vblankStartLine
	p.scandot = 1
	p.Step() // dot 1: vblank set, NMI raised

	p.ReadReg(PPUSTATUS)
	if !bus.nmiCancelled {
		t.Fatalf("NMI raised one dot ago wasn't cancelled by the $2002 read")
	}
	if !p.suppressNMI {
		t.Fatalf("suppressNMI not recorded after suppressing a recent NMI")
	}
}

func TestPPUSTATUSReadDoesNotSuppressOldNMI(t *testing.T) {
	bus := &testBus{}
	p := New(bus)
	p.ctrl = CTRL_GENERATE_NMI
	p.scanline = vblankStartLine
	p.scandot = 1
	p.Step() // dot 1: vblank set, NMI raised

	for i := 0; i < 10; i++ {
		p.Step()
	}
	bus.reset()
	p.status |= STATUS_VERTICAL_BLANK

	p.ReadReg(PPUSTATUS)
	if bus.nmiCancelled {
		t.Fatalf("a $2002 read long after the NMI edge should not suppress it")
	}
}
