package ppu

import (
	"testing"
)

func TestOAMAttributes(t *testing.T) {
	cases := []struct {
		attrib         uint8
		wantPa         uint8
		wantPr         priority
		wantFH, wantFV bool
	}{
		{0b11111111, 0x03, BACK, true, true},
		{0b01111111, 0x03, BACK, true, false},
		{0b00111111, 0x03, BACK, false, false},
		{0b00111101, 0x01, BACK, false, false},
		{0b00011101, 0x01, FRONT, false, false},
		{0b10011101, 0x01, FRONT, false, true},
		{0b10011110, 0x02, FRONT, false, true},
	}

	for i, tc := range cases {
		o := OAMFromBytes([]uint8{0, 0, tc.attrib, 0})

		if o.palette != tc.wantPa || o.renderP != tc.wantPr || o.flipH != tc.wantFH || o.flipV != tc.wantFV {
			t.Errorf("%d: %02x, %d, %t, %t; wanted %02x, %d, %t, %t", i, o.palette, o.renderP, o.flipH, o.flipV, tc.wantPa, tc.wantPr, tc.wantFH, tc.wantFV)
		}
	}
}

func TestSpriteEvaluatorOverflow(t *testing.T) {
	var primary [OAM_SIZE]uint8
	// 9 sprites all visible on scanline 50, each 4 bytes apart.
	for i := 0; i < 9; i++ {
		primary[i*4+0] = 48 // y
		primary[i*4+1] = uint8(i)
		primary[i*4+3] = uint8(i * 10) // x
	}

	var se spriteEvaluator
	se.evaluate(&primary, 50, 8)

	if se.count != maxSpritesPerScanline {
		t.Fatalf("count = %d, want %d", se.count, maxSpritesPerScanline)
	}
	if !se.overflow {
		t.Fatalf("expected overflow flag with a 9th in-range sprite")
	}
	if !se.sprite0InBuf {
		t.Fatalf("expected sprite 0 to be captured")
	}
}

func TestSpriteEvaluatorSkipsOutOfRange(t *testing.T) {
	var primary [OAM_SIZE]uint8
	primary[0] = 100 // sprite 0 not on scanline 10
	primary[4] = 10  // sprite 1 on scanline 10

	var se spriteEvaluator
	se.evaluate(&primary, 10, 8)

	if se.count != 1 {
		t.Fatalf("count = %d, want 1", se.count)
	}
	if se.sprite0InBuf {
		t.Fatalf("sprite 0 should not have been captured")
	}
}
