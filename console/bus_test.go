package console

import (
	"testing"

	"github.com/nescore/nescore/mappers"
)

func TestBaseNESMapping(t *testing.T) {
	b := New(mappers.Dummy)

	for i := 0; i < 10; i++ {
		b.Write(uint16(i), uint8(i+1))
	}

	for _, a := range []uint16{0, 0x800, 0x1000, 0x1800} {
		for i := 0; i < 10; i++ {
			if got := b.Read(a + uint16(i)); got != uint8(i+1) {
				t.Errorf("mem[%04x] = %02x, wanted %02x", a+uint16(i), got, i+1)
			}
		}
	}
}

func TestOAMDMACopiesPage(t *testing.T) {
	b := New(mappers.Dummy)

	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}

	b.Write(OAMDMA, 0x00)

	b.ppu.WriteReg(0x2003, 0x00) // reset OAM address to read it back
	if got := b.ppu.ReadReg(0x2004); got != 0x00 {
		t.Errorf("oam[0] = %02x, wanted 0x00", got)
	}
}

func TestControllerReadReflectsStrobedState(t *testing.T) {
	b := New(mappers.Dummy)

	b.Write(JOY1, 0x01)
	b.Write(JOY1, 0x00)

	for i := 0; i < 8; i++ {
		b.Read(JOY1)
	}
	if got := b.Read(JOY1) & 0x01; got != 0x01 {
		t.Errorf("expected reads past bit 7 to return 1, got %02x", got)
	}
}
