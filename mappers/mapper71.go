package mappers

import (
	"github.com/nescore/nescore/nesrom"
	"github.com/nescore/nescore/ppu"
)

// Mapper 71 (Camerica/Codemasters): switchable 16KB PRG bank at
// $8000-$BFFF, fixed to the last bank at $C000-$FFFF, CHR-RAM only.
// A few boards (Fire Hawk) additionally use $9000-$9FFF to select
// single-screen mirroring; most don't, but honoring the write when
// present is harmless for carts that never issue it.
func init() {
	RegisterMapper(71, &mapper71{baseMapper: newBaseMapper(71, "Camerica/Codemasters")})
}

type mapper71 struct {
	*baseMapper
	prg       *prgBase
	chr       *chrBase
	prgBank   int
	mirroring uint8
}

func (m *mapper71) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(make([]uint8, 8192), true)
	m.mirroring = r.MirroringMode()
}

func (m *mapper71) PrgRead(addr uint16) uint8 {
	if addr < 0xC000 {
		return m.prg.read(m.prgBank, 0x4000, addr-0x8000)
	}
	return m.prg.read(m.prg.banks(0x4000)-1, 0x4000, addr-0xC000)
}

func (m *mapper71) PrgWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x9000 && addr <= 0x9FFF:
		if val&0x10 != 0 {
			m.mirroring = ppu.MIRROR_SINGLE_SCREEN_HI
		} else {
			m.mirroring = ppu.MIRROR_SINGLE_SCREEN_LO
		}
	case addr >= 0xC000:
		m.prgBank = int(val)
	}
}

func (m *mapper71) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper71) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}

func (m *mapper71) MirroringMode() uint8 {
	return m.mirroring
}
