package mappers

import (
	"github.com/nescore/nescore/nesrom"
	"github.com/nescore/nescore/ppu"
)

// AxROM (mapper 7): switchable 32KB PRG bank covering the whole CPU
// window, 8KB CHR-RAM, and single-screen mirroring selected by the
// bank-select write rather than fixed by the header.
func init() {
	RegisterMapper(7, &mapper7{baseMapper: newBaseMapper(7, "AxROM")})
}

type mapper7 struct {
	*baseMapper
	prg       *prgBase
	chr       *chrBase
	prgBank   int
	mirroring uint8
}

func (m *mapper7) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(make([]uint8, 8192), true)
	m.mirroring = ppu.MIRROR_SINGLE_SCREEN_LO
}

func (m *mapper7) PrgRead(addr uint16) uint8 {
	return m.prg.read(m.prgBank, 0x8000, addr-0x8000)
}

func (m *mapper7) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = int(val & 0x07)
	if val&0x10 != 0 {
		m.mirroring = ppu.MIRROR_SINGLE_SCREEN_HI
	} else {
		m.mirroring = ppu.MIRROR_SINGLE_SCREEN_LO
	}
}

func (m *mapper7) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper7) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}

func (m *mapper7) MirroringMode() uint8 {
	return m.mirroring
}
