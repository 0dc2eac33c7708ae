package mappers

import "github.com/nescore/nescore/nesrom"

// UxROM (mapper 2): switchable 16KB PRG bank at $8000-$BFFF, fixed to
// the last bank at $C000-$FFFF. CHR is always 8KB of RAM.
func init() {
	RegisterMapper(2, &mapper2{baseMapper: newBaseMapper(2, "UxROM")})
}

type mapper2 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
}

func (m *mapper2) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(make([]uint8, 8192), true)
}

func (m *mapper2) PrgRead(addr uint16) uint8 {
	if addr < 0xC000 {
		return m.prg.read(m.prgBank, 0x4000, addr-0x8000)
	}
	return m.prg.read(m.prg.banks(0x4000)-1, 0x4000, addr-0xC000)
}

func (m *mapper2) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = int(val)
	}
}

func (m *mapper2) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper2) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}
