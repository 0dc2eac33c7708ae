package mappers

import "github.com/nescore/nescore/nesrom"

// Mapper 94 (UN1ROM) and mapper 180 (Crazy Climber) are both UxROM
// variants distinguished only by which 16KB half of the CPU window is
// switchable and by which bits of the bank-select write are used.
// Mapper 94 ignores the low 2 bits of the write (bank = val>>2) and
// keeps the bank switchable at $8000-$BFFF like plain UxROM. Mapper
// 180 fixes $8000-$BFFF to bank 0 and switches $C000-$FFFF instead.
func init() {
	RegisterMapper(94, &mapper94{baseMapper: newBaseMapper(94, "UN1ROM")})
	RegisterMapper(180, &mapper180{baseMapper: newBaseMapper(180, "UNROM (Crazy Climber)")})
}

type mapper94 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
}

func (m *mapper94) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(make([]uint8, 8192), true)
}

func (m *mapper94) PrgRead(addr uint16) uint8 {
	if addr < 0xC000 {
		return m.prg.read(m.prgBank, 0x4000, addr-0x8000)
	}
	return m.prg.read(m.prg.banks(0x4000)-1, 0x4000, addr-0xC000)
}

func (m *mapper94) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = int(val >> 2)
	}
}

func (m *mapper94) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper94) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}

type mapper180 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
}

func (m *mapper180) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(make([]uint8, 8192), true)
}

func (m *mapper180) PrgRead(addr uint16) uint8 {
	if addr < 0xC000 {
		return m.prg.read(0, 0x4000, addr-0x8000)
	}
	return m.prg.read(m.prgBank, 0x4000, addr-0xC000)
}

func (m *mapper180) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = int(val)
	}
}

func (m *mapper180) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper180) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}
