package mappers

import "github.com/nescore/nescore/nesrom"

// Mapper 79 (NINA-03/06): the discrete-logic board referenced by
// spec.md's "NINA variants" entry. A single byte, written to any
// address in $4020-$5FFF (the board only decodes $4100, mirrored
// across that range), selects both a 32KB PRG bank (bit 3) and an 8KB
// CHR bank (bits 0-2). There is no direct analog for this board in
// the retrieved corpus; the register layout here matches the widely
// documented NINA-03/06 behavior.
func init() {
	RegisterMapper(79, &mapper79{baseMapper: newBaseMapper(79, "NINA-03/06")})
}

type mapper79 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
	chrBank int
}

func (m *mapper79) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
}

func (m *mapper79) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.prg.read(m.prgBank, 0x8000, addr-0x8000)
}

func (m *mapper79) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x4020 && addr < 0x6000 {
		m.chrBank = int(val & 0x07)
		m.prgBank = int((val >> 3) & 0x01)
	}
}

func (m *mapper79) ChrRead(addr uint16) uint8 {
	return m.chr.read(m.chrBank, 0x2000, addr)
}

func (m *mapper79) ChrWrite(addr uint16, val uint8) {
	m.chr.write(m.chrBank, 0x2000, addr, val)
}
