package mappers

import "github.com/nescore/nescore/nesrom"

// ColorDreams (mapper 11) and GxROM (mapper 66) both switch a full
// 32KB PRG bank and an 8KB CHR bank from a single register write; they
// differ only in which bits of the byte select which field and in bus
// conflict behavior (ColorDreams boards have no bus conflicts, GxROM
// carts sometimes do, but bus-conflict emulation is outside this
// module's scope per spec.md's mapper table).
func init() {
	RegisterMapper(11, &mapper11{baseMapper: newBaseMapper(11, "ColorDreams")})
	RegisterMapper(66, &mapper66{baseMapper: newBaseMapper(66, "GxROM")})
}

type mapper11 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
	chrBank int
}

func (m *mapper11) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
}

func (m *mapper11) PrgRead(addr uint16) uint8 {
	return m.prg.read(m.prgBank, 0x8000, addr-0x8000)
}

func (m *mapper11) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = int(val & 0x03)
	m.chrBank = int((val >> 4) & 0x0F)
}

func (m *mapper11) ChrRead(addr uint16) uint8 {
	return m.chr.read(m.chrBank, 0x2000, addr)
}

func (m *mapper11) ChrWrite(addr uint16, val uint8) {
	m.chr.write(m.chrBank, 0x2000, addr, val)
}

type mapper66 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	prgBank int
	chrBank int
}

func (m *mapper66) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
}

func (m *mapper66) PrgRead(addr uint16) uint8 {
	return m.prg.read(m.prgBank, 0x8000, addr-0x8000)
}

func (m *mapper66) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.chrBank = int(val & 0x03)
	m.prgBank = int((val >> 4) & 0x03)
}

func (m *mapper66) ChrRead(addr uint16) uint8 {
	return m.chr.read(m.chrBank, 0x2000, addr)
}

func (m *mapper66) ChrWrite(addr uint16, val uint8) {
	m.chr.write(m.chrBank, 0x2000, addr, val)
}
