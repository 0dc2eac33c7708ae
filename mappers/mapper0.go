package mappers

import "github.com/nescore/nescore/nesrom"

// NROM (mapper 0): no bank switching at all. PRG is 16 or 32KB (16KB
// images are mirrored to 32KB by nesrom.New), CHR is a single fixed
// 8KB bank, ROM or RAM.
func init() {
	RegisterMapper(0, &mapper0{baseMapper: newBaseMapper(0, "NROM")})
}

type mapper0 struct {
	*baseMapper
	prg *prgBase
	chr *chrBase
}

func (m *mapper0) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	return m.prg.read(0, len(m.prg.data), addr-0x8000)
}

func (m *mapper0) PrgWrite(addr uint16, val uint8) {
	// NROM PRG is ROM; writes are no-ops.
}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	return m.chr.read(0, len(m.chr.data), addr)
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	m.chr.write(0, len(m.chr.data), addr, val)
}
