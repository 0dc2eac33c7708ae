package mappers

import "github.com/nescore/nescore/nesrom"

// CNROM (mapper 3): fixed PRG (16 or 32KB, already mirrored by
// nesrom.New when only 16KB is present), switchable 8KB CHR-ROM bank.
// Some boards only decode 2 bits here, but most production carts used
// at most 4 banks, so masking to the available bank count is enough.
func init() {
	RegisterMapper(3, &mapper3{baseMapper: newBaseMapper(3, "CNROM")})
}

type mapper3 struct {
	*baseMapper
	prg     *prgBase
	chr     *chrBase
	chrBank int
}

func (m *mapper3) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
}

func (m *mapper3) PrgRead(addr uint16) uint8 {
	return m.prg.read(0, len(m.prg.data), addr-0x8000)
}

func (m *mapper3) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.chrBank = int(val)
	}
}

func (m *mapper3) ChrRead(addr uint16) uint8 {
	return m.chr.read(m.chrBank, 0x2000, addr)
}

func (m *mapper3) ChrWrite(addr uint16, val uint8) {
	m.chr.write(m.chrBank, 0x2000, addr, val)
}
