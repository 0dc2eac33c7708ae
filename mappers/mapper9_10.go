package mappers

import (
	"github.com/nescore/nescore/nesrom"
	"github.com/nescore/nescore/ppu"
)

// MMC2 (mapper 9, Punch-Out!!) and MMC4 (mapper 10, Fire Emblem) share
// the same distinguishing trick: reading CHR addresses $0FD8 or $0FE8
// latches which 4KB bank serves the $0000-$0FFF window, and reading
// $1FD8-$1FDF or $1FE8-$1FEF latches which bank serves $1000-$1FFF.
// They differ only in PRG banking granularity: MMC2 switches a single
// 8KB window with the rest fixed to the last three banks, MMC4
// switches a 16KB window with the rest fixed to the last 16KB.
const (
	latchFD = 0
	latchFE = 1
)

type chrLatchMapper struct {
	*baseMapper
	prg *prgBase
	chr *chrBase
	ram *prgRAM

	prgBank int

	chr0FD, chr0FE int
	chr1FD, chr1FE int
	latch0, latch1 int

	mirroring uint8

	sixteenKPrg bool // true for MMC4; false (8KB switchable) for MMC2
}

func (m *chrLatchMapper) init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
	m.ram = newPrgRAM(8192)
	m.latch0, m.latch1 = latchFE, latchFE
	m.mirroring = ppu.MIRROR_VERTICAL
}

func (m *chrLatchMapper) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.ram.read(addr - 0x6000)
	}

	if m.sixteenKPrg {
		if addr < 0xC000 {
			return m.prg.read(m.prgBank, 0x4000, addr-0x8000)
		}
		return m.prg.read(m.prg.banks(0x4000)-1, 0x4000, addr-0xC000)
	}

	last8k := m.prg.banks(0x2000) - 1
	switch {
	case addr < 0xA000:
		return m.prg.read(m.prgBank, 0x2000, addr-0x8000)
	case addr < 0xC000:
		return m.prg.read(last8k-2, 0x2000, addr-0xA000)
	case addr < 0xE000:
		return m.prg.read(last8k-1, 0x2000, addr-0xC000)
	default:
		return m.prg.read(last8k, 0x2000, addr-0xE000)
	}
}

func (m *chrLatchMapper) PrgWrite(addr uint16, val uint8) {
	switch {
	case addr < 0x8000:
		m.ram.write(addr-0x6000, val)
	case addr >= 0xA000 && addr <= 0xAFFF:
		m.prgBank = int(val)
	case addr >= 0xB000 && addr <= 0xBFFF:
		m.chr0FD = int(val)
	case addr >= 0xC000 && addr <= 0xCFFF:
		m.chr0FE = int(val)
	case addr >= 0xD000 && addr <= 0xDFFF:
		m.chr1FD = int(val)
	case addr >= 0xE000 && addr <= 0xEFFF:
		m.chr1FE = int(val)
	case addr >= 0xF000:
		if val&0x01 != 0 {
			m.mirroring = ppu.MIRROR_HORIZONTAL
		} else {
			m.mirroring = ppu.MIRROR_VERTICAL
		}
	}
}

func (m *chrLatchMapper) ChrRead(addr uint16) uint8 {
	val := m.chrReadBank(addr)
	m.updateLatch(addr)
	return val
}

func (m *chrLatchMapper) chrReadBank(addr uint16) uint8 {
	if addr < 0x1000 {
		bank := m.chr0FE
		if m.latch0 == latchFD {
			bank = m.chr0FD
		}
		return m.chr.read(bank, 0x1000, addr)
	}
	bank := m.chr1FE
	if m.latch1 == latchFD {
		bank = m.chr1FD
	}
	return m.chr.read(bank, 0x1000, addr-0x1000)
}

func (m *chrLatchMapper) updateLatch(addr uint16) {
	switch addr {
	case 0x0FD8:
		m.latch0 = latchFD
	case 0x0FE8:
		m.latch0 = latchFE
	}
	if addr >= 0x1FD8 && addr <= 0x1FDF {
		m.latch1 = latchFD
	} else if addr >= 0x1FE8 && addr <= 0x1FEF {
		m.latch1 = latchFE
	}
}

func (m *chrLatchMapper) ChrWrite(addr uint16, val uint8) {
	// CHR-RAM boards using these mappers are essentially unheard of;
	// treat CHR as read-only like the real carts.
}

func (m *chrLatchMapper) MirroringMode() uint8 {
	return m.mirroring
}

func (m *chrLatchMapper) HasSaveRAM() bool {
	return true
}

func init() {
	RegisterMapper(9, &mapper9{chrLatchMapper: &chrLatchMapper{baseMapper: newBaseMapper(9, "MMC2")}})
	RegisterMapper(10, &mapper10{chrLatchMapper: &chrLatchMapper{baseMapper: newBaseMapper(10, "MMC4")}})
}

type mapper9 struct {
	*chrLatchMapper
}

func (m *mapper9) Init(r *nesrom.ROM) {
	m.sixteenKPrg = false
	m.init(r)
}

type mapper10 struct {
	*chrLatchMapper
}

func (m *mapper10) Init(r *nesrom.ROM) {
	m.sixteenKPrg = true
	m.init(r)
}
