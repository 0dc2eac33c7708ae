package mappers

import (
	"github.com/nescore/nescore/nesrom"
	"github.com/nescore/nescore/ppu"
)

// MMC3 (mapper 4): 8 bank-select registers feeding two swappable 2KB
// CHR windows + four swappable 1KB CHR windows, and two swappable 8KB
// PRG windows + two windows fixed to the last two 8KB banks (with the
// swappable/fixed halves swapping places depending on the PRG-mode
// bit). The IRQ counter is clocked by the PPU address bus crossing
// A12 low->high (ClockA12), not once per scanline the way the grounding
// source (andrewthecodertx/nes-emulator's mapper4.go) models it -- real
// boards watch the address bus directly, and a naive per-scanline tick
// misfires on games that touch the pattern tables outside the normal
// background/sprite fetch cadence. console.Bus calls ClockA12 whenever
// the PPU's CHR address observably rises through bit 12, with the
// conventional filter (a rising edge only counts after A12 has been
// low for at least 6 PPU dots).
func init() {
	RegisterMapper(4, newMapper4())
}

type mapper4 struct {
	*baseMapper
	prg *prgBase
	chr *chrBase
	ram *prgRAM

	bankSelect uint8
	prgMode    uint8 // bit 6 of bank select
	chrMode    uint8 // bit 7 of bank select
	registers  [8]uint8

	mirroring uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool
}

func newMapper4() *mapper4 {
	return &mapper4{baseMapper: newBaseMapper(4, "MMC3")}
}

func (m *mapper4) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
	m.ram = newPrgRAM(8192)
	m.mirroring = ppu.MIRROR_VERTICAL
}

func (m *mapper4) prgBankCount8k() int { return m.prg.banks(0x2000) }

func (m *mapper4) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.ram.read(addr - 0x6000)
	}

	last := m.prgBankCount8k() - 1
	secondLast := last - 1

	r6 := int(m.registers[6])
	r7 := int(m.registers[7])

	switch {
	case addr < 0xA000: // $8000-$9FFF
		if m.prgMode == 0 {
			return m.prg.read(r6, 0x2000, addr-0x8000)
		}
		return m.prg.read(secondLast, 0x2000, addr-0x8000)
	case addr < 0xC000: // $A000-$BFFF, always swappable via R7
		return m.prg.read(r7, 0x2000, addr-0xA000)
	case addr < 0xE000: // $C000-$DFFF
		if m.prgMode == 0 {
			return m.prg.read(secondLast, 0x2000, addr-0xC000)
		}
		return m.prg.read(r6, 0x2000, addr-0xC000)
	default: // $E000-$FFFF, always fixed to the last bank
		return m.prg.read(last, 0x2000, addr-0xE000)
	}
}

func (m *mapper4) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.ram.write(addr-0x6000, val)
		return
	}

	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = val
			m.prgMode = (val >> 6) & 0x01
			m.chrMode = (val >> 7) & 0x01
		} else {
			m.registers[m.bankSelect&0x07] = val
		}
	case addr < 0xC000:
		if even {
			if val&0x01 == 0 {
				m.mirroring = ppu.MIRROR_VERTICAL
			} else {
				m.mirroring = ppu.MIRROR_HORIZONTAL
			}
		} else {
			m.ram.enabled = val&0x80 != 0
		}
	case addr < 0xE000:
		if even {
			m.irqLatch = val
		} else {
			m.irqCounter = 0
			m.irqReload = true
		}
	default:
		if even {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mapper4) ChrRead(addr uint16) uint8 {
	return m.chr.read(m.chrBankFor(addr), 0x0400, addr%0x0400)
}

func (m *mapper4) ChrWrite(addr uint16, val uint8) {
	m.chr.write(m.chrBankFor(addr), 0x0400, addr%0x0400, val)
}

// chrBankFor resolves addr (0x0000-0x1FFF) to a 1KB bank index,
// honoring the R0/R1 2KB-pair registers and the CHR-mode swap.
func (m *mapper4) chrBankFor(addr uint16) int {
	a := addr
	if m.chrMode == 1 {
		a ^= 0x1000
	}
	switch {
	case a < 0x0800:
		return int(m.registers[0]&0xFE) + int(a/0x0400)
	case a < 0x1000:
		return int(m.registers[1]&0xFE) + int((a-0x0800)/0x0400)
	case a < 0x1400:
		return int(m.registers[2])
	case a < 0x1800:
		return int(m.registers[3])
	case a < 0x1C00:
		return int(m.registers[4])
	default:
		return int(m.registers[5])
	}
}

// ClockA12 is called by console.Bus whenever the PPU address bus is
// observed to rise through bit 12 (pattern-table fetches crossing
// from the $0xxx range into the $1xxx range or vice versa, then back),
// filtered so that edges within a handful of PPU cycles of each other
// -- which happen during normal 8x16 sprite fetches -- only clock the
// counter once.
func (m *mapper4) ClockA12() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mapper4) IRQPending() bool {
	return m.irqPending
}

func (m *mapper4) MirroringMode() uint8 {
	return m.mirroring
}

func (m *mapper4) HasSaveRAM() bool {
	return true
}
