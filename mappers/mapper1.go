package mappers

import (
	"github.com/nescore/nescore/nesrom"
	"github.com/nescore/nescore/ppu"
)

// MMC1 (mapper 1): a serial shift-register mapper. Five consecutive
// writes to $8000-$FFFF (one bit each, LSB first) load the control,
// CHR bank 0/1, or PRG bank register depending on which address range
// the fifth write landed in. A write with bit 7 set resets the shift
// register and forces 16KB PRG mode 3 (fixed-last-bank) regardless of
// what's shifted in next.
//
// Grounded on andrewthecodertx/nes-emulator's pkg/cartridge/mapper1.go,
// adapted onto this package's prgBase/chrBase substrate.
func init() {
	RegisterMapper(1, newMapper1())
}

type mapper1 struct {
	*baseMapper
	prg *prgBase
	chr *chrBase
	ram *prgRAM

	shiftRegister uint8
	shiftCount    uint8

	control   uint8
	chrBank0  uint8
	chrBank1  uint8
	prgBank   uint8
	mirroring uint8

	cycle         uint64
	lastWriteSeen bool
	lastWriteAt   uint64
}

func newMapper1() *mapper1 {
	return &mapper1{baseMapper: newBaseMapper(1, "MMC1")}
}

func (m *mapper1) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prg = newPrgBase(r.PrgBytes())
	m.chr = newChrBase(r.ChrBytes(), r.HasChrRAM())
	m.ram = newPrgRAM(8192)
	m.shiftRegister = 0
	m.shiftCount = 0
	m.control = 0x0C // power-on: PRG mode 3 (fixed last bank), CHR mode 0
	m.mirroring = ppu.MIRROR_SINGLE_SCREEN_LO
}

func (m *mapper1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mapper1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mapper1) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.ram.read(addr - 0x6000)
	}

	switch m.prgMode() {
	case 0, 1:
		// 32KB mode: ignore the low bit of the bank number.
		bank := int(m.prgBank>>1) * 2
		return m.prg.read(bank, 0x4000, addr-0x8000) // first half from even bank
	case 2:
		// First 16KB fixed to bank 0, second 16KB switches.
		if addr < 0xC000 {
			return m.prg.read(0, 0x4000, addr-0x8000)
		}
		return m.prg.read(int(m.prgBank), 0x4000, addr-0xC000)
	default: // 3
		// First 16KB switches, last 16KB fixed to the final bank.
		if addr < 0xC000 {
			return m.prg.read(int(m.prgBank), 0x4000, addr-0x8000)
		}
		return m.prg.read(m.prg.banks(0x4000)-1, 0x4000, addr-0xC000)
	}
}

// ObserveCPUCycle records the current CPU cycle count so PrgWrite can
// discard same/consecutive-cycle register writes, the documented
// MMC1 hardware quirk triggered by read-modify-write instructions
// (e.g. INC $8000) that issue two bus writes one cycle apart.
func (m *mapper1) ObserveCPUCycle(cycle uint64) { m.cycle = cycle }

func (m *mapper1) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.ram.write(addr-0x6000, val)
		return
	}

	if m.lastWriteSeen && m.cycle <= m.lastWriteAt+1 {
		// Discarded: lands within 1 CPU cycle of the previous write to
		// this serial register, per spec.md §7's MapperRegisterRace.
		m.lastWriteAt = m.cycle
		return
	}
	m.lastWriteSeen = true
	m.lastWriteAt = m.cycle

	if val&0x80 != 0 {
		m.shiftRegister = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shiftRegister = (m.shiftRegister >> 1) | ((val & 0x01) << 4)
	m.shiftCount++

	if m.shiftCount < 5 {
		return
	}

	reg := m.shiftRegister & 0x1F
	switch {
	case addr <= 0x9FFF:
		m.control = reg
		switch reg & 0x03 {
		case 0:
			m.mirroring = ppu.MIRROR_SINGLE_SCREEN_LO
		case 1:
			m.mirroring = ppu.MIRROR_SINGLE_SCREEN_HI
		case 2:
			m.mirroring = ppu.MIRROR_VERTICAL
		case 3:
			m.mirroring = ppu.MIRROR_HORIZONTAL
		}
	case addr <= 0xBFFF:
		m.chrBank0 = reg
	case addr <= 0xDFFF:
		m.chrBank1 = reg
	default:
		m.prgBank = reg & 0x0F
		m.ram.enabled = reg&0x10 == 0
	}

	m.shiftRegister = 0
	m.shiftCount = 0
}

func (m *mapper1) ChrRead(addr uint16) uint8 {
	if m.chrMode() == 0 {
		bank := int(m.chrBank0 >> 1) // 8KB mode ignores bit 0
		return m.chr.read(bank, 0x2000, addr)
	}
	if addr < 0x1000 {
		return m.chr.read(int(m.chrBank0), 0x1000, addr)
	}
	return m.chr.read(int(m.chrBank1), 0x1000, addr-0x1000)
}

func (m *mapper1) ChrWrite(addr uint16, val uint8) {
	if m.chrMode() == 0 {
		bank := int(m.chrBank0 >> 1)
		m.chr.write(bank, 0x2000, addr, val)
		return
	}
	if addr < 0x1000 {
		m.chr.write(int(m.chrBank0), 0x1000, addr, val)
		return
	}
	m.chr.write(int(m.chrBank1), 0x1000, addr-0x1000, val)
}

func (m *mapper1) MirroringMode() uint8 {
	return m.mirroring
}

func (m *mapper1) HasSaveRAM() bool {
	return true
}
