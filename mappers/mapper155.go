package mappers

import "github.com/nescore/nescore/nesrom"

// Mapper 155 is an MMC1 variant (used by a handful of Nihon Bussan
// boards) that behaves identically to mapper 1 in every respect
// except one: PRG-RAM is always enabled and the $E000 register's
// RAM-disable bit is ignored. Rather than duplicate all of MMC1's
// serial-shift-register logic, this composes a mapper1 and only
// overrides the pieces that differ.
func init() {
	RegisterMapper(155, &mapper155{mapper1: newMapper1()})
}

type mapper155 struct {
	*mapper1
}

func (m *mapper155) ID() uint16   { return 155 }
func (m *mapper155) Name() string { return "MMC1 (155)" }

func (m *mapper155) Init(r *nesrom.ROM) {
	m.mapper1.Init(r)
	m.mapper1.ram.enabled = true
}

func (m *mapper155) PrgWrite(addr uint16, val uint8) {
	m.mapper1.PrgWrite(addr, val)
	// Unlike stock MMC1, this board never lets register 3 gate PRG RAM.
	m.mapper1.ram.enabled = true
}

func (m *mapper155) HasSaveRAM() bool {
	return true
}
