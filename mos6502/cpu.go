// Package mos6502 implements the MOS Technology 6502 processor core
// used by the Ricoh 2A03 (NES CPU).
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
	"strings"
)

// 6502 Interrupt Vectors
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	INT_NMI   = 0xFFFA
	INT_RESET = 0xFFFC
	INT_IRQ   = 0xFFFE
	INT_BRK   = INT_IRQ
)

// 6502 Processor Status Flags
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	STATUS_FLAG_CARRY             = 1 << 0 // C
	STATUS_FLAG_ZERO              = 1 << 1 // Z
	STATUS_FLAG_INTERRUPT_DISABLE = 1 << 2 // I
	STATUS_FLAG_DECIMAL           = 1 << 3 // D; the 2A03 ignores this, we still track it
	STATUS_FLAG_BREAK             = 1 << 4 // B; only meaningful in the byte pushed to the stack
	UNUSED_STATUS_FLAG            = 1 << 5 // always set when pushed
	STATUS_FLAG_OVERFLOW          = 1 << 6 // V
	STATUS_FLAG_NEGATIVE          = 1 << 7 // N
)

const STACK_PAGE = 0x0100

// Source bits for the level-sensitive IRQ line. Several devices can
// assert IRQ simultaneously; the CPU only needs to know whether it's
// asserted at all, but keeping the source bits lets the bus clear just
// its own contribution (e.g. an APU frame IRQ ack without disturbing a
// mapper IRQ that's independently pending).
const (
	IRQSourceAPUFrame uint8 = 1 << 0
	IRQSourceDMC      uint8 = 1 << 1
	IRQSourceMapper   uint8 = 1 << 2
)

// Bus is everything the CPU needs from the rest of the system: the
// 16-bit address space as seen by the 6502, arbitrated by console.Bus
// (RAM, PPU/APU registers, cartridge PRG).
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU implements the 2A03's 6502 core, stepped one clock cycle at a
// time via Tick so the caller can interleave it with PPU/APU ticks at
// the correct 1:3:1 ratio.
type CPU struct {
	acc, x, y uint8
	status    uint8
	sp        uint8
	pc        uint16
	bus       Bus

	cycles      int // cycles remaining before the current instruction's effects retire
	extraCycles int // accumulated by branchExec/page-cross checks mid-instruction
	totalCycles uint64

	nmiRequested bool
	irqLines     uint8

	dmaCyclesRemaining int
	halted             bool
}

func New(bus Bus) *CPU {
	c := &CPU{
		bus:    bus,
		sp:     0xFD,
		status: UNUSED_STATUS_FLAG | STATUS_FLAG_INTERRUPT_DISABLE,
	}
	c.pc = c.read16(INT_RESET)
	return c
}

// Reset re-homes the CPU at the reset vector, as the console's reset
// line would. Unlike power-on, SP is only decremented by 3 (the real
// 6502 does three phantom stack pushes it never writes).
func (c *CPU) Reset() {
	c.sp -= 3
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	c.pc = c.read16(INT_RESET)
	c.cycles = 6
}

// TriggerNMI latches a non-maskable interrupt request. NMI is edge
// triggered: the PPU calls this once per vblank-entry edge, not once
// per dot while the line is held.
func (c *CPU) TriggerNMI() { c.nmiRequested = true }

// CancelNMI un-latches a pending NMI request that hasn't been serviced
// yet. The PPU calls this when a $2002 read suppresses an NMI raised
// within the preceding couple of PPU dots (the vblank/NMI hardware
// race); it's a no-op if the CPU already started dispatching it.
func (c *CPU) CancelNMI() { c.nmiRequested = false }

// SetIRQLine asserts or deasserts one IRQ source. IRQ is level
// sensitive: as long as any source bit is set and the I flag is clear,
// the CPU keeps re-entering the interrupt handler between instructions.
func (c *CPU) SetIRQLine(src uint8, asserted bool) {
	if asserted {
		c.irqLines |= src
	} else {
		c.irqLines &^= src
	}
}

// AddDMACycles stalls the CPU for an OAM DMA transfer: 513 cycles, or
// 514 if the transfer starts on an odd CPU cycle (one extra alignment
// cycle to sync to an even/write cycle).
func (c *CPU) AddDMACycles() {
	n := 513
	if c.totalCycles%2 == 1 {
		n = 514
	}
	c.dmaCyclesRemaining += n
}

func (c *CPU) Halted() bool { return c.halted }

func (c *CPU) StackAddr() uint16 { return STACK_PAGE + uint16(c.sp) }

func (c *CPU) SetPC(addr uint16) { c.pc = addr }

func (c *CPU) PC() uint16 { return c.pc }

// TotalCycles returns the number of CPU cycles executed since power-on,
// used by the bus to timestamp writes for mappers (MMC1) that discard
// register writes landing on consecutive cycles.
func (c *CPU) TotalCycles() uint64 { return c.totalCycles }

// Tick executes exactly one CPU clock cycle: either burns a wait cycle
// left over from the in-flight instruction/DMA stall, or decodes and
// fully executes the next instruction/interrupt, charging its cycle
// count to the wait counter.
func (c *CPU) Tick() {
	c.totalCycles++

	if c.dmaCyclesRemaining > 0 {
		c.dmaCyclesRemaining--
		return
	}
	if c.halted {
		return
	}
	if c.cycles > 0 {
		c.cycles--
		return
	}

	c.executeNext()
}

// Step runs exactly one instruction (or interrupt dispatch) to
// completion regardless of cycle-wait bookkeeping, returning the number
// of CPU cycles it consumed. It exists for the interactive debugger,
// where stepping by instruction rather than by raw clock is what's
// useful.
func (c *CPU) Step() int {
	before := c.totalCycles
	for c.dmaCyclesRemaining > 0 {
		c.dmaCyclesRemaining--
		c.totalCycles++
	}
	for c.cycles > 0 {
		c.cycles--
		c.totalCycles++
	}
	c.totalCycles++
	c.executeNext()
	for c.cycles > 0 {
		c.cycles--
		c.totalCycles++
	}
	return int(c.totalCycles - before)
}

func (c *CPU) executeNext() {
	if c.halted {
		return
	}

	if c.nmiRequested {
		c.nmiRequested = false
		c.dispatchInterrupt(INT_NMI, false)
		return
	}
	if c.irqLines != 0 && c.status&STATUS_FLAG_INTERRUPT_DISABLE == 0 {
		c.dispatchInterrupt(INT_IRQ, false)
		return
	}

	c.stepInstruction()
}

// dispatchInterrupt pushes PC and status and redirects to vector,
// exactly as BRK does except the pushed status never has B set and the
// pushed PC is the address of the instruction that *would* have run
// next (no operand bytes to skip).
func (c *CPU) dispatchInterrupt(vector uint16, brk bool) {
	c.pushAddress(c.pc)
	flags := c.status &^ STATUS_FLAG_BREAK
	if brk {
		flags |= STATUS_FLAG_BREAK
	}
	c.pushStack(flags | UNUSED_STATUS_FLAG)
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	c.pc = c.read16(vector)
	c.cycles = 6
}

func (c *CPU) stepInstruction() {
	opbyte := c.read(c.pc)
	o := opcodes[opbyte]
	if o.exec == nil {
		// Unmapped opcode slot; treat as a two-cycle NOP rather than
		// indexing into a zero-value opcode forever.
		c.pc++
		c.cycles = 1
		return
	}

	c.pc++
	c.extraCycles = 0

	// operandAddr consumes any operand bytes by advancing c.pc past
	// them, so by the time exec runs c.pc already points at the next
	// instruction. JMP/JSR/RTS/RTI/BRK/branches overwrite c.pc
	// themselves; everything else leaves this value alone.
	addr, crossed := c.operandAddr(o.mode)
	o.exec(c, o.mode, addr)

	if o.kind == kindRead && crossed {
		c.extraCycles++
	}

	c.cycles = int(o.cycles) + c.extraCycles - 1
}

// operandAddr resolves the effective address for mode, consuming
// operand bytes at c.pc (which the caller has already advanced past
// the opcode byte) by advancing c.pc past them in turn. It reports
// whether an indexed calculation crossed a page boundary, which
// Read-kind instructions use to add a cycle.
func (c *CPU) operandAddr(mode uint8) (addr uint16, crossed bool) {
	switch mode {
	case IMPLICIT, ACCUMULATOR:
		return 0, false
	case IMMEDIATE:
		addr = c.pc
		c.pc++
		return addr, false
	case ZERO_PAGE:
		addr = uint16(c.read(c.pc))
		c.pc++
		return addr, false
	case ZERO_PAGE_X:
		addr = uint16(c.read(c.pc) + c.x)
		c.pc++
		return addr, false
	case ZERO_PAGE_Y:
		addr = uint16(c.read(c.pc) + c.y)
		c.pc++
		return addr, false
	case ABSOLUTE:
		addr = c.read16(c.pc)
		c.pc += 2
		return addr, false
	case ABSOLUTE_X:
		base := c.read16(c.pc)
		c.pc += 2
		addr = base + uint16(c.x)
		return addr, pageOf(base) != pageOf(addr)
	case ABSOLUTE_Y:
		base := c.read16(c.pc)
		c.pc += 2
		addr = base + uint16(c.y)
		return addr, pageOf(base) != pageOf(addr)
	case INDIRECT:
		ptr := c.read16(c.pc)
		c.pc += 2
		// Hardware bug: if the low byte of ptr is 0xFF, the high byte
		// is fetched from the start of the same page, not the next.
		lo := uint16(c.read(ptr))
		hi := uint16(c.read((ptr & 0xFF00) | ((ptr + 1) & 0x00FF)))
		return (hi << 8) | lo, false
	case INDIRECT_X:
		ptr := c.read(c.pc) + c.x
		c.pc++
		lo := uint16(c.read(uint16(ptr)))
		hi := uint16(c.read(uint16(ptr + 1)))
		return (hi << 8) | lo, false
	case INDIRECT_Y:
		ptr := c.read(c.pc)
		c.pc++
		lo := uint16(c.read(uint16(ptr)))
		hi := uint16(c.read(uint16(ptr + 1)))
		base := (hi << 8) | lo
		addr = base + uint16(c.y)
		return addr, pageOf(base) != pageOf(addr)
	case RELATIVE:
		off := int8(c.read(c.pc))
		c.pc++
		return uint16(int32(c.pc) + int32(off)), false
	}

	panic(fmt.Sprintf("unhandled addressing mode %d", mode))
}

func (c *CPU) read(addr uint16) uint8  { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return (hi << 8) | lo
}

func (c *CPU) setNZ(v uint8) {
	if v == 0 {
		c.flagsOn(STATUS_FLAG_ZERO)
	} else {
		c.flagsOff(STATUS_FLAG_ZERO)
	}
	if v&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_NEGATIVE)
	} else {
		c.flagsOff(STATUS_FLAG_NEGATIVE)
	}
}

func (c *CPU) flagsOn(mask uint8)  { c.status |= mask }
func (c *CPU) flagsOff(mask uint8) { c.status &^= mask }

func (c *CPU) pushStack(v uint8) {
	c.write(c.StackAddr(), v)
	c.sp--
}

func (c *CPU) popStack() uint8 {
	c.sp++
	return c.read(c.StackAddr())
}

func (c *CPU) pushAddress(addr uint16) {
	c.pushStack(uint8(addr >> 8))
	c.pushStack(uint8(addr & 0xFF))
}

func (c *CPU) popAddress() uint16 {
	lo := uint16(c.popStack())
	hi := uint16(c.popStack())
	return (hi << 8) | lo
}

// addWithCarry implements both ADC (b is the operand) and SBC (b is
// passed pre-complemented by the caller) since they're the same adder
// on real hardware.
func (c *CPU) addWithCarry(b uint8) {
	carryIn := uint16(c.status & STATUS_FLAG_CARRY)
	sum := uint16(c.acc) + uint16(b) + carryIn
	res := uint8(sum)

	c.flagsOff(STATUS_FLAG_CARRY | STATUS_FLAG_OVERFLOW)
	if sum > 0xFF {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
	if (c.acc^res)&(b^res)&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_OVERFLOW)
	}

	c.acc = res
	c.setNZ(c.acc)
}

func (c *CPU) compare(reg, v uint8) {
	c.setNZ(reg - v)
	if reg >= v {
		c.flagsOn(STATUS_FLAG_CARRY)
	} else {
		c.flagsOff(STATUS_FLAG_CARRY)
	}
}

var flagGlyphs = []struct {
	mask uint8
	ch   byte
}{
	{STATUS_FLAG_NEGATIVE, 'N'}, {STATUS_FLAG_OVERFLOW, 'V'}, {UNUSED_STATUS_FLAG, '-'},
	{STATUS_FLAG_BREAK, 'B'}, {STATUS_FLAG_DECIMAL, 'D'}, {STATUS_FLAG_INTERRUPT_DISABLE, 'I'},
	{STATUS_FLAG_ZERO, 'Z'}, {STATUS_FLAG_CARRY, 'C'},
}

func (c *CPU) statusString() string {
	var sb strings.Builder
	for _, f := range flagGlyphs {
		if c.status&f.mask != 0 {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Inst returns a human-readable rendering of the instruction at PC,
// for the interactive debugger.
func (c *CPU) Inst() string {
	o := opcodes[c.read(c.pc)]
	return o.String()
}

func (c *CPU) String() string {
	return fmt.Sprintf("A,X,Y: %3d, %3d, %3d; PC: 0x%04x, SP: 0x%02x, P: %s; OP: %s",
		c.acc, c.x, c.y, c.pc, c.sp, c.statusString(), c.Inst())
}
