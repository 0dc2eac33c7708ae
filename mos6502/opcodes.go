package mos6502

import "math/bits"

// 6502 Addressing Modes
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	IMPLICIT = iota
	ACCUMULATOR
	IMMEDIATE
	ZERO_PAGE
	ZERO_PAGE_X
	ZERO_PAGE_Y
	RELATIVE
	ABSOLUTE
	ABSOLUTE_X
	ABSOLUTE_Y
	INDIRECT
	INDIRECT_X // Indexed Indirect
	INDIRECT_Y // Indirect Indexed
)

var modenames = map[uint8]string{
	IMPLICIT: "IMPLICIT", ACCUMULATOR: "ACCUMULATOR", IMMEDIATE: "IMMEDIATE",
	ZERO_PAGE: "ZERO_PAGE", ZERO_PAGE_X: "ZERO_PAGE_X", ZERO_PAGE_Y: "ZERO_PAGE_Y",
	RELATIVE: "RELATIVE", ABSOLUTE: "ABSOLUTE", ABSOLUTE_X: "ABSOLUTE_X",
	ABSOLUTE_Y: "ABSOLUTE_Y", INDIRECT: "INDIRECT", INDIRECT_X: "INDIRECT_X",
	INDIRECT_Y: "INDIRECT_Y",
}

// instructionKind tags the cycle signature an opcode's addressing mode
// must use: reads skip the indexed dummy cycle when no page boundary is
// crossed, read-modify-write and plain writes never do.
type instructionKind uint8

const (
	kindImplicit instructionKind = iota
	kindRead
	kindReadModifyWrite
	kindWrite
	kindJump
	kindBranch
	kindStack
)

type opcode struct {
	name    string
	mode    uint8
	cycles  uint8 // base cycle count, no-page-cross case
	kind    instructionKind
	illegal bool
	exec    func(c *CPU, mode uint8, addr uint16)
}

func (o opcode) String() string {
	return o.name + " " + modenames[o.mode]
}

var opcodes [256]opcode

func op(b uint8, name string, mode uint8, cycles uint8, kind instructionKind, illegal bool, exec func(c *CPU, mode uint8, addr uint16)) {
	opcodes[b] = opcode{name: name, mode: mode, cycles: cycles, kind: kind, illegal: illegal, exec: exec}
}

func init() {
	op(0x69, "ADC", IMMEDIATE, 2, kindRead, false, execADC)
	op(0x65, "ADC", ZERO_PAGE, 3, kindRead, false, execADC)
	op(0x75, "ADC", ZERO_PAGE_X, 4, kindRead, false, execADC)
	op(0x6D, "ADC", ABSOLUTE, 4, kindRead, false, execADC)
	op(0x7D, "ADC", ABSOLUTE_X, 4, kindRead, false, execADC)
	op(0x79, "ADC", ABSOLUTE_Y, 4, kindRead, false, execADC)
	op(0x61, "ADC", INDIRECT_X, 6, kindRead, false, execADC)
	op(0x71, "ADC", INDIRECT_Y, 5, kindRead, false, execADC)

	op(0xE9, "SBC", IMMEDIATE, 2, kindRead, false, execSBC)
	op(0xEB, "SBC", IMMEDIATE, 2, kindRead, true, execSBC)
	op(0xE5, "SBC", ZERO_PAGE, 3, kindRead, false, execSBC)
	op(0xF5, "SBC", ZERO_PAGE_X, 4, kindRead, false, execSBC)
	op(0xED, "SBC", ABSOLUTE, 4, kindRead, false, execSBC)
	op(0xFD, "SBC", ABSOLUTE_X, 4, kindRead, false, execSBC)
	op(0xF9, "SBC", ABSOLUTE_Y, 4, kindRead, false, execSBC)
	op(0xE1, "SBC", INDIRECT_X, 6, kindRead, false, execSBC)
	op(0xF1, "SBC", INDIRECT_Y, 5, kindRead, false, execSBC)

	op(0x29, "AND", IMMEDIATE, 2, kindRead, false, execAND)
	op(0x25, "AND", ZERO_PAGE, 3, kindRead, false, execAND)
	op(0x35, "AND", ZERO_PAGE_X, 4, kindRead, false, execAND)
	op(0x2D, "AND", ABSOLUTE, 4, kindRead, false, execAND)
	op(0x3D, "AND", ABSOLUTE_X, 4, kindRead, false, execAND)
	op(0x39, "AND", ABSOLUTE_Y, 4, kindRead, false, execAND)
	op(0x21, "AND", INDIRECT_X, 6, kindRead, false, execAND)
	op(0x31, "AND", INDIRECT_Y, 5, kindRead, false, execAND)

	op(0x49, "EOR", IMMEDIATE, 2, kindRead, false, execEOR)
	op(0x45, "EOR", ZERO_PAGE, 3, kindRead, false, execEOR)
	op(0x55, "EOR", ZERO_PAGE_X, 4, kindRead, false, execEOR)
	op(0x4D, "EOR", ABSOLUTE, 4, kindRead, false, execEOR)
	op(0x5D, "EOR", ABSOLUTE_X, 4, kindRead, false, execEOR)
	op(0x59, "EOR", ABSOLUTE_Y, 4, kindRead, false, execEOR)
	op(0x41, "EOR", INDIRECT_X, 6, kindRead, false, execEOR)
	op(0x51, "EOR", INDIRECT_Y, 5, kindRead, false, execEOR)

	op(0x09, "ORA", IMMEDIATE, 2, kindRead, false, execORA)
	op(0x05, "ORA", ZERO_PAGE, 3, kindRead, false, execORA)
	op(0x15, "ORA", ZERO_PAGE_X, 4, kindRead, false, execORA)
	op(0x0D, "ORA", ABSOLUTE, 4, kindRead, false, execORA)
	op(0x1D, "ORA", ABSOLUTE_X, 4, kindRead, false, execORA)
	op(0x19, "ORA", ABSOLUTE_Y, 4, kindRead, false, execORA)
	op(0x01, "ORA", INDIRECT_X, 6, kindRead, false, execORA)
	op(0x11, "ORA", INDIRECT_Y, 5, kindRead, false, execORA)

	op(0xC9, "CMP", IMMEDIATE, 2, kindRead, false, execCMP)
	op(0xC5, "CMP", ZERO_PAGE, 3, kindRead, false, execCMP)
	op(0xD5, "CMP", ZERO_PAGE_X, 4, kindRead, false, execCMP)
	op(0xCD, "CMP", ABSOLUTE, 4, kindRead, false, execCMP)
	op(0xDD, "CMP", ABSOLUTE_X, 4, kindRead, false, execCMP)
	op(0xD9, "CMP", ABSOLUTE_Y, 4, kindRead, false, execCMP)
	op(0xC1, "CMP", INDIRECT_X, 6, kindRead, false, execCMP)
	op(0xD1, "CMP", INDIRECT_Y, 5, kindRead, false, execCMP)

	op(0xE0, "CPX", IMMEDIATE, 2, kindRead, false, execCPX)
	op(0xE4, "CPX", ZERO_PAGE, 3, kindRead, false, execCPX)
	op(0xEC, "CPX", ABSOLUTE, 4, kindRead, false, execCPX)

	op(0xC0, "CPY", IMMEDIATE, 2, kindRead, false, execCPY)
	op(0xC4, "CPY", ZERO_PAGE, 3, kindRead, false, execCPY)
	op(0xCC, "CPY", ABSOLUTE, 4, kindRead, false, execCPY)

	op(0x24, "BIT", ZERO_PAGE, 3, kindRead, false, execBIT)
	op(0x2C, "BIT", ABSOLUTE, 4, kindRead, false, execBIT)

	op(0xA9, "LDA", IMMEDIATE, 2, kindRead, false, execLDA)
	op(0xA5, "LDA", ZERO_PAGE, 3, kindRead, false, execLDA)
	op(0xB5, "LDA", ZERO_PAGE_X, 4, kindRead, false, execLDA)
	op(0xAD, "LDA", ABSOLUTE, 4, kindRead, false, execLDA)
	op(0xBD, "LDA", ABSOLUTE_X, 4, kindRead, false, execLDA)
	op(0xB9, "LDA", ABSOLUTE_Y, 4, kindRead, false, execLDA)
	op(0xA1, "LDA", INDIRECT_X, 6, kindRead, false, execLDA)
	op(0xB1, "LDA", INDIRECT_Y, 5, kindRead, false, execLDA)

	op(0xA2, "LDX", IMMEDIATE, 2, kindRead, false, execLDX)
	op(0xA6, "LDX", ZERO_PAGE, 3, kindRead, false, execLDX)
	op(0xB6, "LDX", ZERO_PAGE_Y, 4, kindRead, false, execLDX)
	op(0xAE, "LDX", ABSOLUTE, 4, kindRead, false, execLDX)
	op(0xBE, "LDX", ABSOLUTE_Y, 4, kindRead, false, execLDX)

	op(0xA0, "LDY", IMMEDIATE, 2, kindRead, false, execLDY)
	op(0xA4, "LDY", ZERO_PAGE, 3, kindRead, false, execLDY)
	op(0xB4, "LDY", ZERO_PAGE_X, 4, kindRead, false, execLDY)
	op(0xAC, "LDY", ABSOLUTE, 4, kindRead, false, execLDY)
	op(0xBC, "LDY", ABSOLUTE_X, 4, kindRead, false, execLDY)

	op(0x85, "STA", ZERO_PAGE, 3, kindWrite, false, execSTA)
	op(0x95, "STA", ZERO_PAGE_X, 4, kindWrite, false, execSTA)
	op(0x8D, "STA", ABSOLUTE, 4, kindWrite, false, execSTA)
	op(0x9D, "STA", ABSOLUTE_X, 5, kindWrite, false, execSTA)
	op(0x99, "STA", ABSOLUTE_Y, 5, kindWrite, false, execSTA)
	op(0x81, "STA", INDIRECT_X, 6, kindWrite, false, execSTA)
	op(0x91, "STA", INDIRECT_Y, 6, kindWrite, false, execSTA)

	op(0x86, "STX", ZERO_PAGE, 3, kindWrite, false, execSTX)
	op(0x96, "STX", ZERO_PAGE_Y, 4, kindWrite, false, execSTX)
	op(0x8E, "STX", ABSOLUTE, 4, kindWrite, false, execSTX)

	op(0x84, "STY", ZERO_PAGE, 3, kindWrite, false, execSTY)
	op(0x94, "STY", ZERO_PAGE_X, 4, kindWrite, false, execSTY)
	op(0x8C, "STY", ABSOLUTE, 4, kindWrite, false, execSTY)

	op(0xAA, "TAX", IMPLICIT, 2, kindImplicit, false, execTAX)
	op(0xA8, "TAY", IMPLICIT, 2, kindImplicit, false, execTAY)
	op(0xBA, "TSX", IMPLICIT, 2, kindImplicit, false, execTSX)
	op(0x8A, "TXA", IMPLICIT, 2, kindImplicit, false, execTXA)
	op(0x9A, "TXS", IMPLICIT, 2, kindImplicit, false, execTXS)
	op(0x98, "TYA", IMPLICIT, 2, kindImplicit, false, execTYA)

	op(0x48, "PHA", IMPLICIT, 3, kindStack, false, execPHA)
	op(0x08, "PHP", IMPLICIT, 3, kindStack, false, execPHP)
	op(0x68, "PLA", IMPLICIT, 4, kindStack, false, execPLA)
	op(0x28, "PLP", IMPLICIT, 4, kindStack, false, execPLP)

	op(0x0A, "ASL", ACCUMULATOR, 2, kindImplicit, false, execASL)
	op(0x06, "ASL", ZERO_PAGE, 5, kindReadModifyWrite, false, execASL)
	op(0x16, "ASL", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execASL)
	op(0x0E, "ASL", ABSOLUTE, 6, kindReadModifyWrite, false, execASL)
	op(0x1E, "ASL", ABSOLUTE_X, 7, kindReadModifyWrite, false, execASL)

	op(0x4A, "LSR", ACCUMULATOR, 2, kindImplicit, false, execLSR)
	op(0x46, "LSR", ZERO_PAGE, 5, kindReadModifyWrite, false, execLSR)
	op(0x56, "LSR", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execLSR)
	op(0x4E, "LSR", ABSOLUTE, 6, kindReadModifyWrite, false, execLSR)
	op(0x5E, "LSR", ABSOLUTE_X, 7, kindReadModifyWrite, false, execLSR)

	op(0x2A, "ROL", ACCUMULATOR, 2, kindImplicit, false, execROL)
	op(0x26, "ROL", ZERO_PAGE, 5, kindReadModifyWrite, false, execROL)
	op(0x36, "ROL", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execROL)
	op(0x2E, "ROL", ABSOLUTE, 6, kindReadModifyWrite, false, execROL)
	op(0x3E, "ROL", ABSOLUTE_X, 7, kindReadModifyWrite, false, execROL)

	op(0x6A, "ROR", ACCUMULATOR, 2, kindImplicit, false, execROR)
	op(0x66, "ROR", ZERO_PAGE, 5, kindReadModifyWrite, false, execROR)
	op(0x76, "ROR", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execROR)
	op(0x6E, "ROR", ABSOLUTE, 6, kindReadModifyWrite, false, execROR)
	op(0x7E, "ROR", ABSOLUTE_X, 7, kindReadModifyWrite, false, execROR)

	op(0xE6, "INC", ZERO_PAGE, 5, kindReadModifyWrite, false, execINC)
	op(0xF6, "INC", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execINC)
	op(0xEE, "INC", ABSOLUTE, 6, kindReadModifyWrite, false, execINC)
	op(0xFE, "INC", ABSOLUTE_X, 7, kindReadModifyWrite, false, execINC)

	op(0xC6, "DEC", ZERO_PAGE, 5, kindReadModifyWrite, false, execDEC)
	op(0xD6, "DEC", ZERO_PAGE_X, 6, kindReadModifyWrite, false, execDEC)
	op(0xCE, "DEC", ABSOLUTE, 6, kindReadModifyWrite, false, execDEC)
	op(0xDE, "DEC", ABSOLUTE_X, 7, kindReadModifyWrite, false, execDEC)

	op(0xE8, "INX", IMPLICIT, 2, kindImplicit, false, execINX)
	op(0xC8, "INY", IMPLICIT, 2, kindImplicit, false, execINY)
	op(0xCA, "DEX", IMPLICIT, 2, kindImplicit, false, execDEX)
	op(0x88, "DEY", IMPLICIT, 2, kindImplicit, false, execDEY)

	op(0x18, "CLC", IMPLICIT, 2, kindImplicit, false, execCLC)
	op(0x38, "SEC", IMPLICIT, 2, kindImplicit, false, execSEC)
	op(0x58, "CLI", IMPLICIT, 2, kindImplicit, false, execCLI)
	op(0x78, "SEI", IMPLICIT, 2, kindImplicit, false, execSEI)
	op(0xB8, "CLV", IMPLICIT, 2, kindImplicit, false, execCLV)
	op(0xD8, "CLD", IMPLICIT, 2, kindImplicit, false, execCLD)
	op(0xF8, "SED", IMPLICIT, 2, kindImplicit, false, execSED)

	op(0x4C, "JMP", ABSOLUTE, 3, kindJump, false, execJMP)
	op(0x6C, "JMP", INDIRECT, 5, kindJump, false, execJMP)
	op(0x20, "JSR", ABSOLUTE, 6, kindJump, false, execJSR)
	op(0x40, "RTI", IMPLICIT, 6, kindStack, false, execRTI)
	op(0x60, "RTS", IMPLICIT, 6, kindStack, false, execRTS)
	op(0x00, "BRK", IMPLICIT, 7, kindStack, false, execBRK)
	op(0xEA, "NOP", IMPLICIT, 2, kindImplicit, false, execNOP)

	op(0x90, "BCC", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_CARRY, false))
	op(0xB0, "BCS", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_CARRY, true))
	op(0xF0, "BEQ", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_ZERO, true))
	op(0xD0, "BNE", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_ZERO, false))
	op(0x30, "BMI", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_NEGATIVE, true))
	op(0x10, "BPL", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_NEGATIVE, false))
	op(0x50, "BVC", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_OVERFLOW, false))
	op(0x70, "BVS", RELATIVE, 2, kindBranch, false, branchExec(STATUS_FLAG_OVERFLOW, true))

	// Undocumented opcodes actually relied on by some commercial ROMs
	// and most test suites (spec.md §1's mandated illegal subset).
	for _, b := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		op(b, "NOP", IMPLICIT, 2, kindImplicit, true, execNOP)
	}
	op(0x80, "NOP", IMMEDIATE, 2, kindRead, true, execNOP)
	for _, e := range []struct {
		b uint8
		m uint8
		c uint8
	}{
		{0x04, ZERO_PAGE, 3}, {0x44, ZERO_PAGE, 3}, {0x64, ZERO_PAGE, 3},
		{0x14, ZERO_PAGE_X, 4}, {0x34, ZERO_PAGE_X, 4}, {0x54, ZERO_PAGE_X, 4},
		{0x74, ZERO_PAGE_X, 4}, {0xD4, ZERO_PAGE_X, 4}, {0xF4, ZERO_PAGE_X, 4},
		{0x0C, ABSOLUTE, 4},
		{0x1C, ABSOLUTE_X, 4}, {0x3C, ABSOLUTE_X, 4}, {0x5C, ABSOLUTE_X, 4},
		{0x7C, ABSOLUTE_X, 4}, {0xDC, ABSOLUTE_X, 4}, {0xFC, ABSOLUTE_X, 4},
	} {
		op(e.b, "NOP", e.m, e.c, kindRead, true, execNOP)
	}

	op(0xA7, "LAX", ZERO_PAGE, 3, kindRead, true, execLAX)
	op(0xB7, "LAX", ZERO_PAGE_Y, 4, kindRead, true, execLAX)
	op(0xAF, "LAX", ABSOLUTE, 4, kindRead, true, execLAX)
	op(0xBF, "LAX", ABSOLUTE_Y, 4, kindRead, true, execLAX)
	op(0xA3, "LAX", INDIRECT_X, 6, kindRead, true, execLAX)
	op(0xB3, "LAX", INDIRECT_Y, 5, kindRead, true, execLAX)

	op(0x87, "SAX", ZERO_PAGE, 3, kindWrite, true, execSAX)
	op(0x97, "SAX", ZERO_PAGE_Y, 4, kindWrite, true, execSAX)
	op(0x8F, "SAX", ABSOLUTE, 4, kindWrite, true, execSAX)
	op(0x83, "SAX", INDIRECT_X, 6, kindWrite, true, execSAX)

	op(0xC7, "DCP", ZERO_PAGE, 5, kindReadModifyWrite, true, execDCP)
	op(0xD7, "DCP", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execDCP)
	op(0xCF, "DCP", ABSOLUTE, 6, kindReadModifyWrite, true, execDCP)
	op(0xDF, "DCP", ABSOLUTE_X, 7, kindReadModifyWrite, true, execDCP)
	op(0xDB, "DCP", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execDCP)
	op(0xC3, "DCP", INDIRECT_X, 8, kindReadModifyWrite, true, execDCP)
	op(0xD3, "DCP", INDIRECT_Y, 8, kindReadModifyWrite, true, execDCP)

	op(0xE7, "ISB", ZERO_PAGE, 5, kindReadModifyWrite, true, execISB)
	op(0xF7, "ISB", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execISB)
	op(0xEF, "ISB", ABSOLUTE, 6, kindReadModifyWrite, true, execISB)
	op(0xFF, "ISB", ABSOLUTE_X, 7, kindReadModifyWrite, true, execISB)
	op(0xFB, "ISB", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execISB)
	op(0xE3, "ISB", INDIRECT_X, 8, kindReadModifyWrite, true, execISB)
	op(0xF3, "ISB", INDIRECT_Y, 8, kindReadModifyWrite, true, execISB)

	op(0x07, "SLO", ZERO_PAGE, 5, kindReadModifyWrite, true, execSLO)
	op(0x17, "SLO", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execSLO)
	op(0x0F, "SLO", ABSOLUTE, 6, kindReadModifyWrite, true, execSLO)
	op(0x1F, "SLO", ABSOLUTE_X, 7, kindReadModifyWrite, true, execSLO)
	op(0x1B, "SLO", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execSLO)
	op(0x03, "SLO", INDIRECT_X, 8, kindReadModifyWrite, true, execSLO)
	op(0x13, "SLO", INDIRECT_Y, 8, kindReadModifyWrite, true, execSLO)

	op(0x27, "RLA", ZERO_PAGE, 5, kindReadModifyWrite, true, execRLA)
	op(0x37, "RLA", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execRLA)
	op(0x2F, "RLA", ABSOLUTE, 6, kindReadModifyWrite, true, execRLA)
	op(0x3F, "RLA", ABSOLUTE_X, 7, kindReadModifyWrite, true, execRLA)
	op(0x3B, "RLA", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execRLA)
	op(0x23, "RLA", INDIRECT_X, 8, kindReadModifyWrite, true, execRLA)
	op(0x33, "RLA", INDIRECT_Y, 8, kindReadModifyWrite, true, execRLA)

	op(0x47, "SRE", ZERO_PAGE, 5, kindReadModifyWrite, true, execSRE)
	op(0x57, "SRE", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execSRE)
	op(0x4F, "SRE", ABSOLUTE, 6, kindReadModifyWrite, true, execSRE)
	op(0x5F, "SRE", ABSOLUTE_X, 7, kindReadModifyWrite, true, execSRE)
	op(0x5B, "SRE", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execSRE)
	op(0x43, "SRE", INDIRECT_X, 8, kindReadModifyWrite, true, execSRE)
	op(0x53, "SRE", INDIRECT_Y, 8, kindReadModifyWrite, true, execSRE)

	op(0x67, "RRA", ZERO_PAGE, 5, kindReadModifyWrite, true, execRRA)
	op(0x77, "RRA", ZERO_PAGE_X, 6, kindReadModifyWrite, true, execRRA)
	op(0x6F, "RRA", ABSOLUTE, 6, kindReadModifyWrite, true, execRRA)
	op(0x7F, "RRA", ABSOLUTE_X, 7, kindReadModifyWrite, true, execRRA)
	op(0x7B, "RRA", ABSOLUTE_Y, 7, kindReadModifyWrite, true, execRRA)
	op(0x63, "RRA", INDIRECT_X, 8, kindReadModifyWrite, true, execRRA)
	op(0x73, "RRA", INDIRECT_Y, 8, kindReadModifyWrite, true, execRRA)

	// KIL/JAM opcodes stop the clock dead rather than running off into
	// the weeds decoding garbage.
	for _, b := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		op(b, "KIL", IMPLICIT, 2, kindImplicit, true, execKIL)
	}
}

func execADC(c *CPU, mode uint8, addr uint16) { c.addWithCarry(c.read(addr)) }
func execSBC(c *CPU, mode uint8, addr uint16) { c.addWithCarry(^c.read(addr)) }

func execAND(c *CPU, mode uint8, addr uint16) {
	c.acc &= c.read(addr)
	c.setNZ(c.acc)
}

func execEOR(c *CPU, mode uint8, addr uint16) {
	c.acc ^= c.read(addr)
	c.setNZ(c.acc)
}

func execORA(c *CPU, mode uint8, addr uint16) {
	c.acc |= c.read(addr)
	c.setNZ(c.acc)
}

func execCMP(c *CPU, mode uint8, addr uint16) { c.compare(c.acc, c.read(addr)) }
func execCPX(c *CPU, mode uint8, addr uint16) { c.compare(c.x, c.read(addr)) }
func execCPY(c *CPU, mode uint8, addr uint16) { c.compare(c.y, c.read(addr)) }

func execBIT(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr)
	c.flagsOff(STATUS_FLAG_ZERO | STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE)
	if v&c.acc == 0 {
		c.flagsOn(STATUS_FLAG_ZERO)
	}
	c.flagsOn(v & (STATUS_FLAG_OVERFLOW | STATUS_FLAG_NEGATIVE))
}

func execLDA(c *CPU, mode uint8, addr uint16) { c.acc = c.read(addr); c.setNZ(c.acc) }
func execLDX(c *CPU, mode uint8, addr uint16) { c.x = c.read(addr); c.setNZ(c.x) }
func execLDY(c *CPU, mode uint8, addr uint16) { c.y = c.read(addr); c.setNZ(c.y) }

func execSTA(c *CPU, mode uint8, addr uint16) { c.write(addr, c.acc) }
func execSTX(c *CPU, mode uint8, addr uint16) { c.write(addr, c.x) }
func execSTY(c *CPU, mode uint8, addr uint16) { c.write(addr, c.y) }

func execTAX(c *CPU, mode uint8, addr uint16) { c.x = c.acc; c.setNZ(c.x) }
func execTAY(c *CPU, mode uint8, addr uint16) { c.y = c.acc; c.setNZ(c.y) }
func execTSX(c *CPU, mode uint8, addr uint16) { c.x = c.sp; c.setNZ(c.x) }
func execTXA(c *CPU, mode uint8, addr uint16) { c.acc = c.x; c.setNZ(c.acc) }
func execTXS(c *CPU, mode uint8, addr uint16) { c.sp = c.x }
func execTYA(c *CPU, mode uint8, addr uint16) { c.acc = c.y; c.setNZ(c.acc) }

func execPHA(c *CPU, mode uint8, addr uint16) { c.pushStack(c.acc) }
func execPHP(c *CPU, mode uint8, addr uint16) {
	c.pushStack(c.status | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG)
}
func execPLA(c *CPU, mode uint8, addr uint16) { c.acc = c.popStack(); c.setNZ(c.acc) }
func execPLP(c *CPU, mode uint8, addr uint16) {
	c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
}

func shiftLeft(c *CPU, mode uint8, addr uint16) (old, new uint8) {
	if mode == ACCUMULATOR {
		old = c.acc
		c.acc = old << 1
		new = c.acc
	} else {
		old = c.read(addr)
		new = old << 1
		c.write(addr, new)
	}
	return
}

func execASL(c *CPU, mode uint8, addr uint16) {
	ov, nv := shiftLeft(c, mode, addr)
	c.flagsOff(STATUS_FLAG_CARRY)
	c.setNZ(nv)
	if ov&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
}

func execLSR(c *CPU, mode uint8, addr uint16) {
	var ov, nv uint8
	if mode == ACCUMULATOR {
		ov = c.acc
		c.acc = ov >> 1
		nv = c.acc
	} else {
		ov = c.read(addr)
		nv = ov >> 1
		c.write(addr, nv)
	}
	c.flagsOff(STATUS_FLAG_CARRY)
	c.setNZ(nv)
	if ov&0x01 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
}

func execROL(c *CPU, mode uint8, addr uint16) {
	var ov, nv uint8
	carryIn := c.status & STATUS_FLAG_CARRY
	if mode == ACCUMULATOR {
		ov = c.acc
		c.acc = bits.RotateLeft8(ov, 1)&0xFE | carryIn
		nv = c.acc
	} else {
		ov = c.read(addr)
		nv = bits.RotateLeft8(ov, 1)&0xFE | carryIn
		c.write(addr, nv)
	}
	c.flagsOff(STATUS_FLAG_CARRY)
	c.setNZ(nv)
	if ov&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
}

func execROR(c *CPU, mode uint8, addr uint16) {
	var ov, nv uint8
	carryIn := (c.status & STATUS_FLAG_CARRY) << 7
	if mode == ACCUMULATOR {
		ov = c.acc
		c.acc = (ov >> 1) | carryIn
		nv = c.acc
	} else {
		ov = c.read(addr)
		nv = (ov >> 1) | carryIn
		c.write(addr, nv)
	}
	c.flagsOff(STATUS_FLAG_CARRY)
	c.setNZ(nv)
	if ov&0x01 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
}

func execINC(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setNZ(v)
}

func execDEC(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setNZ(v)
}

func execINX(c *CPU, mode uint8, addr uint16) { c.x++; c.setNZ(c.x) }
func execINY(c *CPU, mode uint8, addr uint16) { c.y++; c.setNZ(c.y) }
func execDEX(c *CPU, mode uint8, addr uint16) { c.x--; c.setNZ(c.x) }
func execDEY(c *CPU, mode uint8, addr uint16) { c.y--; c.setNZ(c.y) }

func execCLC(c *CPU, mode uint8, addr uint16) { c.flagsOff(STATUS_FLAG_CARRY) }
func execSEC(c *CPU, mode uint8, addr uint16) { c.flagsOn(STATUS_FLAG_CARRY) }
func execCLI(c *CPU, mode uint8, addr uint16) { c.flagsOff(STATUS_FLAG_INTERRUPT_DISABLE) }
func execSEI(c *CPU, mode uint8, addr uint16) { c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE) }
func execCLV(c *CPU, mode uint8, addr uint16) { c.flagsOff(STATUS_FLAG_OVERFLOW) }
func execCLD(c *CPU, mode uint8, addr uint16) { c.flagsOff(STATUS_FLAG_DECIMAL) }
func execSED(c *CPU, mode uint8, addr uint16) { c.flagsOn(STATUS_FLAG_DECIMAL) }
func execNOP(c *CPU, mode uint8, addr uint16) {}

func execJMP(c *CPU, mode uint8, addr uint16) { c.pc = addr }
func execJSR(c *CPU, mode uint8, addr uint16) {
	c.pushAddress(c.pc - 1)
	c.pc = addr
}
func execRTS(c *CPU, mode uint8, addr uint16) { c.pc = c.popAddress() + 1 }
func execRTI(c *CPU, mode uint8, addr uint16) {
	c.status = (c.popStack() &^ STATUS_FLAG_BREAK) | UNUSED_STATUS_FLAG
	c.pc = c.popAddress()
}

func execBRK(c *CPU, mode uint8, addr uint16) {
	c.pc++
	c.pushAddress(c.pc)
	c.pushStack(c.status | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG)
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)

	// Hijacking: a hardware NMI landing on the status-push cycle steals
	// the vector fetch away from the IRQ/BRK vector.
	vector := uint16(INT_BRK)
	if c.nmiRequested {
		c.nmiRequested = false
		vector = INT_NMI
	}
	c.pc = c.read16(vector)
}

func execKIL(c *CPU, mode uint8, addr uint16) { c.halted = true }

// branchExec returns an exec closure that takes the branch when the
// status flag in mask being set equals predicate — e.g.
// branchExec(STATUS_FLAG_OVERFLOW, false) is BVC.
func branchExec(mask uint8, predicate bool) func(c *CPU, mode uint8, addr uint16) {
	return func(c *CPU, mode uint8, addr uint16) {
		if (c.status&mask != 0) == predicate {
			old := c.pc
			c.pc = addr
			c.extraCycles++
			if pageOf(old) != pageOf(addr) {
				c.extraCycles++
			}
		}
	}
}

// Undocumented combo opcodes: RMW + a second logical/arithmetic op in
// the same cycle slot.
func execLAX(c *CPU, mode uint8, addr uint16) {
	c.acc = c.read(addr)
	c.x = c.acc
	c.setNZ(c.acc)
}

func execSAX(c *CPU, mode uint8, addr uint16) { c.write(addr, c.acc&c.x) }

func execDCP(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr) - 1
	c.write(addr, v)
	c.compare(c.acc, v)
}

func execISB(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr) + 1
	c.write(addr, v)
	c.addWithCarry(^v)
}

func execSLO(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr)
	nv := v << 1
	c.write(addr, nv)
	c.flagsOff(STATUS_FLAG_CARRY)
	if v&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
	c.acc |= nv
	c.setNZ(c.acc)
}

func execRLA(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr)
	carryIn := c.status & STATUS_FLAG_CARRY
	nv := (v << 1) | carryIn
	c.write(addr, nv)
	c.flagsOff(STATUS_FLAG_CARRY)
	if v&0x80 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
	c.acc &= nv
	c.setNZ(c.acc)
}

func execSRE(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr)
	nv := v >> 1
	c.write(addr, nv)
	c.flagsOff(STATUS_FLAG_CARRY)
	if v&0x01 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
	c.acc ^= nv
	c.setNZ(c.acc)
}

func execRRA(c *CPU, mode uint8, addr uint16) {
	v := c.read(addr)
	carryIn := (c.status & STATUS_FLAG_CARRY) << 7
	nv := (v >> 1) | carryIn
	c.write(addr, nv)
	c.flagsOff(STATUS_FLAG_CARRY)
	if v&0x01 != 0 {
		c.flagsOn(STATUS_FLAG_CARRY)
	}
	c.addWithCarry(nv)
}

func pageOf(addr uint16) uint16 { return addr & 0xFF00 }
