package mappers

// prgBase manages a PRG ROM image as a set of fixed-size banks. Each
// mapper picks its own window size (8/16/32KB) and keeps a small slice
// of bank indices, one per CPU address window, which it rewrites on
// register writes. Boards with PRG RAM embed a separate plain byte
// slice rather than reusing prgBase, since RAM is never bank-switched
// by anything this module implements.
type prgBase struct {
	data []uint8
}

func newPrgBase(data []uint8) *prgBase {
	return &prgBase{data: data}
}

// banks returns how many windowSize-sized banks the image contains.
func (p *prgBase) banks(windowSize int) int {
	n := len(p.data) / windowSize
	if n == 0 {
		n = 1
	}
	return n
}

// read returns the byte at offset within the given windowSize bank,
// wrapping the bank index into range the way real boards tie off
// unconnected high address lines.
func (p *prgBase) read(bank, windowSize int, offset uint16) uint8 {
	n := p.banks(windowSize)
	bank %= n
	if bank < 0 {
		bank += n
	}
	idx := bank*windowSize + int(offset)
	if idx >= len(p.data) {
		return 0
	}
	return p.data[idx]
}

// chrBase is the CHR-side equivalent of prgBase. It additionally
// tracks whether the underlying bytes are RAM (writable) or ROM.
type chrBase struct {
	data   []uint8
	isRAM  bool
}

func newChrBase(data []uint8, isRAM bool) *chrBase {
	return &chrBase{data: data, isRAM: isRAM}
}

func (c *chrBase) banks(windowSize int) int {
	n := len(c.data) / windowSize
	if n == 0 {
		n = 1
	}
	return n
}

func (c *chrBase) read(bank, windowSize int, offset uint16) uint8 {
	n := c.banks(windowSize)
	bank %= n
	if bank < 0 {
		bank += n
	}
	idx := bank*windowSize + int(offset)
	if idx >= len(c.data) {
		return 0
	}
	return c.data[idx]
}

func (c *chrBase) write(bank, windowSize int, offset uint16, val uint8) {
	if !c.isRAM {
		return
	}
	n := c.banks(windowSize)
	bank %= n
	if bank < 0 {
		bank += n
	}
	idx := bank*windowSize + int(offset)
	if idx < len(c.data) {
		c.data[idx] = val
	}
}

// prgRAM is a small helper for the 8KB window at $6000-$7FFF that
// several mappers (MMC1, MMC3) expose as battery-backed save RAM.
type prgRAM struct {
	data    []uint8
	enabled bool
}

func newPrgRAM(size int) *prgRAM {
	return &prgRAM{data: make([]uint8, size), enabled: true}
}

func (r *prgRAM) read(addr uint16) uint8 {
	if !r.enabled || len(r.data) == 0 {
		return 0
	}
	return r.data[int(addr)%len(r.data)]
}

func (r *prgRAM) write(addr uint16, val uint8) {
	if !r.enabled || len(r.data) == 0 {
		return
	}
	r.data[int(addr)%len(r.data)] = val
}
