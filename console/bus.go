package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/nescore/nescore/apu"
	"github.com/nescore/nescore/mappers"
	"github.com/nescore/nescore/mos6502"
	"github.com/nescore/nescore/ppu"
)

const (
	NES_BASE_MEMORY = 0x800 // 2KB built in RAM

	MAX_ADDRESS          = math.MaxUint16
	MEM_SIZE             = MAX_ADDRESS + 1
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x4020
	MAX_SRAM             = 0x6000
)

const (
	OAMDMA   = 0x4014 // Triggers DMA from CPU memory to the PPU's OAM
	JOY1     = 0x4016 // Controller 1 read / joint strobe write
	JOY2     = 0x4017 // Controller 2 read / APU frame-counter write
)

// a12Clocker is implemented by mappers (currently only MMC3) that
// clock an internal IRQ counter from PPU address-bus edges.
type a12Clocker interface {
	ClockA12()
}

// irqSource is implemented by mappers that can assert the shared CPU
// IRQ line (currently only MMC3).
type irqSource interface {
	IRQPending() bool
}

// cycleObserver is implemented by mappers (MMC1 and its mapper-155
// variant) that need to know the current CPU cycle count to discard
// register writes that land on consecutive cycles, per spec.md §7's
// MapperRegisterRace behavior.
type cycleObserver interface {
	ObserveCPUCycle(cycle uint64)
}

type Bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	mapper mappers.Mapper
	pads   *padSet
	ram    []uint8
	ticks  uint64
	sink   *audioSink

	lastChrA12  uint8
	a12LowSince uint64 // b.ticks (PPU dots) at which A12 last fell
}

func New(m mappers.Mapper) *Bus {
	bus := newBus(m)
	bus.enableAudio()

	w, h := bus.ppu.GetResolution()
	ebiten.SetWindowSize(w*2, h*2) // Start with 2x the screen size
	ebiten.SetWindowTitle("NES Core")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return bus
}

// NewWindowed is like New but lets the caller pick the initial window
// scale factor (the CLI's -scale flag), instead of the hardcoded 2x.
func NewWindowed(m mappers.Mapper, scale int) *Bus {
	bus := newBus(m)
	bus.enableAudio()

	w, h := bus.ppu.GetResolution()
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle("NES Core")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return bus
}

// enableAudio wires the APU's mixed output into the host's audio
// device. It's skipped in NewHeadless, where there's no playback
// device to feed and nothing is listening.
func (b *Bus) enableAudio() {
	actx := audio.CurrentContext()
	if actx == nil {
		actx = audio.NewContext(sampleRate)
	}

	sink, err := newAudioSink(actx)
	if err != nil {
		// No audio device available (e.g. a CI container with none
		// mounted): run silently rather than fail the whole console.
		return
	}
	b.sink = sink
}

// NewHeadless builds a Bus without touching ebiten's window state at
// all, for the CLI's -cycles mode (spec.md §6's "run N cycles"
// operation) where no window is ever opened.
func NewHeadless(m mappers.Mapper) *Bus {
	return newBus(m)
}

func newBus(m mappers.Mapper) *Bus {
	bus := &Bus{
		mapper: m,
		ram:    make([]uint8, NES_BASE_MEMORY),
		apu:    apu.New(),
		pads:   newPadSet(),
	}

	bus.cpu = mos6502.New(bus)
	bus.ppu = ppu.New(bus)
	bus.ppu.SetMirroring(m.MirroringMode())

	return bus
}

func (b *Bus) MirrorMode() uint8 {
	return b.mapper.MirroringMode()
}

// Layout returns the constant resolution of the NES and is part of
// the ebiten.Game interface. By returning constants here, we will
// force ebiten to scale the display when the window size changes.
func (b *Bus) Layout(w, h int) (int, int) {
	return b.ppu.GetResolution()
}

// Draw updates the displayed ebiten window with the current state of
// the PPU.
func (b *Bus) Draw(screen *ebiten.Image) {
	screen.WritePixels(b.ppu.FramebufferRGBA())
}

// Update is called by ebiten roughly every 1/60s and will be our
// driver for the emulation.
func (b *Bus) Update() error {
	// We do work in a different goroutine and don't need ebiten
	// to drive this. We have to be implemented and called though
	// as it's part of the required interface.
	return nil
}

// TriggerNMI is used by the PPU to signal the CPU that it is in vblank.
func (b *Bus) TriggerNMI() {
	b.cpu.TriggerNMI()
}

// CancelNMI is used by the PPU to un-latch an NMI request that a
// $2002 read raced and won, per spec.md §4.3's vblank/NMI suppression.
func (b *Bus) CancelNMI() {
	b.cpu.CancelNMI()
}

// ChrRead is used by the PPU to access CHR-ROM/RAM in the loaded
// Mapper. It also observes the address bus for MMC3-style mappers
// that clock an IRQ counter on PPU-address-bus A12 edges: A12 low for
// at least 6 PPU dots followed by a rising edge clocks the counter
// once, per spec.md's MMC3 IRQ detail.
func (b *Bus) ChrRead(start, end uint16) []uint8 {
	out := make([]uint8, 0, int(end-start)+1)
	for a := start; ; a++ {
		b.observeA12(a)
		out = append(out, b.mapper.ChrRead(a))
		if a == end {
			break
		}
	}
	return out
}

// ChrWrite is used by the PPU to write CHR-RAM through $2007 (spec.md
// §3: chr_8k_units==0 substitutes 8KiB of CHR RAM, uploaded this way).
// It observes the same A12 edge any other PPU-address-bus access
// would, since the address line doesn't care whether the access was a
// read or a write.
func (b *Bus) ChrWrite(addr uint16, val uint8) {
	b.observeA12(addr)
	b.mapper.ChrWrite(addr, val)
}

func (b *Bus) observeA12(addr uint16) {
	a12 := uint8(0)
	if addr&0x1000 != 0 {
		a12 = 1
	}

	if a12 == 0 {
		if b.lastChrA12 == 1 {
			b.a12LowSince = b.ticks
		}
	} else if b.lastChrA12 == 0 {
		if b.ticks-b.a12LowSince >= 6 {
			if c, ok := b.mapper.(a12Clocker); ok {
				c.ClockA12()
			}
		}
	}
	b.lastChrA12 = a12
}

func (b *Bus) Read(addr uint16) uint8 {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr <= MAX_NES_BASE_RAM:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		return b.ram[addr&0x7FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		// PPU registers are mirrored between 0x2000 and 0x4000
		return b.ppu.ReadReg(addr & 0x2007)
	case addr == JOY1:
		return b.pads.ReadPad1()
	case addr == JOY2:
		return b.pads.ReadPad2()
	case addr < MAX_IO_REG:
		return b.apu.ReadPort(addr)
	case addr <= MAX_SRAM:
		return b.mapper.PrgRead(addr)
	case addr <= MAX_ADDRESS:
		return b.mapper.PrgRead(addr)
	}

	panic("should never happen")
}

// Framebuffer returns the current 256x240x4 BGRA frame, for headless
// callers (the CLI's -cycles mode, or a future CRC32 acceptance test)
// that don't go through the ebiten.Game Draw callback.
func (b *Bus) Framebuffer() []byte {
	return b.ppu.Framebuffer()
}

func (b *Bus) ClearMem() {
	b.ram = make([]uint8, len(b.ram))
}

func (b *Bus) Write(addr uint16, val uint8) {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr <= MAX_NES_BASE_RAM:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		b.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		// PPU registers are mirrored between 0x2000 and 0x4000
		b.ppu.WriteReg(addr&0x2007, val)
	case addr == OAMDMA:
		b.doOAMDMA(val)
	case addr == JOY1:
		b.pads.Strobe(val)
	case addr == JOY2:
		b.apu.WritePort(addr, val)
	case addr < MAX_IO_REG:
		b.apu.WritePort(addr, val)
	case addr <= MAX_SRAM:
		b.mapper.PrgWrite(addr, val)
	case addr <= MAX_ADDRESS:
		// Writes into $8000-$FFFF are delivered to both the PRG and
		// CHR facades on the same cycle: several mappers (MMC1's
		// serial shift register in particular) latch CHR-bank state
		// from these CPU-side writes.
		b.mapper.PrgWrite(addr, val)
		if addr >= 0x8000 {
			b.mapper.ChrWrite(addr, val)
		}
	}
}

// doOAMDMA performs the $4014 transfer. The 256 source bytes are
// copied in one pass (nothing else in this module observes OAM mid-
// transfer) and the CPU is then charged the matching 513/514-cycle
// stall via AddDMACycles, so from the CPU's perspective it is
// suspended for exactly as long as real hardware would suspend it.
func (b *Bus) doOAMDMA(page uint8) {
	base := uint16(page) << 8
	for a := base; a < base+256; a++ {
		b.ppu.WriteOAMByte(b.Read(a))
	}
	b.cpu.AddDMACycles()
}

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Printf(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

func (b *Bus) pollMapperIRQ() {
	if src, ok := b.mapper.(irqSource); ok {
		b.cpu.SetIRQLine(mos6502.IRQSourceMapper, src.IRQPending())
	}
}

// Run drives the master clock: the PPU ticks every master cycle, the
// CPU every third, and the APU every CPU cycle, per spec.md §2's 3:1:1
// ratio.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.stepMasterClock()
		}
	}
}

// RunCycles drives the master clock headlessly (no ebiten.Game loop)
// for exactly n CPU cycles, the "run N cycles" operation spec.md §6
// names as one of the core's two external entry points. It's what a
// CRC32-of-framebuffer acceptance scenario (spec.md §8) or the
// interactive debugger's breakpoint-free run would call.
func (b *Bus) RunCycles(n uint64) {
	target := b.cpu.TotalCycles() + n
	for b.cpu.TotalCycles() < target {
		b.stepMasterClock()
	}
}

func (b *Bus) stepMasterClock() {
	b.ppu.Step()
	if b.ticks%3 == 0 {
		if co, ok := b.mapper.(cycleObserver); ok {
			co.ObserveCPUCycle(b.cpu.TotalCycles())
		}
		b.cpu.Tick()
		b.apu.Step()
		if b.sink != nil {
			b.sink.observeCycle(b.apu.Sample())
		}
		b.cpu.SetIRQLine(mos6502.IRQSourceAPUFrame, b.apu.IRQPending())
		b.pollMapperIRQ()
	}
	b.ticks += 1
}

func (b *Bus) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)

	breaks := make(map[uint16]struct{})

	for {
		fmt.Printf("%s\n\n", b.cpu)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - cleear breakpoints")
		fmt.Println("(R)un - run to completion")
		fmt.Println("(S)step - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)memory - select a memory range to display")
		fmt.Println("S(t)ack - show last 3 items on the stack")
		fmt.Println("(I)instruction - show instruction memory locations")
		fmt.Println("(P)C - set program counter")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit - shutdown nescore")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			b.cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func(ctx context.Context) {
				for {
					select {
					case <-sigQuit:
						cancel()
					case <-ctx.Done():
						return
					}
				}
			}(cctx)

			b.Run(cctx)
		case 's', 'S':
			c := b.cpu.Step() * 3
			for i := 0; i < c; i++ {
				b.ppu.Step()
			}
		case 't', 'T':
			fmt.Println()
			i := 0
			for {
				m := b.cpu.StackAddr() + uint16(i)
				fmt.Printf("0x%04x: 0x%02x ", m, b.Read(m))
				if m == 0x01ff || i == 2 {
					break
				}
				i += 1
			}
			fmt.Printf("\n\n")
		case 'i', 'I':
			fmt.Printf("\n%s\n\n", b.cpu.Inst())
		case 'u', 'U':
			fmt.Println(b.ppu)
		case 'e', 'E':
			b.cpu.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			i := low
			for {
				fmt.Printf("0x%04x: 0x%02x ", i, b.Read(i))
				if x%5 == 0 {
					fmt.Println()
				}
				if i == high || i == math.MaxUint16 {
					break
				}
				x += 1
				i += 1
			}
			fmt.Printf("\n\n")
		}
	}
}
