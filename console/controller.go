package console

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Buttons, as bits:
// 0 - A
// 1 - B
// 2 - Select
// 3 - Start
// 4 - Up
// 5 - Down
// 6 - Left
// 7 - Right
var pad1Keys []ebiten.Key = []ebiten.Key{
	ebiten.KeyA,     // A
	ebiten.KeyB,     // B
	ebiten.KeySpace, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,    // Up
	ebiten.KeyDown,  // Down
	ebiten.KeyLeft,  // Left
	ebiten.KeyRight, // Right
}

// pad2Keys shares a keyboard with pad1, on a WASD-style layout, so two
// players can sit at the same keyboard.
var pad2Keys []ebiten.Key = []ebiten.Key{
	ebiten.KeyQ,         // A
	ebiten.KeyE,         // B
	ebiten.KeyShiftLeft, // Select
	ebiten.KeyTab,       // Start
	ebiten.KeyW,         // Up
	ebiten.KeyS,         // Down
	ebiten.KeyA,         // Left
	ebiten.KeyD,         // Right
}

type controller struct {
	keys    []ebiten.Key
	strobe  bool
	buttons uint8
	idx     uint8
}

func (c *controller) write(val uint8) {
	switch val & 0x01 {
	case 0:
		c.strobe = false
		c.buttons = 0
		c.poll()
	case 1:
		c.strobe = true
		c.idx = 0
	}
}

func (c *controller) read() uint8 {
	if c.idx > 7 {
		return 1
	}

	ret := c.buttons & (1 << c.idx) >> c.idx
	c.idx++
	return ret
}

func (c *controller) poll() {
	for i, key := range c.keys {
		var pressed uint8
		if ebiten.IsKeyPressed(key) {
			pressed = 1
		}
		c.buttons |= (pressed << i)
	}
}

// padSet is the pair of controller ports at $4016/$4017. A write to
// $4016 strobes both ports simultaneously; each port is read and
// shifted independently, since a game can read one controller many
// times per strobe.
type padSet struct {
	pad1, pad2 controller
}

func newPadSet() *padSet {
	return &padSet{
		pad1: controller{keys: pad1Keys},
		pad2: controller{keys: pad2Keys},
	}
}

func (ps *padSet) Strobe(val uint8) {
	ps.pad1.write(val)
	ps.pad2.write(val)
}

func (ps *padSet) ReadPad1() uint8 { return ps.pad1.read() }
func (ps *padSet) ReadPad2() uint8 { return ps.pad2.read() }
