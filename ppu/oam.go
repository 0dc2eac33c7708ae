package ppu

type priority uint8

const (
	FRONT priority = iota
	BACK
)

type oam struct {
	// Y position of top of sprite. Sprite data is delayed by one
	// scanline; you must subtract 1 from the sprite's Y
	// coordinate before writing it here. Hide a sprite by moving
	// it down offscreen, by writing any values between #$EF-#$FF
	// here. Sprites are never displayed on the first line of the
	// picture, and it is impossible to place a sprite partially
	// off the top of the screen.
	y uint8
	// For 8x8 sprites, this is the tile number of this sprite
	// within the pattern table selected in bit 3 of PPUCTRL
	// ($2000). For 8x16 sprites (bit 5 of PPUCTRL set), the PPU
	// ignores the pattern table selection and selects a pattern
	// table from bit 0 of this number.
	tileId uint8
	// See above

	palette      uint8
	renderP      priority
	flipV, flipH bool

	// X position of left side of sprite. X-scroll values of
	// $F9-FF results in parts of the sprite to be past the right
	// edge of the screen, thus invisible. It is not possible to
	// have a sprite partially visible on the left edge. Instead,
	// left-clipping through PPUMASK ($2001) can be used to
	// simulate this effect.
	x uint8
}

func OAMFromBytes(in []uint8) oam {
	// 76543210 -> in[2]
	// ||||||||
	// ||||||++- Palette (4 to 7) of sprite
	// |||+++--- Unimplemented (read 0)
	// ||+------ Priority (0: in front of background; 1: behind background)
	// |+------- Flip sprite horizontally
	// +-------- Flip sprite vertically
	return oam{
		y:       in[0],
		tileId:  in[1],
		palette: (in[2] & 0x03),
		renderP: priority((in[2] & 0x20) >> 5),
		flipH:   ((in[2] & 0x40) >> 6) == 1,
		flipV:   ((in[2] & 0x80) >> 7) == 1,
		x:       in[3],
	}
}

func (o oam) attributes() uint8 {
	a := o.palette | uint8(o.renderP<<5)
	if o.flipH {
		a |= (1 << 6)
	}
	if o.flipV {
		a |= (1 << 7)
	}

	return a
}

const maxSpritesPerScanline = 8

// spriteEvaluator holds the secondary OAM built for one scanline and
// the eight render slots fed from it. Real hardware evaluates this
// over cycles 65-256 of the preceding scanline; we do the equivalent
// work in one pass at dot 257, just after that window, which produces the
// same secondary OAM contents without modeling the cycle-by-cycle
// comparator latches.
type spriteEvaluator struct {
	secondary    [maxSpritesPerScanline]oam
	index        [maxSpritesPerScanline]uint8 // original OAM index, for sprite-0 tracking
	count        int
	sprite0InBuf bool
	overflow     bool
}

// evaluate scans primary OAM (64 sprites, 256 bytes) for the ones
// visible on scanline sl, honoring spriteHeight (8 or 16). It
// reproduces the PPU's sprite-overflow hardware bug: once eight
// sprites are found, the scan continues but advances its read pointer
// by five bytes instead of four on each miss, so later comparisons land
// on the wrong offset within an OAM entry and produce false
// overflow/no-overflow results instead of a clean ninth-sprite check.
func (se *spriteEvaluator) evaluate(primary *[OAM_SIZE]uint8, sl int16, spriteHeight uint8) {
	*se = spriteEvaluator{}

	n := 0
	m := 0 // byte offset within an entry; only moves once secondary OAM is full
	for i := 0; i < 64; i++ {
		y := int16(primary[i*4+m])
		inRange := sl >= y && sl < y+int16(spriteHeight)
		if n < maxSpritesPerScanline {
			if !inRange {
				continue
			}
			se.secondary[n] = OAMFromBytes(primary[i*4 : i*4+4])
			se.index[n] = uint8(i)
			if i == 0 {
				se.sprite0InBuf = true
			}
			n++
			continue
		}

		// Secondary OAM is full: the byte at offset m of entry i is
		// compared as if it were a Y coordinate. A hit sets overflow
		// and ends the scan; a miss moves to the next entry and also
		// to the next byte within it, so tile, attribute and X bytes
		// get compared too.
		if inRange {
			se.overflow = true
			break
		}
		m = (m + 1) & 3
	}
	se.count = n
}

