package nds

import "fmt"

// RGB555 channel layout (BGR555): red in bits 0-4, green in 5-9, blue in
// 10-14. Bit 15 is unused by colour data.
const (
	channelMask = 0x1F
	channelMax  = 31
	greenShift  = 5
	blueShift   = 10
	RGB555Size  = 2
)

// RGB555 is a colour with three 5-bit channels, as used by the DS 2D and 3D
// engines. Each channel is in [0, 31].
type RGB555 struct {
	R, G, B uint8
}

// DecodeRGB555 unpacks a BGR555 colour. Bit 15 is ignored.
func DecodeRGB555(raw uint16) RGB555 {
	return RGB555{
		R: uint8(raw & channelMask),
		G: uint8((raw >> greenShift) & channelMask),
		B: uint8((raw >> blueShift) & channelMask),
	}
}

// NewRGB555 builds a colour from 5-bit channels.
func NewRGB555(r, g, b uint8) (RGB555, error) {
	if r > channelMax || g > channelMax || b > channelMax {
		return RGB555{}, fmt.Errorf("%w: colour (%d, %d, %d) exceeds 5-bit channels", ErrOutOfRange, r, g, b)
	}
	return RGB555{R: r, G: g, B: b}, nil
}

// Bits packs the colour back into BGR555.
func (c RGB555) Bits() uint16 {
	return uint16(c.R&channelMask) |
		uint16(c.G&channelMask)<<greenShift |
		uint16(c.B&channelMask)<<blueShift
}

// To8 expands the channels to 8 bits by bit replication, so 31 maps to 255
// and 0 maps to 0.
func (c RGB555) To8() (r, g, b uint8) {
	return expand5(c.R), expand5(c.G), expand5(c.B)
}

// Normalized returns the channels scaled to [0, 1].
func (c RGB555) Normalized() (r, g, b float32) {
	return float32(c.R) / channelMax, float32(c.G) / channelMax, float32(c.B) / channelMax
}

// RGBA implements image/color.Color. Alpha is always opaque.
func (c RGB555) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.To8()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	a = 0xFFFF
	return
}

func (c RGB555) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func expand5(v uint8) uint8 {
	v &= channelMask
	return v<<3 | v>>2
}
