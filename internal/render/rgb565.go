package render

import "image/color"

// RGB565 is the panel's native 16-bit pixel format.
type RGB565 uint16

const (
	rwid = 5
	gwid = 6
	bwid = 5

	boff = 0
	goff = boff + bwid
	roff = goff + gwid

	rmask = 1<<rwid - 1
	gmask = 1<<gwid - 1
	bmask = 1<<bwid - 1
)

// ToRGB565 drops the low bits of each channel.
func ToRGB565(c color.RGBA) RGB565 {
	return RGB565(uint16(c.R>>(8-rwid))<<roff | uint16(c.G>>(8-gwid))<<goff | uint16(c.B>>(8-bwid))<<boff)
}

// RGBA expands back to 8 bits per channel, replicating the high bits into
// the low ones so full scale maps to 0xFF.
func (c RGB565) RGBA() color.RGBA {
	r := uint8((c >> roff) & rmask)
	g := uint8((c >> goff) & gmask)
	b := uint8((c >> boff) & bmask)
	return color.RGBA{
		R: r<<(8-rwid) | r>>(2*rwid-8),
		G: g<<(8-gwid) | g>>(2*gwid-8),
		B: b<<(8-bwid) | b>>(2*bwid-8),
		A: 0xFF,
	}
}
