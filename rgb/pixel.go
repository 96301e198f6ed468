package rgb

import "image/color"

// NumChannels is the number of color channels carried by a Pixel. Alpha is
// not a channel: every produced Pixel is fully opaque.
const NumChannels = 3

const opaque Pixel = 0xFF000000

// Pixel is a packed 0xAARRGGBB color.
type Pixel uint32

// RGB holds the three 8-bit channels of a Pixel.
type RGB struct {
	R, G, B uint8
}

var Model = color.ModelFunc(pixelConvert)

func pixelConvert(c color.Color) color.Color {
	if p, ok := c.(Pixel); ok {
		return p
	}

	// drop alpha, opacity is assumed throughout
	r, g, b, _ := c.RGBA()
	return Pack(RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
}

func Pack(c RGB) Pixel {
	return opaque | Pixel(c.R)<<16 | Pixel(c.G)<<8 | Pixel(c.B)
}

func FromChannels(ch [NumChannels]uint8) Pixel {
	return Pack(RGB{R: ch[0], G: ch[1], B: ch[2]})
}

func (p Pixel) R() uint8 { return uint8(p >> 16) }
func (p Pixel) G() uint8 { return uint8(p >> 8) }
func (p Pixel) B() uint8 { return uint8(p) }

func (p Pixel) RGB() RGB {
	return RGB{R: p.R(), G: p.G(), B: p.B()}
}

// Channel returns channel i, 0 for red, 1 for green and 2 for blue.
func (p Pixel) Channel(i int) uint8 {
	return uint8(p >> (8 * (2 - i)))
}

func (p Pixel) Channels() [NumChannels]uint8 {
	return [NumChannels]uint8{p.R(), p.G(), p.B()}
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (uint32, uint32, uint32, uint32) {
	r, g, b := uint32(p.R()), uint32(p.G()), uint32(p.B())
	return r | r<<8, g | g<<8, b | b<<8, 0xFFFF
}

func (c RGB) Pixel() Pixel {
	return Pack(c)
}

// DistSq is the squared Euclidean distance between two colors.
func (c RGB) DistSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}
