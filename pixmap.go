package lightning

import (
	"bytes"
	"image"
	"image/png"
	"os"
)

// Pixmap represents a rectangular RGBA8 pixel buffer.
// It is the backing store for every render target in lightning.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int {
	return p.width * 4
}

// SetPixel overwrites the color of a single pixel.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// BlendPixel composites c over the existing pixel (source-over).
func (p *Pixmap) BlendPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	if c.A <= 0 {
		return
	}
	if c.A >= 1 {
		p.SetPixel(x, y, c)
		return
	}
	i := (y*p.width + x) * 4
	dr := float32(p.data[i+0]) / 255
	dg := float32(p.data[i+1]) / 255
	db := float32(p.data[i+2]) / 255
	da := float32(p.data[i+3]) / 255

	a := c.A
	outA := a + da*(1-a)
	if outA == 0 {
		p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = 0, 0, 0, 0
		return
	}
	outR := (c.R*a + dr*da*(1-a)) / outA
	outG := (c.G*a + dg*da*(1-a)) / outA
	outB := (c.B*a + db*da*(1-a)) / outA

	p.data[i+0] = uint8(clamp255(outR * 255))
	p.data[i+1] = uint8(clamp255(outG * 255))
	p.data[i+2] = uint8(clamp255(outB * 255))
	p.data[i+3] = uint8(clamp255(outA * 255))
}

// GetPixel returns the color of a single pixel.
// Out-of-bounds coordinates return Transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float32(p.data[i+0]) / 255,
		G: float32(p.data[i+1]) / 255,
		B: float32(p.data[i+2]) / 255,
		A: float32(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	q := NewPixmap(p.width, p.height)
	copy(q.data, p.data)
	return q
}

// Equal reports whether two pixmaps have identical dimensions and
// identical pixel bytes.
func (p *Pixmap) Equal(q *Pixmap) bool {
	if q == nil || p.width != q.width || p.height != q.height {
		return false
	}
	return bytes.Equal(p.data, q.data)
}

// Blit source-over composites src onto p with its top-left corner at
// (dx, dy). If mirrorX is true the source is flipped horizontally, which
// the frame compositor uses to undo the post-process X mirror.
func (p *Pixmap) Blit(src *Pixmap, dx, dy int, mirrorX bool) {
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			rx := sx
			if mirrorX {
				rx = src.width - 1 - sx
			}
			p.BlendPixel(dx+sx, dy+sy, src.GetPixel(rx, sy))
		}
	}
}

// ToImage converts the pixmap to an image.NRGBA. The pixmap stores
// straight alpha, so NRGBA is the format whose bytes match one-to-one;
// image.RGBA would mislabel translucent pixels as premultiplied.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	p := NewPixmap(bounds.Dx(), bounds.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == p.Stride() {
		copy(p.data, nrgba.Pix)
		return p
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			p.SetPixel(x, y, FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return p
}

// SavePNG writes the pixmap to a PNG file. Useful for debugging frames.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, p.ToImage())
}
