// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// SoftwareDevice is a deviceless CPU rasterizer.
//
// It transforms vertices through the draw call's world/view/projection
// matrices, viewport-maps clip space onto the target, and fills
// triangles with Gouraud-interpolated vertex colors. There is no depth
// buffer: draws composite in submission order, which is exactly the
// overdraw model the shadow pass relies on.
type SoftwareDevice struct{}

// NewSoftwareDevice creates a CPU rasterizer device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns "software".
func (d *SoftwareDevice) Name() string { return "software" }

// softwareBuffer holds copies of the uploaded vertex and index data.
type softwareBuffer struct {
	vertices []lightning.Vertex
	indices  []uint16
	released bool
}

// Release frees the buffer.
func (b *softwareBuffer) Release() {
	b.vertices = nil
	b.indices = nil
	b.released = true
}

// CreateBuffer copies the vertex and index data into a device buffer.
func (d *SoftwareDevice) CreateBuffer(vertices []lightning.Vertex, indices []uint16) (Buffer, error) {
	if len(vertices) == 0 {
		return nil, ErrEmptyBuffer
	}
	b := &softwareBuffer{
		vertices: make([]lightning.Vertex, len(vertices)),
	}
	copy(b.vertices, vertices)
	if indices != nil {
		b.indices = make([]uint16, len(indices))
		copy(b.indices, indices)
	}
	return b, nil
}

// screenVertex is a vertex after projection and viewport mapping.
type screenVertex struct {
	x, y  float32
	color lightning.RGBA
}

// Draw rasterizes one draw call into the call's target.
func (d *SoftwareDevice) Draw(call DrawCall) error {
	buf, ok := call.Buffer.(*softwareBuffer)
	if !ok {
		return fmt.Errorf("render: foreign buffer %T", call.Buffer)
	}
	if buf.released {
		return ErrReleasedBuffer
	}
	if call.Target == nil || call.Target.Pixmap() == nil {
		return ErrNilTarget
	}

	pix := call.Target.Pixmap()
	w := float32(pix.Width())
	h := float32(pix.Height())
	mvp := call.Projection.Mul(call.View).Mul(call.World)

	screen := make([]screenVertex, len(buf.vertices))
	for i, v := range buf.vertices {
		clip := mvp.TransformVec4(v.Pos.X, v.Pos.Y, lightning.VertexZ, 1)
		cw := clip[3]
		if cw == 0 {
			cw = 1
		}
		ndcX := clip[0] / cw
		ndcY := clip[1] / cw
		screen[i] = screenVertex{
			x:     (ndcX + 1) * 0.5 * w,
			y:     (1 - ndcY) * 0.5 * h, // y-up world, y-down pixels
			color: v.Color,
		}
	}

	seq := buf.indices
	if seq == nil {
		seq = make([]uint16, len(buf.vertices))
		for i := range seq {
			seq[i] = uint16(i)
		}
	}

	switch call.Mode {
	case TriangleList:
		for i := 0; i+2 < len(seq); i += 3 {
			fillTriangle(pix, screen[seq[i]], screen[seq[i+1]], screen[seq[i+2]], call.Blend)
		}
	case TriangleStrip:
		for i := 0; i+2 < len(seq); i++ {
			fillTriangle(pix, screen[seq[i]], screen[seq[i+1]], screen[seq[i+2]], call.Blend)
		}
	default:
		return fmt.Errorf("render: unknown primitive mode %d", call.Mode)
	}
	return nil
}

// edgeFn returns twice the signed area of triangle (a, b, p).
func edgeFn(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fillTriangle rasterizes a single triangle with barycentric coverage
// and per-vertex color interpolation. Pixel centers are sampled; no
// antialiasing. Winding does not matter.
func fillTriangle(pix *lightning.Pixmap, v0, v1, v2 screenVertex, blend BlendMode) {
	area := edgeFn(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}

	minX := int(min3(v0.x, v1.x, v2.x))
	maxX := int(max3(v0.x, v1.x, v2.x)) + 1
	minY := int(min3(v0.y, v1.y, v2.y))
	maxY := int(max3(v0.y, v1.y, v2.y)) + 1
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > pix.Width() {
		maxX = pix.Width()
	}
	if maxY > pix.Height() {
		maxY = pix.Height()
	}

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := edgeFn(v1.x, v1.y, v2.x, v2.y, px, py)
			w1 := edgeFn(v2.x, v2.y, v0.x, v0.y, px, py)
			w2 := edgeFn(v0.x, v0.y, v1.x, v1.y, px, py)
			if area > 0 {
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
			} else {
				if w0 > 0 || w1 > 0 || w2 > 0 {
					continue
				}
			}
			b0 := w0 / area
			b1 := w1 / area
			b2 := w2 / area
			c := lightning.RGBA{
				R: v0.color.R*b0 + v1.color.R*b1 + v2.color.R*b2,
				G: v0.color.G*b0 + v1.color.G*b1 + v2.color.G*b2,
				B: v0.color.B*b0 + v1.color.B*b1 + v2.color.B*b2,
				A: v0.color.A*b0 + v1.color.A*b1 + v2.color.A*b2,
			}
			switch blend {
			case BlendReplace:
				pix.SetPixel(x, y, c)
			default:
				pix.BlendPixel(x, y, c)
			}
		}
	}
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)
