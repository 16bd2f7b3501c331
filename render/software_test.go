// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// fullCover is a triangle that covers all of clip space.
func fullCover(c lightning.RGBA) []lightning.Vertex {
	return []lightning.Vertex{
		{Pos: lightning.V2(-1, -1), Color: c},
		{Pos: lightning.V2(3, -1), Color: c},
		{Pos: lightning.V2(-1, 3), Color: c},
	}
}

func identityCall(t *testing.T, dev *SoftwareDevice, target RenderTarget, verts []lightning.Vertex, mode PrimitiveMode, blend BlendMode) {
	t.Helper()
	buf, err := dev.CreateBuffer(verts, nil)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	defer buf.Release()
	err = dev.Draw(DrawCall{
		Target:     target,
		Buffer:     buf,
		Mode:       mode,
		World:      lightning.Identity(),
		View:       lightning.Identity(),
		Projection: lightning.Identity(),
		Blend:      blend,
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestSoftwareDevice_CreateBuffer(t *testing.T) {
	dev := NewSoftwareDevice()
	if _, err := dev.CreateBuffer(nil, nil); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("empty buffer: %v", err)
	}

	buf, err := dev.CreateBuffer(fullCover(lightning.White), nil)
	if err != nil {
		t.Fatal(err)
	}
	buf.Release()
	err = dev.Draw(DrawCall{Target: NewPixmapTarget(2, 2), Buffer: buf})
	if !errors.Is(err, ErrReleasedBuffer) {
		t.Errorf("released draw: %v", err)
	}
}

func TestSoftwareDevice_FillsTriangle(t *testing.T) {
	dev := NewSoftwareDevice()
	target := NewPixmapTarget(8, 8)
	identityCall(t, dev, target, fullCover(lightning.RGB(1, 0, 0)), TriangleList, BlendAlpha)

	got := target.Pixmap().GetPixel(4, 4)
	if got.R < 0.99 || got.G > 0.01 {
		t.Errorf("center pixel = %+v, want red", got)
	}
}

func TestSoftwareDevice_TriangleStripQuad(t *testing.T) {
	dev := NewSoftwareDevice()
	target := NewPixmapTarget(8, 8)
	c := lightning.RGB(0, 1, 0)
	quad := []lightning.Vertex{
		{Pos: lightning.V2(-1, -1), Color: c},
		{Pos: lightning.V2(1, -1), Color: c},
		{Pos: lightning.V2(-1, 1), Color: c},
		{Pos: lightning.V2(1, 1), Color: c},
	}
	identityCall(t, dev, target, quad, TriangleStrip, BlendAlpha)

	for _, xy := range [][2]int{{1, 1}, {6, 1}, {1, 6}, {6, 6}, {4, 4}} {
		if got := target.Pixmap().GetPixel(xy[0], xy[1]); got.G < 0.99 {
			t.Errorf("pixel %v = %+v, want green", xy, got)
		}
	}
}

func TestSoftwareDevice_BlendModes(t *testing.T) {
	dev := NewSoftwareDevice()

	target := NewPixmapTarget(4, 4)
	target.Clear(lightning.White)
	identityCall(t, dev, target, fullCover(lightning.Black.WithAlpha(0.5)), TriangleList, BlendAlpha)
	if got := target.Pixmap().GetPixel(1, 1); got.R < 0.4 || got.R > 0.6 {
		t.Errorf("alpha blend R = %v, want ~0.5", got.R)
	}

	target.Clear(lightning.White)
	identityCall(t, dev, target, fullCover(lightning.Black.WithAlpha(0.5)), TriangleList, BlendReplace)
	if got := target.Pixmap().GetPixel(1, 1); got.R > 0.01 || got.A > 0.6 {
		t.Errorf("replace blend = %+v, want half-transparent black", got)
	}
}

func TestSoftwareDevice_GouraudInterpolation(t *testing.T) {
	dev := NewSoftwareDevice()
	target := NewPixmapTarget(16, 16)
	verts := []lightning.Vertex{
		{Pos: lightning.V2(-1, -1), Color: lightning.RGB(1, 0, 0)},
		{Pos: lightning.V2(3, -1), Color: lightning.RGB(0, 1, 0)},
		{Pos: lightning.V2(-1, 3), Color: lightning.RGB(0, 0, 1)},
	}
	identityCall(t, dev, target, verts, TriangleList, BlendAlpha)

	got := target.Pixmap().GetPixel(8, 8)
	if got.R == 0 || got.G == 0 || got.B == 0 {
		t.Errorf("center pixel %+v missing an interpolated channel", got)
	}
	if got.R > 0.9 || got.G > 0.9 || got.B > 0.9 {
		t.Errorf("center pixel %+v dominated by one vertex", got)
	}
}

func TestSoftwareDevice_ShadowOverdrawAccumulates(t *testing.T) {
	// Adjacent contour edges extrude quads that overlap near shared
	// vertices. The contract is accumulation, not deduplication: the
	// overlap region simply darkens twice.
	dev := NewSoftwareDevice()
	target := NewPixmapTarget(10, 10)
	target.Clear(lightning.White)

	strip := func(x0, x1 float32) []lightning.Vertex {
		shade := lightning.Black.WithAlpha(0.5)
		return []lightning.Vertex{
			{Pos: lightning.V2(x0, -1), Color: shade},
			{Pos: lightning.V2(x1, -1), Color: shade},
			{Pos: lightning.V2(x0, 1), Color: shade},
			{Pos: lightning.V2(x1, 1), Color: shade},
		}
	}
	identityCall(t, dev, target, strip(-0.8, 0.2), TriangleStrip, BlendAlpha)
	identityCall(t, dev, target, strip(-0.2, 0.8), TriangleStrip, BlendAlpha)

	single := target.Pixmap().GetPixel(2, 5) // covered by the first quad only
	if single.R < 0.4 || single.R > 0.6 {
		t.Errorf("single coverage R = %v, want ~0.5", single.R)
	}
	overlap := target.Pixmap().GetPixel(5, 5) // covered by both
	if overlap.R < 0.15 || overlap.R > 0.35 {
		t.Errorf("overlap R = %v, want ~0.25", overlap.R)
	}
	if overlap.R >= single.R {
		t.Errorf("overdraw did not accumulate: single %v, overlap %v", single.R, overlap.R)
	}
}

func TestSoftwareDevice_ForeignBuffer(t *testing.T) {
	dev := NewSoftwareDevice()
	rec := NewRecordingDevice()
	buf, err := rec.CreateBuffer(fullCover(lightning.White), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Draw(DrawCall{Target: NewPixmapTarget(1, 1), Buffer: buf}); err == nil {
		t.Error("foreign buffer accepted")
	}
}

func TestSoftwareDevice_DegenerateTriangle(t *testing.T) {
	dev := NewSoftwareDevice()
	target := NewPixmapTarget(4, 4)
	p := lightning.V2(0, 0)
	verts := []lightning.Vertex{{Pos: p}, {Pos: p}, {Pos: p}}
	identityCall(t, dev, target, verts, TriangleList, BlendAlpha)

	if !target.Pixmap().Equal(lightning.NewPixmap(4, 4)) {
		t.Error("zero-area triangle produced pixels")
	}
}
