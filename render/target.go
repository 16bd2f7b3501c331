// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// RenderTarget defines where rendering output goes.
//
// Every target in this renderer is CPU-backed; the interface keeps the
// pipeline independent of the backing store and lets tests substitute
// fakes that only record dimensions.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixmap returns the pixel buffer rendering resolves into.
	Pixmap() *lightning.Pixmap
}

// PixmapTarget is a CPU-backed render target wrapping a lightning.Pixmap.
//
// It serves both as the offscreen scene target and as the backing store
// for light attenuation maps.
type PixmapTarget struct {
	pix *lightning.Pixmap
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{pix: lightning.NewPixmap(width, height)}
}

// NewPixmapTargetFrom wraps an existing pixmap as a render target.
// The pixmap is used directly without copying.
func NewPixmapTargetFrom(pix *lightning.Pixmap) *PixmapTarget {
	return &PixmapTarget{pix: pix}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.pix.Width()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.pix.Height()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixmap returns the underlying pixel buffer.
// The returned pixmap shares memory with the target.
func (t *PixmapTarget) Pixmap() *lightning.Pixmap {
	return t.pix
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c lightning.RGBA) {
	t.pix.Clear(c)
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)
