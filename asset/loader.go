// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package asset resolves named asset files into in-memory resources:
// material descriptors and texture images. Loads are cached by name, so
// duplicate loads of the same name yield the same handle.
package asset

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/fs"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp" // register decoder

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/material"
)

// Loader loads materials and textures from a file system by name.
type Loader struct {
	fsys fs.FS

	// MaxTextureSize caps each texture dimension; larger images are
	// downscaled on load. Zero means unlimited.
	MaxTextureSize int

	materials *cache[*material.Material]
	textures  *cache[*lightning.Pixmap]
}

// NewLoader creates a loader rooted at fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:      fsys,
		materials: newCache[*material.Material](0),
		textures:  newCache[*lightning.Pixmap](0),
	}
}

// Material loads and decodes a TOML material descriptor by file name.
// Repeated loads return the cached descriptor.
func (l *Loader) Material(name string) (*material.Material, error) {
	if m, ok := l.materials.get(name); ok {
		return m, nil
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("asset: material %q: %w", name, err)
	}
	m, err := material.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("asset: material %q: %w", name, err)
	}
	l.materials.put(name, m)
	return m, nil
}

// Texture loads an image (png, jpeg or bmp) by file name into a pixmap.
// Repeated loads return the cached pixmap; callers must treat it as
// read-only.
func (l *Loader) Texture(name string) (*lightning.Pixmap, error) {
	if p, ok := l.textures.get(name); ok {
		return p, nil
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("asset: texture %q: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("asset: texture %q: %w", name, err)
	}
	img = l.capSize(img)

	p := lightning.FromImage(img)
	l.textures.put(name, p)
	return p, nil
}

// capSize downscales img so neither dimension exceeds MaxTextureSize.
func (l *Loader) capSize(img image.Image) image.Image {
	maxDim := l.MaxTextureSize
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	lightning.Logger().Debug("asset: texture downscaled",
		"from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", dw, dh))
	return dst
}
