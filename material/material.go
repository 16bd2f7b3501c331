// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package material decodes the TOML material descriptors consumed by
// the scene layer. The core consumes these documents, it never writes
// them.
package material

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// ErrBadColorQuad is returned when a color field does not hold exactly
// four integers.
var ErrBadColorQuad = errors.New("material: color needs exactly 4 components (alpha, red, green, blue)")

// Material is a decoded material descriptor.
//
// The color quads are ordered alpha, red, green, blue with 0-255
// components. Unknown fields in the document are ignored; map fields
// that are absent stay empty.
type Material struct {
	Ambient   []int64 `toml:"Ambient"`
	Diffuse   []int64 `toml:"Diffuse"`
	Specular  []int64 `toml:"Specular"`
	Shininess float64 `toml:"Shininess"`

	DiffuseMap string `toml:"DiffuseMap"`
	NormalMap  string `toml:"NormalMap"`
	HeightMap  string `toml:"HeightMap"`
}

// Decode parses a TOML material descriptor and validates its color
// quads.
func Decode(data []byte) (*Material, error) {
	var m Material
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("material: decode: %w", err)
	}
	for _, f := range []struct {
		name string
		quad []int64
	}{
		{"Ambient", m.Ambient},
		{"Diffuse", m.Diffuse},
		{"Specular", m.Specular},
	} {
		if m1 := len(f.quad); m1 != 0 && m1 != 4 {
			return nil, fmt.Errorf("%w: %s has %d", ErrBadColorQuad, f.name, m1)
		}
	}
	return &m, nil
}

// AmbientColor returns the ambient color, or opaque black if unset.
func (m *Material) AmbientColor() lightning.RGBA { return quadColor(m.Ambient) }

// DiffuseColor returns the diffuse color, or opaque black if unset.
func (m *Material) DiffuseColor() lightning.RGBA { return quadColor(m.Diffuse) }

// SpecularColor returns the specular color, or opaque black if unset.
func (m *Material) SpecularColor() lightning.RGBA { return quadColor(m.Specular) }

// HasDiffuseMap reports whether the descriptor names a diffuse texture.
func (m *Material) HasDiffuseMap() bool { return m.DiffuseMap != "" }

// HasNormalMap reports whether the descriptor names a normal texture.
func (m *Material) HasNormalMap() bool { return m.NormalMap != "" }

// HasHeightMap reports whether the descriptor names a height texture.
func (m *Material) HasHeightMap() bool { return m.HeightMap != "" }

func quadColor(quad []int64) lightning.RGBA {
	if len(quad) != 4 {
		return lightning.Black
	}
	return lightning.RGBA8(
		uint8(clampInt(quad[1])),
		uint8(clampInt(quad[2])),
		uint8(clampInt(quad[3])),
		uint8(clampInt(quad[0])),
	)
}

func clampInt(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
