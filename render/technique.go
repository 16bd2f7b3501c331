// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

// BlendMode selects how rasterized fragments combine with the target.
type BlendMode uint8

const (
	// BlendAlpha composites source-over using the fragment alpha.
	BlendAlpha BlendMode = iota

	// BlendReplace overwrites the destination pixel.
	BlendReplace
)

// Pass is one shading sub-pass of a technique.
type Pass struct {
	Name  string
	Blend BlendMode
}

// Technique is a named, ordered collection of shading passes selected
// with Pipeline.Begin and Pipeline.SetPass.
type Technique struct {
	Name   string
	Passes []Pass
}

// Pass indices of the scene technique.
const (
	// PassFilled draws opaque, vertex-tinted scene geometry.
	PassFilled = 0

	// PassMarker draws the light marker onto the default target.
	PassMarker = 1

	// PassShadow draws extruded shadow quads over the scene target.
	PassShadow = 2
)

// SceneTechnique returns the technique used for the per-frame passes:
// filled geometry, the light marker, and shadow quads.
func SceneTechnique() *Technique {
	return &Technique{
		Name: "scene",
		Passes: []Pass{
			{Name: "filled", Blend: BlendAlpha},
			{Name: "marker", Blend: BlendAlpha},
			{Name: "shadow", Blend: BlendAlpha},
		},
	}
}
