// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package mesh

import (
	"github.com/chewxy/math32"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/render"
)

// NewQuad builds a centered rectangle: four boundary vertices wound
// counter-clockwise (y-up) and two triangles. uvTiling stretches the
// texture coordinates so a texture repeats that many times across the
// quad.
func NewQuad(width, height, uvTiling float32, c lightning.RGBA) *PolygonMesh {
	m, _ := New(4, 2, render.TriangleList)
	hw := width / 2
	hh := height / 2

	_ = m.SetVertex(0, lightning.V2(-hw, -hh), c, lightning.V2(0, uvTiling))
	_ = m.SetVertex(1, lightning.V2(hw, -hh), c, lightning.V2(uvTiling, uvTiling))
	_ = m.SetVertex(2, lightning.V2(hw, hh), c, lightning.V2(uvTiling, 0))
	_ = m.SetVertex(3, lightning.V2(-hw, hh), c, lightning.V2(0, 0))

	_ = m.SetTriangle(0, 0, 1, 2)
	_ = m.SetTriangle(1, 0, 2, 3)
	return m
}

// NewCircle builds a centered regular polygon approximating a circle:
// n boundary vertices wound counter-clockwise plus one interior center
// vertex, fanned into n triangles. Distinct center and rim colors give
// a radial gradient, which is how the light's attenuation map and the
// light marker are generated.
func NewCircle(n int, radius float32, center, rim lightning.RGBA) (*PolygonMesh, error) {
	m, err := newWithBoundary(n+1, n, render.TriangleList, n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		cos := math32.Cos(angle)
		sin := math32.Sin(angle)
		pos := lightning.V2(radius*cos, radius*sin)
		uv := lightning.V2((cos+1)/2, (1-sin)/2)
		_ = m.SetVertex(i, pos, rim, uv)
	}
	// Interior gradient center, appended after the boundary ring.
	_ = m.SetVertex(n, lightning.V2(0, 0), center, lightning.V2(0.5, 0.5))

	for i := 0; i < n; i++ {
		_ = m.SetTriangle(i, uint16(n), uint16(i), uint16((i+1)%n))
	}
	return m, nil
}
