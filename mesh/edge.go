// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package mesh

import (
	lightning "github.com/zpconn/Dynamic2DLightning"
)

// Edge is a derived view over two consecutive boundary vertices. Edges
// are not stored; PolygonMesh.Edge builds them on demand.
type Edge struct {
	// A and B are the endpoint vertex indices.
	A, B int

	// V1 and V2 are the endpoint positions in model space.
	V1, V2 lightning.Vec2
}

// Normal returns the outward-pointing perpendicular (dy, -dx) of the
// edge direction. It is not normalized; only its sign against a
// direction matters, so silhouette classification skips the square root.
func (e Edge) Normal() lightning.Vec2 {
	d := e.V2.Sub(e.V1)
	return lightning.V2(d.Y, -d.X)
}

// Midpoint returns the model-space midpoint of the edge.
func (e Edge) Midpoint() lightning.Vec2 {
	return e.V1.Add(e.V2).Mul(0.5)
}
