// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package shadow implements shadow casters: convex polygon meshes
// positioned in world space that extrude silhouette edges away from a
// point light into shadow-covering quads.
package shadow

import (
	"errors"
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/mesh"
	"github.com/zpconn/Dynamic2DLightning/render"
)

// Caster construction errors.
var (
	// ErrNilMesh is returned when a caster is created without a mesh.
	ErrNilMesh = errors.New("shadow: nil mesh")

	// ErrNilPipeline is returned when a caster is created without a
	// pipeline.
	ErrNilPipeline = errors.New("shadow: nil pipeline")
)

// Shadow tunables. Both values were carried over from the original
// renderer unverified; treat them as knobs, not derived quantities.
const (
	// DefaultExtrusionScale multiplies the light-to-vertex ray when
	// projecting far vertices. It only needs to be large enough that
	// every quad reaches past the visible frame.
	DefaultExtrusionScale float32 = 120

	// DefaultOpacity is the alpha of shadow quads.
	DefaultOpacity float32 = 1
)

// DefaultBias is the constant offset added to every shadow vertex. It
// nudges the quads off the caster geometry (avoiding self-intersection
// artifacts with the opaque layer) and aligns them in the shadow
// texture's UV space.
var DefaultBias = lightning.V2(0.5, 0.5)

// Caster positions a polygon mesh in world space and computes its
// shadow for a given light position. The mesh is shared with the
// caller, not copied.
type Caster struct {
	// ExtrusionScale, Bias and Opacity tune the shadow geometry; they
	// start at the package defaults.
	ExtrusionScale float32
	Bias           lightning.Vec2
	Opacity        float32

	m        *mesh.PolygonMesh
	pipeline *render.Pipeline

	position lightning.Vec2
	rotation float32
	scale    float32
	world    lightning.Mat4
}

// New creates a caster over a mesh. The world transform starts as the
// identity (origin, no rotation, unit scale).
func New(m *mesh.PolygonMesh, p *render.Pipeline) (*Caster, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	if p == nil {
		return nil, ErrNilPipeline
	}
	c := &Caster{
		ExtrusionScale: DefaultExtrusionScale,
		Bias:           DefaultBias,
		Opacity:        DefaultOpacity,
		m:              m,
		pipeline:       p,
		scale:          1,
	}
	c.updateWorld()
	return c, nil
}

// Mesh returns the caster's mesh.
func (c *Caster) Mesh() *mesh.PolygonMesh { return c.m }

// Position returns the world position.
func (c *Caster) Position() lightning.Vec2 { return c.position }

// Rotation returns the rotation in radians.
func (c *Caster) Rotation() float32 { return c.rotation }

// Scale returns the uniform scale factor.
func (c *Caster) Scale() float32 { return c.scale }

// World returns the current world matrix.
func (c *Caster) World() lightning.Mat4 { return c.world }

// SetPosition moves the caster and recomputes the world matrix.
func (c *Caster) SetPosition(pos lightning.Vec2) {
	c.position = pos
	c.updateWorld()
}

// SetRotation rotates the caster (radians) and recomputes the world
// matrix.
func (c *Caster) SetRotation(radians float32) {
	c.rotation = radians
	c.updateWorld()
}

// SetScale applies a uniform scale and recomputes the world matrix.
func (c *Caster) SetScale(s float32) {
	c.scale = s
	c.updateWorld()
}

// updateWorld eagerly recomposes the world matrix. The order is fixed:
// scale, then rotate, then translate.
func (c *Caster) updateWorld() {
	c.world = lightning.Translate(c.position.X, c.position.Y, 0).
		Mul(lightning.RotateZ(c.rotation)).
		Mul(lightning.Scale(c.scale))
}

// Render binds the caster's world matrix, selects the filled pass and
// draws the mesh.
func (c *Caster) Render(p *render.Pipeline) error {
	p.SetWorld(c.world)
	p.SetPass(render.PassFilled)
	return c.m.Render(p)
}

// RenderShadow computes the caster's silhouette against the given
// world-space light position and draws one extruded quad per contour
// edge into the currently bound render target.
//
// Degenerate configurations (no contour edges, or every edge contour;
// the light inside the hull or a collapsed transform) draw nothing and
// return nil. Overlapping quads from adjacent contour edges are not
// deduplicated; the darkening simply accumulates.
//
// The quads are built entirely in world space, so the pipeline's world
// matrix is reset to the identity for the draw and restored afterwards;
// view and projection stay at their current scene values.
func (c *Caster) RenderShadow(lightWorld lightning.Vec2) error {
	inv, ok := c.world.Inverse()
	if !ok {
		lightning.Logger().Debug("shadow: singular world matrix, no shadow")
		return nil
	}
	lightModel := inv.TransformPoint(lightWorld)

	contour := ContourEdges(c.m, lightModel)
	if len(contour) == 0 || len(contour) == c.m.EdgeCount() {
		return nil
	}

	p := c.pipeline
	prevWorld := p.World()
	p.SetPass(render.PassShadow)
	p.SetWorld(lightning.Identity())
	defer p.SetWorld(prevWorld)

	shade := lightning.Black.WithAlpha(c.Opacity)
	for _, ei := range contour {
		e, err := c.m.Edge(ei)
		if err != nil {
			return fmt.Errorf("shadow: contour edge %d: %w", ei, err)
		}
		near1 := c.world.TransformPoint(e.V1)
		near2 := c.world.TransformPoint(e.V2)
		far1 := near1.Add(near1.Sub(lightWorld).Mul(c.ExtrusionScale))
		far2 := near2.Add(near2.Sub(lightWorld).Mul(c.ExtrusionScale))

		quad := []lightning.Vertex{
			{Pos: near1.Add(c.Bias), Color: shade},
			{Pos: near2.Add(c.Bias), Color: shade},
			{Pos: far1.Add(c.Bias), Color: shade},
			{Pos: far2.Add(c.Bias), Color: shade},
		}
		if err := p.DrawVertices(quad, render.TriangleStrip); err != nil {
			return fmt.Errorf("shadow: quad for edge %d: %w", ei, err)
		}
	}
	return nil
}

// ContourEdges classifies every boundary edge of m against a light
// position given in the mesh's model space, returning the indices of
// the contour (silhouette) edges: those whose outward normal faces away
// from the light. An edge exactly perpendicular to the light direction
// (dot == 0) counts as contour by convention.
func ContourEdges(m *mesh.PolygonMesh, lightModel lightning.Vec2) []int {
	var contour []int
	for i := 0; i < m.EdgeCount(); i++ {
		e, err := m.Edge(i)
		if err != nil {
			break
		}
		if e.Midpoint().Sub(lightModel).Dot(e.Normal()) >= 0 {
			contour = append(contour, i)
		}
	}
	return contour
}
