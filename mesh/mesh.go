// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package mesh provides fixed-topology polygon meshes with per-edge
// queries. Vertex and triangle counts are set at construction; callers
// replace values in place but never grow or shrink a mesh.
package mesh

import (
	"errors"
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/render"
)

// Mesh errors.
var (
	// ErrOutOfRange is returned by every indexed accessor when the index
	// exceeds the capacity fixed at construction.
	ErrOutOfRange = errors.New("mesh: index out of range")

	// ErrTooFewVertices is returned when a polygon is created with fewer
	// than three vertices.
	ErrTooFewVertices = errors.New("mesh: polygon needs at least 3 vertices")
)

// Renderable is anything that can draw itself through a pipeline.
// Both PolygonMesh and shadow.Caster satisfy it.
type Renderable interface {
	Render(p *render.Pipeline) error
}

// PolygonMesh is an immutable-topology vertex/triangle container.
//
// The first EdgeCount vertices form a closed boundary ring; edge i runs
// from vertex i to vertex (i+1) mod EdgeCount. Winding is
// caller-determined and must be consistent, since edge normals take
// their sign from it. Builders may append interior vertices after the
// ring (the circle builder's gradient center); edges never cover those.
//
// The triangulation exists only for filled rendering and is irrelevant
// to shadow computation.
type PolygonMesh struct {
	vertices []lightning.Vertex
	indices  []uint16
	boundary int
	mode     render.PrimitiveMode

	dirty    bool
	buf      render.Buffer
	pipeline *render.Pipeline
}

// New creates a mesh with fixed vertex and triangle capacity. All
// vertices form the boundary ring. In TriangleStrip mode the strip
// order is the vertex order and triangleCount is ignored.
func New(vertexCount, triangleCount int, mode render.PrimitiveMode) (*PolygonMesh, error) {
	return newWithBoundary(vertexCount, triangleCount, mode, vertexCount)
}

func newWithBoundary(vertexCount, triangleCount int, mode render.PrimitiveMode, boundary int) (*PolygonMesh, error) {
	if boundary < 3 {
		return nil, fmt.Errorf("%w (got %d)", ErrTooFewVertices, boundary)
	}
	m := &PolygonMesh{
		vertices: make([]lightning.Vertex, vertexCount),
		boundary: boundary,
		mode:     mode,
		dirty:    true,
	}
	if mode == render.TriangleList {
		m.indices = make([]uint16, 3*triangleCount)
	}
	return m, nil
}

// VertexCount returns the fixed number of vertices.
func (m *PolygonMesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the fixed number of triangles.
func (m *PolygonMesh) TriangleCount() int {
	if m.mode == render.TriangleStrip {
		return len(m.vertices) - 2
	}
	return len(m.indices) / 3
}

// EdgeCount returns the number of boundary edges, which equals the
// number of boundary vertices.
func (m *PolygonMesh) EdgeCount() int {
	return m.boundary
}

// Mode returns the primitive assembly mode.
func (m *PolygonMesh) Mode() render.PrimitiveMode {
	return m.mode
}

// SetVertex replaces vertex i and marks the mesh dirty for re-upload.
func (m *PolygonMesh) SetVertex(i int, pos lightning.Vec2, c lightning.RGBA, uv lightning.Vec2) error {
	if i < 0 || i >= len(m.vertices) {
		return fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, i, len(m.vertices))
	}
	m.vertices[i] = lightning.Vertex{Pos: pos, Color: c, UV: uv}
	m.dirty = true
	return nil
}

// SetTriangle replaces triangle i of a TriangleList mesh and marks the
// mesh dirty. The triangle's vertex indices a, b and c are not
// bounds-checked against the vertex count; that is the caller's
// responsibility.
func (m *PolygonMesh) SetTriangle(i int, a, b, c uint16) error {
	if i < 0 || 3*i+2 >= len(m.indices) {
		return fmt.Errorf("%w: triangle %d of %d", ErrOutOfRange, i, len(m.indices)/3)
	}
	m.indices[3*i] = a
	m.indices[3*i+1] = b
	m.indices[3*i+2] = c
	m.dirty = true
	return nil
}

// Vertex returns vertex i.
func (m *PolygonMesh) Vertex(i int) (lightning.Vertex, error) {
	if i < 0 || i >= len(m.vertices) {
		return lightning.Vertex{}, fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, i, len(m.vertices))
	}
	return m.vertices[i], nil
}

// VertexPosition returns the model-space position of vertex i.
func (m *PolygonMesh) VertexPosition(i int) (lightning.Vec2, error) {
	v, err := m.Vertex(i)
	if err != nil {
		return lightning.Vec2{}, err
	}
	return v.Pos, nil
}

// Edge returns the boundary edge between vertex i and vertex
// (i+1) mod EdgeCount.
func (m *PolygonMesh) Edge(i int) (Edge, error) {
	if i < 0 || i >= m.boundary {
		return Edge{}, fmt.Errorf("%w: edge %d of %d", ErrOutOfRange, i, m.boundary)
	}
	j := (i + 1) % m.boundary
	return Edge{
		A:  i,
		B:  j,
		V1: m.vertices[i].Pos,
		V2: m.vertices[j].Pos,
	}, nil
}

// Render uploads the vertex and index data if it changed since the last
// render, then issues the draw call through the pipeline.
//
// The first Render attaches the mesh to the pipeline's context-loss
// registry; Release detaches it.
func (m *PolygonMesh) Render(p *render.Pipeline) error {
	if m.pipeline == nil {
		m.pipeline = p
		p.RegisterResource(m)
	}
	if m.buf == nil || m.dirty {
		if m.buf != nil {
			m.buf.Release()
		}
		buf, err := p.Device().CreateBuffer(m.vertices, m.indices)
		if err != nil {
			return fmt.Errorf("mesh: upload: %w", err)
		}
		m.buf = buf
		m.dirty = false
		lightning.Logger().Debug("mesh: uploaded",
			"vertices", len(m.vertices), "indices", len(m.indices))
	}
	return p.Draw(m.buf, m.mode)
}

// OnContextLost releases the device buffer. The mesh re-uploads on its
// next render.
func (m *PolygonMesh) OnContextLost() {
	if m.buf != nil {
		m.buf.Release()
		m.buf = nil
	}
	m.dirty = true
}

// OnContextRestored defers re-upload to the next render.
func (m *PolygonMesh) OnContextRestored() error {
	return nil
}

// Release frees the device buffer and detaches the mesh from the
// pipeline registry.
func (m *PolygonMesh) Release() {
	if m.buf != nil {
		m.buf.Release()
		m.buf = nil
	}
	if m.pipeline != nil {
		m.pipeline.UnregisterResource(m)
		m.pipeline = nil
	}
}

// Ensure PolygonMesh participates in context-loss broadcast.
var _ render.Resource = (*PolygonMesh)(nil)
