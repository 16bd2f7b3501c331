// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package scene orchestrates the frame: opaque geometry and shadows
// into an offscreen target, the bloom composite, the light marker, and
// the present. The pass ordering is a contract; see RenderFrame.
package scene

import (
	"errors"
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/light"
	"github.com/zpconn/Dynamic2DLightning/mesh"
	"github.com/zpconn/Dynamic2DLightning/postfx"
	"github.com/zpconn/Dynamic2DLightning/render"
	"github.com/zpconn/Dynamic2DLightning/shadow"
)

// Scene construction errors.
var (
	// ErrNilPipeline is returned when a scene is created without a
	// pipeline.
	ErrNilPipeline = errors.New("scene: nil pipeline")

	// ErrNilLight is returned when a scene is created without a light.
	ErrNilLight = errors.New("scene: nil light")
)

// markerRadius is the radius of the light marker dot in world units.
const markerRadius = 6

// Scene owns the per-frame orchestration: the offscreen scene target,
// the shadow casters, the point light, the bloom collaborator and the
// light marker mesh.
type Scene struct {
	pipeline  *render.Pipeline
	offscreen *render.PixmapTarget
	technique *render.Technique

	light   *light.PointLight
	casters []*shadow.Caster
	bloom   postfx.Bloom
	marker  *mesh.PolygonMesh

	// ClearColor fills the offscreen target at the top of each frame.
	ClearColor lightning.RGBA
}

// New creates a scene. The offscreen target matches the pipeline's
// default target dimensions, and the projection is set to a centered,
// y-up orthographic view of it.
func New(p *render.Pipeline, l *light.PointLight, bloom postfx.Bloom) (*Scene, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	if l == nil {
		return nil, ErrNilLight
	}
	w := float32(p.DefaultTarget().Width())
	h := float32(p.DefaultTarget().Height())
	p.SetProjection(lightning.Ortho(-w/2, w/2, -h/2, h/2, -1, 1))
	p.SetView(lightning.Identity())

	marker, err := mesh.NewCircle(16, markerRadius,
		l.Color().WithAlpha(1), l.Color().WithAlpha(0))
	if err != nil {
		return nil, fmt.Errorf("scene: marker mesh: %w", err)
	}

	return &Scene{
		pipeline:   p,
		offscreen:  render.NewPixmapTarget(int(w), int(h)),
		technique:  render.SceneTechnique(),
		light:      l,
		bloom:      bloom,
		marker:     marker,
		ClearColor: lightning.RGBA{R: 0.08, G: 0.08, B: 0.1, A: 1},
	}, nil
}

// Light returns the scene's point light.
func (s *Scene) Light() *light.PointLight { return s.light }

// AddCaster adds a shadow caster to the scene.
func (s *Scene) AddCaster(c *shadow.Caster) {
	s.casters = append(s.casters, c)
}

// Casters returns the scene's casters.
func (s *Scene) Casters() []*shadow.Caster { return s.casters }

// Offscreen returns the offscreen scene target. Exposed for tests and
// debugging captures.
func (s *Scene) Offscreen() *render.PixmapTarget { return s.offscreen }

// RenderFrame runs one frame in the fixed pass order:
//
//  1. opaque scene geometry into the offscreen target (filled pass)
//  2. extruded shadow quads for every caster into the same target
//     (shadow pass; caster order is irrelevant)
//  3. restore the default target
//  4. bloom composite of the offscreen image, un-mirrored onto the
//     default target
//  5. light marker under the current view/projection (marker pass)
//  6. present, exactly once
//
// Per-caster draw failures are logged and the frame continues degraded;
// collaborator and device failures propagate.
func (s *Scene) RenderFrame(pr render.Presenter) error {
	p := s.pipeline
	p.BeginFrame()

	p.SaveRenderTarget()
	p.SetTarget(s.offscreen)
	s.offscreen.Clear(s.ClearColor)

	p.Begin(s.technique)
	p.SetPass(render.PassFilled)
	for _, c := range s.casters {
		if err := c.Render(p); err != nil {
			lightning.Logger().Warn("scene: caster draw failed", "err", err)
		}
	}
	lightPos := s.light.Position()
	for _, c := range s.casters {
		if err := c.RenderShadow(lightPos); err != nil {
			lightning.Logger().Warn("scene: shadow draw failed", "err", err)
		}
	}
	p.End()
	p.RestoreRenderTarget()

	composited, err := s.bloom.Apply(s.offscreen.Pixmap())
	if err != nil {
		return fmt.Errorf("scene: bloom: %w", err)
	}
	frame := p.DefaultTarget().Pixmap()
	frame.Clear(lightning.Black)
	frame.Blit(composited, 0, 0, true) // undo the post-process X mirror

	p.Begin(s.technique)
	p.SetPass(render.PassMarker)
	p.SetWorld(lightning.Translate(lightPos.X, lightPos.Y, 0))
	if err := s.marker.Render(p); err != nil {
		lightning.Logger().Warn("scene: marker draw failed", "err", err)
	}
	p.SetWorld(lightning.Identity())
	p.End()

	return p.Present(pr)
}

// Release frees the scene's device resources.
func (s *Scene) Release() {
	s.marker.Release()
}
