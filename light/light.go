// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package light implements the point light and its precomputed radial
// attenuation map.
package light

import (
	"errors"
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/mesh"
	"github.com/zpconn/Dynamic2DLightning/render"
)

// Light construction errors.
var (
	// ErrNilPipeline is returned when a light is created without a
	// pipeline.
	ErrNilPipeline = errors.New("light: nil pipeline")

	// ErrIntensity is returned when intensity falls outside [0, 1].
	// Intensity is never silently clamped.
	ErrIntensity = errors.New("light: intensity outside [0, 1]")

	// ErrRange is returned when the falloff range is not positive.
	ErrRange = errors.New("light: range must be positive")
)

// AttenuationSegments is the vertex count of the radial generator
// circle. More segments smooth the falloff rim.
const AttenuationSegments = 48

// PointLight is a single moving point light: a world position, a
// falloff range, an intensity in [0, 1] and a color, plus a derived
// attenuation image sampled by the lighting shader pass.
//
// The attenuation image stays consistent with the current (range,
// intensity) pair: mutating either disposes the old image and renders a
// new one, exactly once per value change. Regeneration is a render
// pass, so nothing else triggers it.
type PointLight struct {
	pipeline *render.Pipeline

	position  lightning.Vec2
	falloff   float32
	intensity float32
	color     lightning.RGBA

	att *render.PixmapTarget
}

// New creates a point light and renders its initial attenuation map.
func New(p *render.Pipeline, position lightning.Vec2, falloff, intensity float32, color lightning.RGBA) (*PointLight, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	if intensity < 0 || intensity > 1 {
		return nil, fmt.Errorf("%w (got %g)", ErrIntensity, intensity)
	}
	if falloff <= 0 {
		return nil, fmt.Errorf("%w (got %g)", ErrRange, falloff)
	}
	l := &PointLight{
		pipeline:  p,
		position:  position,
		falloff:   falloff,
		intensity: intensity,
		color:     color,
	}
	if err := l.regenerate(); err != nil {
		return nil, err
	}
	p.RegisterResource(l)
	return l, nil
}

// Position returns the world position.
func (l *PointLight) Position() lightning.Vec2 { return l.position }

// SetPosition moves the light. Moving does not regenerate the
// attenuation map; the map encodes only the (range, intensity) falloff
// rendered at the position current at generation time.
func (l *PointLight) SetPosition(pos lightning.Vec2) {
	l.position = pos
}

// Range returns the falloff radius.
func (l *PointLight) Range() float32 { return l.falloff }

// SetRange changes the falloff radius and regenerates the attenuation
// map. Setting the current value again is a no-op.
func (l *PointLight) SetRange(r float32) error {
	if r <= 0 {
		return fmt.Errorf("%w (got %g)", ErrRange, r)
	}
	if r == l.falloff {
		return nil
	}
	l.falloff = r
	return l.regenerate()
}

// Intensity returns the light intensity in [0, 1].
func (l *PointLight) Intensity() float32 { return l.intensity }

// SetIntensity changes the intensity and regenerates the attenuation
// map. Values outside [0, 1] are rejected, never clamped. Setting the
// current value again is a no-op.
func (l *PointLight) SetIntensity(v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w (got %g)", ErrIntensity, v)
	}
	if v == l.intensity {
		return nil
	}
	l.intensity = v
	return l.regenerate()
}

// Color returns the light color.
func (l *PointLight) Color() lightning.RGBA { return l.color }

// Attenuation returns the attenuation image for sampling by the
// lighting pass. The pixmap is shared, not copied; callers must treat
// it as read-only.
func (l *PointLight) Attenuation() *lightning.Pixmap {
	if l.att == nil {
		return nil
	}
	return l.att.Pixmap()
}

// regenerate disposes the old attenuation image and renders a fresh
// one: a radial circle whose center alpha encodes the intensity and
// whose rim is fully transparent, giving a premultiplied falloff from
// opaque-by-intensity at the center to transparent at range.
//
// The generator is translated to the light's position with the X axis
// negated, compensating for the horizontal mirror the downstream
// post-process applies.
func (l *PointLight) regenerate() error {
	p := l.pipeline
	w := p.DefaultTarget().Width()
	h := p.DefaultTarget().Height()

	l.att = render.NewPixmapTarget(w, h)

	gen, err := mesh.NewCircle(AttenuationSegments, l.falloff,
		l.color.WithAlpha(l.intensity), l.color.WithAlpha(0))
	if err != nil {
		return fmt.Errorf("light: generator mesh: %w", err)
	}
	defer gen.Release()

	p.SaveRenderTarget()
	p.SetTarget(l.att)
	l.att.Clear(lightning.Transparent)

	prevWorld := p.World()
	p.Begin(nil) // raw rasterization, no technique
	p.SetWorld(lightning.Translate(-l.position.X, l.position.Y, 0))
	renderErr := gen.Render(p)
	p.End()
	p.SetWorld(prevWorld)
	p.RestoreRenderTarget()

	if renderErr != nil {
		return fmt.Errorf("light: attenuation pass: %w", renderErr)
	}
	lightning.Logger().Debug("light: attenuation regenerated",
		"range", l.falloff, "intensity", l.intensity)
	return nil
}

// OnContextLost discards the attenuation image.
func (l *PointLight) OnContextLost() {
	l.att = nil
}

// OnContextRestored re-renders the attenuation image.
func (l *PointLight) OnContextRestored() error {
	return l.regenerate()
}

// Release detaches the light from the pipeline registry and drops the
// attenuation image.
func (l *PointLight) Release() {
	l.pipeline.UnregisterResource(l)
	l.att = nil
}

// Ensure PointLight participates in context-loss broadcast.
var _ render.Resource = (*PointLight)(nil)
