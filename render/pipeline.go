// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// Pipeline construction errors.
var (
	// ErrNilDevice is returned when a pipeline is created without a device.
	ErrNilDevice = errors.New("render: nil device")

	// ErrNilDefaultTarget is returned when a pipeline is created without
	// a default target.
	ErrNilDefaultTarget = errors.New("render: nil default target")
)

// Presenter flips a finished frame to the display.
// The windowed demo implements this over its surface; headless tests use
// a fake that records the presented pixels.
type Presenter interface {
	Present(frame *lightning.Pixmap) error
}

// Resource is a device-bound resource that must release and recreate its
// state across a context loss. The pipeline holds a non-owning registry
// of live resources; resources register on creation and remove
// themselves on disposal.
type Resource interface {
	// OnContextLost releases all device-bound state.
	OnContextLost()

	// OnContextRestored recreates device-bound state, or defers the work
	// to the next use and returns nil.
	OnContextRestored() error
}

// Pipeline sequences the passes of a frame.
//
// It is a state machine over the frame:
//
//	Idle -> Begin(technique) -> Active[pass n] -> End -> Idle
//
// The pipeline owns the current world/view/projection matrices, the
// currently bound render target with a single-slot save register, and
// the non-owning registry of device resources. Matrix writes take effect
// immediately; there is no batching, which is what allows the shadow
// pass to reset the world matrix mid-frame without disturbing the view
// and projection.
//
// Pipeline is strictly single-threaded. Call order is a correctness
// contract: SetPass before any draw while active.
type Pipeline struct {
	device        Device
	defaultTarget RenderTarget

	target   RenderTarget
	saved    RenderTarget
	hasSaved bool

	world      lightning.Mat4
	view       lightning.Mat4
	projection lightning.Mat4

	active    bool
	technique *Technique
	passIndex int

	presented bool

	resources map[Resource]struct{}
}

// New creates a pipeline bound to a device and a default (display)
// target. The default target starts out as the bound target.
func New(device Device, defaultTarget RenderTarget) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if defaultTarget == nil {
		return nil, ErrNilDefaultTarget
	}
	return &Pipeline{
		device:        device,
		defaultTarget: defaultTarget,
		target:        defaultTarget,
		world:         lightning.Identity(),
		view:          lightning.Identity(),
		projection:    lightning.Identity(),
		resources:     make(map[Resource]struct{}),
	}, nil
}

// Device returns the device the pipeline draws through.
func (p *Pipeline) Device() Device {
	return p.device
}

// DefaultTarget returns the display target.
func (p *Pipeline) DefaultTarget() RenderTarget {
	return p.defaultTarget
}

// Target returns the currently bound render target.
func (p *Pipeline) Target() RenderTarget {
	return p.target
}

// SetTarget binds a render target. All subsequent draws resolve into it.
func (p *Pipeline) SetTarget(t RenderTarget) {
	p.target = t
}

// SaveRenderTarget stores the currently bound target in the save
// register. The register holds exactly one entry: a second save before a
// restore silently overwrites the first. This single-level behavior is a
// known limitation; nested saves are not supported.
func (p *Pipeline) SaveRenderTarget() {
	if p.hasSaved {
		lightning.Logger().Warn("render: overwriting saved render target")
	}
	p.saved = p.target
	p.hasSaved = true
}

// RestoreRenderTarget rebinds the saved target. Restoring with nothing
// saved is logged and ignored; rendering continues against whatever
// target is currently bound.
func (p *Pipeline) RestoreRenderTarget() {
	if !p.hasSaved {
		lightning.Logger().Warn("render: restore with no saved render target")
		return
	}
	p.target = p.saved
	p.saved = nil
	p.hasSaved = false
}

// World returns the current world matrix.
func (p *Pipeline) World() lightning.Mat4 { return p.world }

// View returns the current view matrix.
func (p *Pipeline) View() lightning.Mat4 { return p.view }

// Projection returns the current projection matrix.
func (p *Pipeline) Projection() lightning.Mat4 { return p.projection }

// SetWorld sets the world matrix. The write takes effect immediately.
func (p *Pipeline) SetWorld(m lightning.Mat4) { p.world = m }

// SetView sets the view matrix. The write takes effect immediately.
func (p *Pipeline) SetView(m lightning.Mat4) { p.view = m }

// SetProjection sets the projection matrix. The write takes effect
// immediately.
func (p *Pipeline) SetProjection(m lightning.Mat4) { p.projection = m }

// Begin enters the active state with the given technique. A nil
// technique selects the raw rasterization path (vertex colors, alpha
// blending, no pass configuration); the attenuation-map generator uses
// this. Beginning while already active is logged and replaces the
// current technique.
func (p *Pipeline) Begin(t *Technique) {
	if p.active {
		lightning.Logger().Warn("render: Begin while active", "technique", techniqueName(t))
	}
	p.active = true
	p.technique = t
	p.passIndex = 0
}

// SetPass selects a shading sub-pass of the active technique. Calling it
// while idle, with no technique, or with an out-of-range index is logged
// and ignored.
func (p *Pipeline) SetPass(n int) {
	if !p.active {
		lightning.Logger().Warn("render: SetPass while idle", "pass", n)
		return
	}
	if p.technique == nil {
		lightning.Logger().Warn("render: SetPass with no technique", "pass", n)
		return
	}
	if n < 0 || n >= len(p.technique.Passes) {
		lightning.Logger().Warn("render: pass index out of range",
			"pass", n, "technique", p.technique.Name)
		return
	}
	p.passIndex = n
}

// Pass returns the index of the selected pass.
func (p *Pipeline) Pass() int { return p.passIndex }

// Active reports whether a technique is open.
func (p *Pipeline) Active() bool { return p.active }

// End closes the technique and returns to the idle state.
func (p *Pipeline) End() {
	if !p.active {
		lightning.Logger().Warn("render: End while idle")
		return
	}
	p.active = false
	p.technique = nil
	p.passIndex = 0
}

// Draw issues a draw of the given buffer with the current matrix state,
// target and pass. Drawing while idle is logged and ignored (the frame
// continues degraded).
func (p *Pipeline) Draw(buf Buffer, mode PrimitiveMode) error {
	if !p.active {
		lightning.Logger().Warn("render: Draw while idle")
		return nil
	}
	blend := BlendAlpha
	if p.technique != nil {
		blend = p.technique.Passes[p.passIndex].Blend
	}
	return p.device.Draw(DrawCall{
		Target:     p.target,
		Buffer:     buf,
		Mode:       mode,
		World:      p.world,
		View:       p.view,
		Projection: p.projection,
		Blend:      blend,
	})
}

// DrawVertices uploads a transient buffer, draws it and releases it.
// The shadow pass uses this for its per-frame extruded quads.
func (p *Pipeline) DrawVertices(vertices []lightning.Vertex, mode PrimitiveMode) error {
	buf, err := p.device.CreateBuffer(vertices, nil)
	if err != nil {
		return fmt.Errorf("render: transient buffer: %w", err)
	}
	defer buf.Release()
	return p.Draw(buf, mode)
}

// BeginFrame resets the per-frame present latch.
func (p *Pipeline) BeginFrame() {
	p.presented = false
}

// Present flips the default target to the display. Present is valid once
// per frame; a second call is logged and ignored until BeginFrame.
func (p *Pipeline) Present(pr Presenter) error {
	if p.presented {
		lightning.Logger().Warn("render: Present called twice in one frame")
		return nil
	}
	p.presented = true
	if pr == nil {
		return nil
	}
	return pr.Present(p.defaultTarget.Pixmap())
}

// RegisterResource adds a resource to the context-loss registry.
// The registry is non-owning: disposal of the resource must be paired
// with UnregisterResource.
func (p *Pipeline) RegisterResource(r Resource) {
	p.resources[r] = struct{}{}
}

// UnregisterResource removes a resource from the registry.
func (p *Pipeline) UnregisterResource(r Resource) {
	delete(p.resources, r)
}

// NotifyContextLost tells every registered resource to release its
// device-bound state.
func (p *Pipeline) NotifyContextLost() {
	for r := range p.resources {
		r.OnContextLost()
	}
}

// NotifyContextRestored tells every registered resource to recreate its
// device-bound state. The first error is returned; remaining resources
// are still notified.
func (p *Pipeline) NotifyContextRestored() error {
	var first error
	for r := range p.resources {
		if err := r.OnContextRestored(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func techniqueName(t *Technique) string {
	if t == nil {
		return "<raw>"
	}
	return t.Name
}
