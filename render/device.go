// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	lightning "github.com/zpconn/Dynamic2DLightning"
)

// Common device errors.
var (
	// ErrEmptyBuffer is returned when buffer creation is attempted with
	// no vertex data.
	ErrEmptyBuffer = errors.New("render: empty vertex data")

	// ErrReleasedBuffer is returned when a draw references a buffer that
	// has already been released.
	ErrReleasedBuffer = errors.New("render: buffer already released")

	// ErrNilTarget is returned when a draw has no bound render target.
	ErrNilTarget = errors.New("render: nil render target")
)

// PrimitiveMode selects how a buffer's vertices are assembled into
// triangles.
type PrimitiveMode uint8

const (
	// TriangleList assembles indices (or vertices) in groups of three.
	TriangleList PrimitiveMode = iota

	// TriangleStrip assembles each vertex with its two predecessors.
	TriangleStrip
)

// Buffer is an uploaded vertex/index buffer owned by a Device.
type Buffer interface {
	// Release frees the buffer. The buffer must not be drawn afterwards.
	Release()
}

// DrawCall carries everything a device needs to execute one draw:
// the bound target, the geometry, the matrix state and the blend mode
// of the selected pass.
type DrawCall struct {
	Target     RenderTarget
	Buffer     Buffer
	Mode       PrimitiveMode
	World      lightning.Mat4
	View       lightning.Mat4
	Projection lightning.Mat4
	Blend      BlendMode
}

// Device executes draw calls against render targets.
//
// The production implementation is SoftwareDevice; tests inject a
// RecordingDevice to assert on draw traffic. Devices are not safe for
// concurrent use: the frame loop is strictly single-threaded.
type Device interface {
	// Name returns the device identifier (e.g. "software").
	Name() string

	// CreateBuffer uploads vertex and index data and returns a handle.
	// A nil index slice means non-indexed drawing in vertex order.
	CreateBuffer(vertices []lightning.Vertex, indices []uint16) (Buffer, error)

	// Draw rasterizes one draw call into the call's target.
	Draw(call DrawCall) error
}
