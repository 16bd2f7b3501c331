// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package render

import (
	lightning "github.com/zpconn/Dynamic2DLightning"
)

// RecordingDevice records draw traffic instead of rasterizing.
//
// It lets the geometry layers (meshes, casters, lights) be exercised
// without any pixels: tests inspect the recorded calls to assert on
// matrix state, pass blending, target binding and vertex data. Buffer
// contents are retained so recorded calls can be replayed or inspected
// after the fact.
type RecordingDevice struct {
	// Calls holds one entry per Draw in submission order.
	Calls []RecordedCall

	// BufferCount is the number of buffers created so far.
	BufferCount int

	// FailCreate, when set, makes CreateBuffer return this error.
	// Used to exercise resource-creation failure paths.
	FailCreate error
}

// RecordedCall is a Draw call with the buffer contents resolved.
type RecordedCall struct {
	DrawCall
	Vertices []lightning.Vertex
	Indices  []uint16
}

// NewRecordingDevice creates an empty recording device.
func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{}
}

// Name returns "recording".
func (d *RecordingDevice) Name() string { return "recording" }

// recordedBuffer retains uploaded data for later inspection.
type recordedBuffer struct {
	vertices []lightning.Vertex
	indices  []uint16
	released bool
}

// Release marks the buffer as released. Data is kept so recorded calls
// remain inspectable.
func (b *recordedBuffer) Released() bool { return b.released }

func (b *recordedBuffer) Release() { b.released = true }

// CreateBuffer records a buffer creation.
func (d *RecordingDevice) CreateBuffer(vertices []lightning.Vertex, indices []uint16) (Buffer, error) {
	if d.FailCreate != nil {
		return nil, d.FailCreate
	}
	if len(vertices) == 0 {
		return nil, ErrEmptyBuffer
	}
	d.BufferCount++
	b := &recordedBuffer{
		vertices: make([]lightning.Vertex, len(vertices)),
	}
	copy(b.vertices, vertices)
	if indices != nil {
		b.indices = make([]uint16, len(indices))
		copy(b.indices, indices)
	}
	return b, nil
}

// Draw records the call.
func (d *RecordingDevice) Draw(call DrawCall) error {
	rc := RecordedCall{DrawCall: call}
	if b, ok := call.Buffer.(*recordedBuffer); ok {
		if b.released {
			return ErrReleasedBuffer
		}
		rc.Vertices = b.vertices
		rc.Indices = b.indices
	}
	d.Calls = append(d.Calls, rc)
	return nil
}

// Reset discards all recorded calls and counters.
func (d *RecordingDevice) Reset() {
	d.Calls = nil
	d.BufferCount = 0
}

// DrawsTo counts recorded calls bound to the given target.
func (d *RecordingDevice) DrawsTo(t RenderTarget) int {
	n := 0
	for _, c := range d.Calls {
		if c.Target == t {
			n++
		}
	}
	return n
}

// Ensure RecordingDevice implements Device.
var _ Device = (*RecordingDevice)(nil)
