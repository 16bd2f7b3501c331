// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package light

import (
	"errors"
	"testing"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/render"
)

func newSoftwarePipeline(t *testing.T, w, h int) *render.Pipeline {
	t.Helper()
	p, err := render.New(render.NewSoftwareDevice(), render.NewPixmapTarget(w, h))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	p := newSoftwarePipeline(t, 8, 8)

	if _, err := New(nil, lightning.Vec2{}, 1, 1, lightning.White); !errors.Is(err, ErrNilPipeline) {
		t.Errorf("nil pipeline: %v", err)
	}

	tests := []struct {
		name      string
		falloff   float32
		intensity float32
		want      error
	}{
		{"negative intensity", 1, -0.1, ErrIntensity},
		{"intensity above one", 1, 1.5, ErrIntensity},
		{"zero range", 0, 1, ErrRange},
		{"negative range", -5, 1, ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(p, lightning.Vec2{}, tt.falloff, tt.intensity, lightning.White)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_RendersAttenuation(t *testing.T) {
	p := newSoftwarePipeline(t, 32, 32)

	// Identity matrices put world coordinates directly in clip space, so
	// a falloff of 0.8 covers most of the target.
	l, err := New(p, lightning.Vec2{}, 0.8, 1, lightning.White)
	if err != nil {
		t.Fatal(err)
	}
	att := l.Attenuation()
	if att == nil {
		t.Fatal("no attenuation image after construction")
	}

	center := att.GetPixel(16, 16)
	if center.A < 0.8 {
		t.Errorf("center alpha = %v, want near opaque", center.A)
	}
	corner := att.GetPixel(0, 0)
	if corner.A != 0 {
		t.Errorf("corner alpha = %v, want 0", corner.A)
	}

	// Generation must leave the pipeline bound to its default target.
	if p.Target() != p.DefaultTarget() {
		t.Error("attenuation pass left a generator target bound")
	}
}

func TestSettersRejectWithoutMutating(t *testing.T) {
	p := newSoftwarePipeline(t, 8, 8)
	l, err := New(p, lightning.Vec2{}, 10, 0.5, lightning.White)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.SetRange(-1); !errors.Is(err, ErrRange) {
		t.Errorf("SetRange(-1): %v", err)
	}
	if l.Range() != 10 {
		t.Errorf("rejected range mutated the light: %v", l.Range())
	}

	if err := l.SetIntensity(2); !errors.Is(err, ErrIntensity) {
		t.Errorf("SetIntensity(2): %v", err)
	}
	if l.Intensity() != 0.5 {
		t.Errorf("rejected intensity mutated the light: %v", l.Intensity())
	}
}

func TestRegenerationTracksValueChanges(t *testing.T) {
	dev := render.NewRecordingDevice()
	p, err := render.New(dev, render.NewPixmapTarget(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(p, lightning.Vec2{}, 10, 0.5, lightning.White)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 1 {
		t.Fatalf("construction drew %d generator passes, want 1", len(dev.Calls))
	}

	// Re-setting the current values must not regenerate.
	if err := l.SetRange(10); err != nil {
		t.Fatal(err)
	}
	if err := l.SetIntensity(0.5); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 1 {
		t.Errorf("no-op setters drew %d extra passes", len(dev.Calls)-1)
	}

	// Moving the light must not regenerate either.
	l.SetPosition(lightning.V2(100, -50))
	if len(dev.Calls) != 1 {
		t.Errorf("SetPosition drew %d extra passes", len(dev.Calls)-1)
	}

	if err := l.SetRange(20); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 2 {
		t.Errorf("range change drew %d passes total, want 2", len(dev.Calls))
	}
	if err := l.SetIntensity(0.75); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 3 {
		t.Errorf("intensity change drew %d passes total, want 3", len(dev.Calls))
	}
}

func TestMirrorCompensation(t *testing.T) {
	p := newSoftwarePipeline(t, 32, 32)

	// The downstream post-process mirrors horizontally, so the generator
	// pre-flips: a light at +x renders its falloff disc at -x.
	l, err := New(p, lightning.V2(0.5, 0), 0.4, 1, lightning.White)
	if err != nil {
		t.Fatal(err)
	}
	att := l.Attenuation()

	left := att.GetPixel(8, 16)
	right := att.GetPixel(24, 16)
	if left.A <= right.A {
		t.Errorf("disc not pre-mirrored: left alpha %v, right alpha %v", left.A, right.A)
	}
}

func TestContextLossRegeneratesIdentically(t *testing.T) {
	p := newSoftwarePipeline(t, 32, 32)
	l, err := New(p, lightning.V2(0.2, -0.1), 0.6, 0.8, lightning.RGB(1, 0.9, 0.7))
	if err != nil {
		t.Fatal(err)
	}

	before := l.Attenuation().Clone()

	p.NotifyContextLost()
	if l.Attenuation() != nil {
		t.Fatal("attenuation image survived context loss")
	}
	if err := p.NotifyContextRestored(); err != nil {
		t.Fatal(err)
	}

	after := l.Attenuation()
	if after == nil {
		t.Fatal("no attenuation image after restore")
	}
	if !before.Equal(after) {
		t.Error("regenerated attenuation differs from the original")
	}
}

func TestRelease_Unregisters(t *testing.T) {
	p := newSoftwarePipeline(t, 8, 8)
	l, err := New(p, lightning.Vec2{}, 5, 1, lightning.White)
	if err != nil {
		t.Fatal(err)
	}

	l.Release()
	if l.Attenuation() != nil {
		t.Error("attenuation image survived release")
	}

	p.NotifyContextLost()
	if err := p.NotifyContextRestored(); err != nil {
		t.Fatal(err)
	}
	if l.Attenuation() != nil {
		t.Error("released light still regenerated on context restore")
	}
}
