// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

package shadow

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	lightning "github.com/zpconn/Dynamic2DLightning"
	"github.com/zpconn/Dynamic2DLightning/mesh"
	"github.com/zpconn/Dynamic2DLightning/render"
)

func newTestPipeline(t *testing.T) (*render.Pipeline, *render.RecordingDevice) {
	t.Helper()
	dev := render.NewRecordingDevice()
	p, err := render.New(dev, render.NewPixmapTarget(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	return p, dev
}

func newSquareCaster(t *testing.T, p *render.Pipeline) *Caster {
	t.Helper()
	c, err := New(mesh.NewQuad(100, 100, 1, lightning.White), p)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	p, _ := newTestPipeline(t)
	m := mesh.NewQuad(10, 10, 1, lightning.White)

	if _, err := New(nil, p); !errors.Is(err, ErrNilMesh) {
		t.Errorf("nil mesh: %v", err)
	}
	if _, err := New(m, nil); !errors.Is(err, ErrNilPipeline) {
		t.Errorf("nil pipeline: %v", err)
	}
}

func TestContourEdges_SquareWithLightAbove(t *testing.T) {
	m := mesh.NewQuad(100, 100, 1, lightning.White)

	// Light far above the square: the bottom edge faces directly away
	// and both side edges face half away. Only the top edge faces the
	// light.
	contour := ContourEdges(m, lightning.V2(0, 500))
	want := []int{0, 1, 3}
	if len(contour) != len(want) {
		t.Fatalf("contour = %v, want %v", contour, want)
	}
	for i := range want {
		if contour[i] != want[i] {
			t.Fatalf("contour = %v, want %v", contour, want)
		}
	}
}

func TestContourEdges_InteriorLight(t *testing.T) {
	m := mesh.NewQuad(100, 100, 1, lightning.White)

	// From the centroid every outward normal faces away, so all edges
	// classify as contour.
	contour := ContourEdges(m, lightning.V2(0, 0))
	if len(contour) != m.EdgeCount() {
		t.Errorf("centroid light: %d contour edges, want %d", len(contour), m.EdgeCount())
	}
}

func TestContourEdges_ExteriorLightBounds(t *testing.T) {
	// For any convex polygon and any exterior light, at least one edge
	// faces the light and at least one faces away.
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := 3 + rng.Intn(8)
		radius := 10 + 90*rng.Float32()
		m, err := mesh.NewCircle(n, radius, lightning.White, lightning.White)
		if err != nil {
			t.Fatal(err)
		}

		angle := 2 * math32.Pi * rng.Float32()
		dist := radius * (1.5 + 3*rng.Float32())
		light := lightning.V2(dist*math32.Cos(angle), dist*math32.Sin(angle))

		contour := ContourEdges(m, light)
		if len(contour) < 1 || len(contour) >= n {
			t.Fatalf("trial %d: n=%d light=%v: %d contour edges", trial, n, light, len(contour))
		}
	}
}

func TestRenderShadow_DegenerateDrawsNothing(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)

	p.Begin(render.SceneTechnique())
	defer p.End()

	// Light at the caster's centroid: every edge is contour, so the
	// configuration is degenerate and no quads are drawn.
	if err := c.RenderShadow(lightning.V2(0, 0)); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 0 {
		t.Errorf("degenerate configuration drew %d quads", len(dev.Calls))
	}
}

func TestRenderShadow_SingularWorldDrawsNothing(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.SetScale(0)

	p.Begin(render.SceneTechnique())
	defer p.End()

	if err := c.RenderShadow(lightning.V2(0, 500)); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 0 {
		t.Errorf("collapsed caster drew %d quads", len(dev.Calls))
	}
}

func TestRenderShadow_QuadPerContourEdge(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)

	p.Begin(render.SceneTechnique())
	defer p.End()

	light := lightning.V2(0, 500)
	if err := c.RenderShadow(light); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 3 {
		t.Fatalf("drew %d quads, want 3", len(dev.Calls))
	}

	for i, call := range dev.Calls {
		if call.Mode != render.TriangleStrip {
			t.Errorf("quad %d mode = %v", i, call.Mode)
		}
		if !call.World.Approx(lightning.Identity(), 1e-6) {
			t.Errorf("quad %d drawn with non-identity world matrix", i)
		}
		if len(call.Vertices) != 4 {
			t.Errorf("quad %d has %d vertices", i, len(call.Vertices))
		}
		// Quads extend away from the light, which sits above: every far
		// vertex lies below its near vertex.
		for j := 0; j < 2; j++ {
			near := call.Vertices[j].Pos
			far := call.Vertices[j+2].Pos
			if far.Y >= near.Y {
				t.Errorf("quad %d: far vertex %v not below near %v", i, far, near)
			}
		}
	}
}

func TestRenderShadow_FarVerticesFarther(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.Bias = lightning.Vec2{}
	c.SetPosition(lightning.V2(30, -40))
	c.SetRotation(0.7)

	p.Begin(render.SceneTechnique())
	defer p.End()

	light := lightning.V2(-200, 300)
	if err := c.RenderShadow(light); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) == 0 {
		t.Fatal("no shadow quads drawn")
	}

	for i, call := range dev.Calls {
		for j := 0; j < 2; j++ {
			near := call.Vertices[j].Pos.Sub(light).Length()
			far := call.Vertices[j+2].Pos.Sub(light).Length()
			if far <= near {
				t.Errorf("quad %d: far distance %v <= near distance %v", i, far, near)
			}
		}
	}
}

func TestRenderShadow_RestoresWorldMatrix(t *testing.T) {
	p, _ := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.SetPosition(lightning.V2(10, 20))

	p.Begin(render.SceneTechnique())
	defer p.End()

	scene := lightning.Translate(1, 2, 3)
	p.SetWorld(scene)
	if err := c.RenderShadow(lightning.V2(0, 500)); err != nil {
		t.Fatal(err)
	}
	if !p.World().Approx(scene, 0) {
		t.Error("world matrix not restored after shadow pass")
	}
}

func TestRenderShadow_OpacityAndBias(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.Opacity = 0.5
	c.Bias = lightning.V2(3, 7)

	p.Begin(render.SceneTechnique())
	defer p.End()

	if err := c.RenderShadow(lightning.V2(0, 500)); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) == 0 {
		t.Fatal("no shadow quads drawn")
	}

	// The bottom edge's first near vertex is (-50,-50) plus the bias.
	first := dev.Calls[0].Vertices[0]
	if !first.Pos.Approx(lightning.V2(-47, -43), 1e-4) {
		t.Errorf("biased near vertex = %v", first.Pos)
	}
	if first.Color.A != 0.5 || first.Color.R != 0 {
		t.Errorf("shadow color = %v", first.Color)
	}
}

func TestCaster_WorldComposition(t *testing.T) {
	p, _ := newTestPipeline(t)
	c := newSquareCaster(t, p)

	c.SetPosition(lightning.V2(10, 0))
	c.SetRotation(math32.Pi / 2)
	c.SetScale(2)

	// Scale first, rotate second, translate last: the model point (1,0)
	// scales to (2,0), rotates to (0,2) and lands at (10,2).
	got := c.World().TransformPoint(lightning.V2(1, 0))
	if !got.Approx(lightning.V2(10, 2), 1e-5) {
		t.Errorf("(1,0) maps to %v, want (10,2)", got)
	}
}

func TestCaster_FullTurnRestoresWorld(t *testing.T) {
	p, _ := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.SetPosition(lightning.V2(25, -10))
	c.SetScale(1.5)

	before := c.World()
	c.SetRotation(2 * math32.Pi)
	if !c.World().Approx(before, 1e-5) {
		t.Error("full rotation changed the world matrix beyond epsilon")
	}
}

func TestCaster_RenderUsesFilledPass(t *testing.T) {
	p, dev := newTestPipeline(t)
	c := newSquareCaster(t, p)
	c.SetPosition(lightning.V2(5, 5))

	p.Begin(render.SceneTechnique())
	defer p.End()

	if err := c.Render(p); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 1 {
		t.Fatalf("draw calls = %d", len(dev.Calls))
	}
	if !dev.Calls[0].World.Approx(c.World(), 0) {
		t.Error("mesh drawn with wrong world matrix")
	}
	if p.Pass() != render.PassFilled {
		t.Errorf("pass = %d, want filled", p.Pass())
	}
}
