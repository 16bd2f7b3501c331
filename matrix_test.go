package lightning

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestMat4_IdentityTransform(t *testing.T) {
	p := V2(3, -7)
	if got := Identity().TransformPoint(p); !got.Approx(p, 1e-6) {
		t.Errorf("identity moved %v to %v", p, got)
	}
}

func TestMat4_TransformPoint(t *testing.T) {
	tests := []struct {
		name   string
		m      Mat4
		p      Vec2
		expect Vec2
	}{
		{"translate", Translate(10, -5, 0), V2(1, 2), V2(11, -3)},
		{"scale", Scale(2), V2(3, 4), V2(6, 8)},
		{"rotate quarter", RotateZ(math32.Pi / 2), V2(1, 0), V2(0, 1)},
		{"compose srt", Translate(10, 0, 0).Mul(RotateZ(math32.Pi / 2)).Mul(Scale(2)), V2(1, 0), V2(10, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); !got.Approx(tt.expect, 1e-5) {
				t.Errorf("got %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestMat4_MulIdentity(t *testing.T) {
	m := Translate(3, 4, 5).Mul(RotateZ(0.7)).Mul(Scale(1.5))
	if !m.Mul(Identity()).Approx(m, 1e-6) || !Identity().Mul(m).Approx(m, 1e-6) {
		t.Error("identity product changed the matrix")
	}
}

func TestMat4_Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(12, -7, 3)},
		{"rotate", RotateZ(1.1)},
		{"scale", Scale(2.5)},
		{"composed", Translate(5, 6, 0).Mul(RotateZ(0.4)).Mul(Scale(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Inverse()
			if !ok {
				t.Fatal("matrix reported singular")
			}
			if got := tt.m.Mul(inv); !got.Approx(Identity(), 1e-4) {
				t.Errorf("m * inv = %v, want identity", got)
			}
		})
	}
}

func TestMat4_InverseSingular(t *testing.T) {
	if _, ok := Scale(0).Inverse(); ok {
		t.Error("zero scale inverted")
	}
}

func TestMat4_InverseUndoesTransform(t *testing.T) {
	world := Translate(40, -20, 0).Mul(RotateZ(0.9)).Mul(Scale(2))
	inv, ok := world.Inverse()
	if !ok {
		t.Fatal("singular")
	}
	p := V2(17, 33)
	if got := inv.TransformPoint(world.TransformPoint(p)); !got.Approx(p, 1e-3) {
		t.Errorf("round trip moved %v to %v", p, got)
	}
}

func TestOrtho_MapsCorners(t *testing.T) {
	m := Ortho(-400, 400, -300, 300, -1, 1)
	tests := []struct {
		name   string
		p      Vec2
		expect Vec2
	}{
		{"center", V2(0, 0), V2(0, 0)},
		{"top right", V2(400, 300), V2(1, 1)},
		{"bottom left", V2(-400, -300), V2(-1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.TransformPoint(tt.p); !got.Approx(tt.expect, 1e-5) {
				t.Errorf("got %v, want %v", got, tt.expect)
			}
		})
	}
}
