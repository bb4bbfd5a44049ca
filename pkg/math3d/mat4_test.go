package math3d

import (
	"testing"

	"github.com/chewxy/math32"
)

const eps = 1e-4

func approx(a, b float32) bool {
	return math32.Abs(a-b) <= eps
}

func approxVec(a, b Vec4) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z) && approx(a.W, b.W)
}

func TestInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translation", Translate(Point(1, -2, 3))},
		{"scale", Scale(Point(2, 0.5, 4))},
		{"rotation", RotateX(0.3).Mul(RotateY(-1.1)).Mul(RotateZ(2.0))},
		{"affine", Scale(Point(2, 3, 0.5)).Mul(RotateY(0.7)).Mul(Translate(Point(4, 5, -6)))},
		{"general", Mat4{
			2, 1, 0, 0.5,
			0, 3, 1, 0,
			1, 0, 4, 0,
			0.5, 2, 1, 1,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.Mul(tc.m.Invert())
			if !got.ApproxEqual(Identity(), eps) {
				t.Errorf("M * Invert(M) = %v, want identity", got)
			}
			got = tc.m.Invert().Mul(tc.m)
			if !got.ApproxEqual(Identity(), eps) {
				t.Errorf("Invert(M) * M = %v, want identity", got)
			}
		})
	}
}

func TestInvertTranslation(t *testing.T) {
	inv := Translate(Point(1, 2, 3)).Invert()
	want := Translate(Point(-1, -2, -3))
	if !inv.ApproxEqual(want, eps) {
		t.Errorf("got %v, want %v", inv, want)
	}
}

func TestInvertSingular(t *testing.T) {
	inv := Zero().Invert()
	bad := false
	for _, v := range inv {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			bad = true
			break
		}
	}
	if !bad {
		t.Errorf("expected NaN/Inf entries for singular matrix, got %v", inv)
	}
}

func TestInvertTranspose(t *testing.T) {
	m := Scale(Point(2, 1, 1))
	it := m.InvertTranspose()

	// A normal of a plane tilted in X must stay perpendicular to the plane
	// after non-uniform scaling.
	tangent := Dir(1, 1, 0)
	normal := Dir(1, -1, 0)

	tt := m.TransformDir(tangent)
	nn := it.TransformDir(normal)
	if d := tt.Dot(nn); !approx(d, 0) {
		t.Errorf("transformed normal not perpendicular: dot = %v", d)
	}
}

func TestRowVectorConvention(t *testing.T) {
	// Apply translation first, then rotation by 90 degrees around Y.
	m := Translate(Point(1, 0, 0)).Mul(RotateY(math32.Pi / 2))
	got := m.TransformPoint(Point(0, 0, 0))
	want := V4(0, 0, -1, 1)
	if !approxVec(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTransformPointDivides(t *testing.T) {
	m := Identity()
	m.Set(2, 3, -1) // w = -z
	m.Set(3, 3, 0)

	got := m.TransformPoint(Point(2, 4, -2))
	want := V4(1, 2, -1, 2)
	if !approxVec(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTransformDirIgnoresTranslation(t *testing.T) {
	m := Translate(Point(10, 20, 30))
	got := m.TransformDir(Dir(1, 2, 3))
	if got != Dir(1, 2, 3) {
		t.Errorf("got %v, want unchanged direction", got)
	}
}

func TestGetSet(t *testing.T) {
	var m Mat4
	m.Set(3, 1, 7)
	if m[13] != 7 {
		t.Errorf("Set(3,1) wrote index != 13: %v", m)
	}
	if m.Get(3, 1) != 7 {
		t.Errorf("Get(3,1) = %v, want 7", m.Get(3, 1))
	}
	if tr := Translate(Point(4, 5, 6)).Translation(); tr != Point(4, 5, 6) {
		t.Errorf("Translation() = %v", tr)
	}
}

func TestGetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	_ = Identity().Get(4, 0)
}

func TestMulAssociative(t *testing.T) {
	a := RotateX(0.4)
	b := Translate(Point(1, 2, 3))
	c := Scale(Point(2, 2, 2))
	p := Point(1, 1, 1)

	left := a.Mul(b).Mul(c).TransformPoint(p)
	right := c.TransformPoint(b.TransformPoint(a.TransformPoint(p)))
	if !approxVec(left, right) {
		t.Errorf("chained transform %v != step-by-step %v", left, right)
	}
}
