package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/taigrr/rast/pkg/math3d"
)

func TestNewModelSentinels(t *testing.T) {
	m := NewModel("empty")

	if len(m.Positions) != 1 || len(m.UVs) != 1 || len(m.Normals) != 1 {
		t.Fatalf("expected one sentinel per buffer, got %d/%d/%d",
			len(m.Positions), len(m.UVs), len(m.Normals))
	}
	if m.HasUVs() || m.HasNormals() {
		t.Error("empty model should report no UVs and no normals")
	}
	if m.VertexCount() != 0 {
		t.Errorf("VertexCount = %d, want 0", m.VertexCount())
	}
	if m.World != math3d.Identity() {
		t.Error("World should default to identity")
	}
	if m.Material.Ka != 0.1 || m.Material.Kd != 0.8 || m.Material.Ks != 0.5 {
		t.Errorf("default material = %+v", m.Material)
	}
	if !m.Material.Texture.Empty() {
		t.Error("default material should have no texture")
	}
}

func TestCheckIndex(t *testing.T) {
	m := NewModel("tri")
	m.Positions = append(m.Positions, math3d.Point(0, 0, 0), math3d.Point(1, 0, 0), math3d.Point(0, 1, 0))

	tests := []struct {
		name    string
		idx     Index
		wantErr string
	}{
		{"valid", Index{Pos: [3]int{1, 2, 3}}, ""},
		{"sentinel", Index{}, ""},
		{"position", Index{Pos: [3]int{1, 2, 4}}, "position 4 of 3"},
		{"negative", Index{Pos: [3]int{-1, 2, 3}}, "position -1 of 3"},
		{"uv", Index{Pos: [3]int{1, 2, 3}, UV: [3]int{0, 1, 0}}, "uv 1 of 0"},
		{"normal", Index{Pos: [3]int{1, 2, 3}, Normal: [3]int{0, 0, 1}}, "normal 1 of 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := m.CheckIndex(tc.idx)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrIndexRange) {
				t.Fatalf("err = %v, want ErrIndexRange", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestModelBounds(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := m.Bounds()
	if lo != math3d.Point(-1, -1, 0) || hi != math3d.Point(1, 1, 0) {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
	if s := m.Size(); s != math3d.Dir(2, 2, 0) {
		t.Errorf("Size = %v, want (2, 2, 0)", s)
	}

	m.SetPosition(math3d.Point(5, 0, -2))
	if c := m.Center(); c != math3d.Point(5, 0, -2) {
		t.Errorf("Center = %v, want (5, 0, -2)", c)
	}
}

func TestGenerateNormals(t *testing.T) {
	// Two triangles sharing an edge, folded 90 degrees around the X axis.
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f 2 1 4
`
	m, err := ParseOBJ(strings.NewReader(obj), "fold")
	if err != nil {
		t.Fatal(err)
	}
	m.GenerateNormals()

	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("len(Normals) = %d, want %d", len(m.Normals), len(m.Positions))
	}
	for _, idx := range m.Indices {
		if idx.Normal != idx.Pos {
			t.Errorf("Normal indices %v should follow Pos %v", idx.Normal, idx.Pos)
		}
	}

	// Vertex 3 only touches the first face.
	if n := m.Normals[3]; n != math3d.Dir(0, 0, 1) {
		t.Errorf("Normals[3] = %v, want +Z", n)
	}
	// Shared vertices average both faces.
	n := m.Normals[1]
	if n.Len() < 0.999 || n.Len() > 1.001 {
		t.Errorf("shared normal %v is not unit length", n)
	}
	if n.Y <= 0 || n.Z <= 0 {
		t.Errorf("shared normal %v should lean between +Z and +Y", n)
	}
}

func TestClone(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatal(err)
	}
	m.Material.Texture = NewSolidTexture(2, 2, math3d.V4(1, 0, 0, 1))

	c := m.Clone()
	c.Positions[1] = math3d.Point(9, 9, 9)
	c.Indices[0].Pos[0] = 4
	c.Material.Texture.Data[0] = math3d.V4(0, 1, 0, 1)

	if m.Positions[1] == c.Positions[1] {
		t.Error("Clone shares Positions")
	}
	if m.Indices[0].Pos[0] == 4 {
		t.Error("Clone shares Indices")
	}
	if m.Material.Texture.Data[0] != math3d.V4(1, 0, 0, 1) {
		t.Error("Clone shares texture data")
	}
}
