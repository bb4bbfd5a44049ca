package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/rast/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.GenerateNormals {
		t.Error("GenerateNormals should default to true")
	}
	if !loader.LoadTexture {
		t.Error("LoadTexture should default to true")
	}
}

// writeTriangleGLTF writes a one-triangle .gltf with an embedded data URI
// buffer: positions, texture coordinates and uint16 indices, no normals.
func writeTriangleGLTF(t *testing.T, withIndices bool) string {
	t.Helper()
	return writeIndexedGLTF(t, [3]uint16{0, 1, 2}, withIndices)
}

// writeIndexedGLTF is writeTriangleGLTF with explicit index values.
func writeIndexedGLTF(t *testing.T, tri [3]uint16, withIndices bool) string {
	t.Helper()

	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	for _, f := range []float32{0, 0, 1, 0, 0, 1} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	for _, i := range tri {
		binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})

	indices := ""
	if withIndices {
		indices = `, "indices": 2`
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 24},
    {"buffer": 0, "byteOffset": 60, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}%s}]}]
}`, buf.Len(), base64.StdEncoding.EncodeToString(buf.Bytes()), indices)

	path := filepath.Join(t.TempDir(), "tri.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGLTFTriangle(t *testing.T) {
	for _, withIndices := range []bool{true, false} {
		t.Run(fmt.Sprintf("indices=%v", withIndices), func(t *testing.T) {
			m, err := LoadGLB(writeTriangleGLTF(t, withIndices))
			if err != nil {
				t.Fatalf("LoadGLB: %v", err)
			}

			if m.Name != "tri" {
				t.Errorf("Name = %q, want tri", m.Name)
			}
			if m.TriangleCount() != 1 {
				t.Fatalf("TriangleCount = %d, want 1", m.TriangleCount())
			}
			if m.VertexCount() != 3 {
				t.Errorf("VertexCount = %d, want 3", m.VertexCount())
			}

			idx := m.Indices[0]
			if idx.Pos != [3]int{1, 2, 3} {
				t.Errorf("Pos indices = %v, want sentinel offset [1 2 3]", idx.Pos)
			}
			if got := m.Positions[idx.Pos[1]]; got != math3d.Point(1, 0, 0) {
				t.Errorf("second position = %v", got)
			}

			// V is flipped to a bottom-origin texture space.
			if got := m.UVs[idx.UV[0]]; got.X != 0 || got.Y != 1 {
				t.Errorf("first uv = %v, want (0, 1)", got)
			}
			if got := m.UVs[idx.UV[2]]; got.X != 0 || got.Y != 0 {
				t.Errorf("third uv = %v, want (0, 0)", got)
			}

			// Generated normal of a CCW triangle in the XY plane faces +Z.
			n := m.Normals[idx.Normal[0]]
			if n.Z < 0.999 {
				t.Errorf("generated normal = %v, want +Z", n)
			}
		})
	}
}

func TestLoadGLTFIndexRange(t *testing.T) {
	_, err := LoadGLB(writeIndexedGLTF(t, [3]uint16{0, 1, 7}, true))
	if !errors.Is(err, ErrIndexRange) {
		t.Fatalf("err = %v, want ErrIndexRange", err)
	}
	if !strings.Contains(err.Error(), "vertex 7") {
		t.Errorf("err = %q, want it to name vertex 7", err)
	}
}

func TestLoadGLTFNoTriangles(t *testing.T) {
	doc := `{"asset": {"version": "2.0"}, "meshes": []}`
	path := filepath.Join(t.TempDir(), "empty.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGLB(path)
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestCheckRange(t *testing.T) {
	buf := make([]byte, 24)
	tests := []struct {
		name                          string
		start, stride, count, elemLen int
		wantErr                       bool
	}{
		{"fits", 0, 12, 2, 12, false},
		{"exact end", 12, 12, 1, 12, false},
		{"overflow", 4, 12, 2, 12, true},
		{"empty", 100, 12, 0, 12, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkRange(buf, tc.start, tc.stride, tc.count, tc.elemLen)
			if (err != nil) != tc.wantErr {
				t.Errorf("checkRange err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
