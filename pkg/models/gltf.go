package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"

	"github.com/taigrr/rast/pkg/math3d"
)

// GLTFLoader loads glTF 2.0 (.gltf/.glb) files into a Model.
type GLTFLoader struct {
	// GenerateNormals fills smooth normals when the file has none.
	GenerateNormals bool
	// LoadTexture decodes the first image of the document when the mesh has
	// texture coordinates.
	LoadTexture bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		GenerateNormals: true,
		LoadTexture:     true,
	}
}

// LoadGLB loads a glTF or GLB file with the default loader.
func LoadGLB(path string) (*Model, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens a glTF or GLB file and converts every triangle primitive of
// every mesh into one Model.
func (l *GLTFLoader) Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := l.FromDocument(doc, name, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FromDocument converts an already decoded document. dir resolves external
// image URIs.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name, dir string) (*Model, error) {
	m := NewModel(name)

	for _, mesh := range doc.Meshes {
		if err := l.processMesh(doc, mesh, m); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", mesh.Name, err)
		}
	}

	if len(m.Indices) == 0 {
		return nil, ErrNoGeometry
	}

	if l.GenerateNormals && !m.HasNormals() {
		m.GenerateNormals()
	}

	if l.LoadTexture && m.HasUVs() {
		img, err := firstImage(doc, dir)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		if img != nil {
			m.Material.Texture = TextureFromImage(img)
		}
	}

	return m, nil
}

// processMesh appends the triangle primitives of a glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, mesh *gltf.Mesh, m *Model) error {
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no surface to fill.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		// Attribute buffers grow in lockstep for this primitive, so one
		// base index per buffer is enough.
		basePos := len(m.Positions)
		baseUV := len(m.UVs)
		baseNormal := len(m.Normals)

		for _, p := range positions {
			m.Positions = append(m.Positions, math3d.Point(p[0], p[1], p[2]))
		}
		for _, n := range normals {
			m.Normals = append(m.Normals, math3d.Dir(n[0], n[1], n[2]))
		}
		for _, uv := range uvs {
			// glTF puts V=0 at the top of the image; textures here start at
			// the bottom row.
			m.UVs = append(m.UVs, math3d.V4(uv[0], 1-uv[1], 0, 0))
		}

		corner := func(i int) (pos, uv, normal int) {
			pos = basePos + i
			if i < len(uvs) {
				uv = baseUV + i
			}
			if i < len(normals) {
				normal = baseNormal + i
			}
			return pos, uv, normal
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for _, i := range indices {
			if i < 0 || i >= len(positions) {
				return fmt.Errorf("vertex %d of %d: %w", i, len(positions), ErrIndexRange)
			}
		}

		// glTF front faces are counter-clockwise, which matches the
		// back-face test, so winding is kept as is.
		for i := 0; i+2 < len(indices); i += 3 {
			var idx Index
			for c := range 3 {
				idx.Pos[c], idx.UV[c], idx.Normal[c] = corner(indices[i+c])
			}
			m.AddTriangle(idx)
		}
	}

	return nil
}

// readVec3Accessor reads VEC3 float data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([][3]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}
	return floats, nil
}

// readVec2Accessor reads VEC2 float data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([][2]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}
	return floats, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// readAccessorData reads raw little-endian data from a glTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// gltf.Open resolves embedded, data-URI and external buffers into Data.
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12
		}
		if err := checkRange(bufData, start, stride, count, 12); err != nil {
			return nil, err
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8
		}
		if err := checkRange(bufData, start, stride, count, 8); err != nil {
			return nil, err
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		var size int
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		default:
			return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
		}
		if stride == 0 {
			stride = size
		}
		if err := checkRange(bufData, start, stride, count, size); err != nil {
			return nil, err
		}

		switch size {
		case 1:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case 2:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		default:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

func checkRange(buf []byte, start, stride, count, elemSize int) error {
	if count == 0 {
		return nil
	}
	if end := start + (count-1)*stride + elemSize; start < 0 || end > len(buf) {
		return fmt.Errorf("accessor range [%d, %d) exceeds buffer of %d bytes", start, end, len(buf))
	}
	return nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math32.Float32frombits(binary.LittleEndian.Uint32(b))
}

// firstImage decodes the first image of the document, embedded in a buffer
// view or referenced by a relative URI. It returns nil when there is none.
func firstImage(doc *gltf.Document, dir string) (image.Image, error) {
	for _, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data == nil {
				continue
			}
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				return nil, err
			}
			data = b
		default:
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return decoded, nil
	}
	return nil, nil
}
