package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/rast/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := ParseOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ reads v, vt, vn and f statements. Faces may use the a, a/b, a//c
// and a/b/c corner forms; polygons with more than three corners are split
// into a triangle fan. Other statements are ignored.
func ParseOBJ(r io.Reader, name string) (*Model, error) {
	m := NewModel(name)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	// Source line of every triangle, for index errors.
	var faceLines []int

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v [3]float32
			if v, err = parseFloats3(fields[1:], 3); err == nil {
				m.Positions = append(m.Positions, math3d.Point(v[0], v[1], v[2]))
			}
		case "vt":
			var v [3]float32
			if v, err = parseFloats3(fields[1:], 2); err == nil {
				m.UVs = append(m.UVs, math3d.V4(v[0], v[1], 0, 0))
			}
		case "vn":
			var v [3]float32
			if v, err = parseFloats3(fields[1:], 3); err == nil {
				m.Normals = append(m.Normals, math3d.Dir(v[0], v[1], v[2]))
			}
		case "f":
			n := len(m.Indices)
			err = parseFace(m, fields[1:])
			for range len(m.Indices) - n {
				faceLines = append(faceLines, lineNo)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if len(m.Indices) == 0 {
		return nil, ErrNoGeometry
	}

	m.ResolveIndices()
	for i, idx := range m.Indices {
		if err := m.CheckIndex(idx); err != nil {
			return nil, fmt.Errorf("line %d: %w", faceLines[i], err)
		}
	}
	return m, nil
}

// parseFloats3 parses the first n (2 or 3) fields as floats.
func parseFloats3(fields []string, n int) ([3]float32, error) {
	var out [3]float32
	if len(fields) < n {
		return out, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return out, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

type corner struct {
	pos, uv, normal int
}

// parseCorner parses "p", "p/t", "p//n" or "p/t/n".
func parseCorner(s string) (corner, error) {
	var c corner
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("bad face corner %q", s)
	}

	targets := []*int{&c.pos, &c.uv, &c.normal}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return c, fmt.Errorf("bad face corner %q: missing position", s)
			}
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("bad face corner %q: %w", s, err)
		}
		if v == 0 {
			return c, fmt.Errorf("bad face corner %q: %w", s, ErrIndexRange)
		}
		*targets[i] = v
	}
	return c, nil
}

func parseFace(m *Model, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}

	corners := make([]corner, len(fields))
	for i, f := range fields {
		c, err := parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		m.AddTriangle(Index{
			Pos:    [3]int{a.pos, b.pos, c.pos},
			UV:     [3]int{a.uv, b.uv, c.uv},
			Normal: [3]int{a.normal, b.normal, c.normal},
		})
	}
	return nil
}
