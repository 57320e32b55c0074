// Package meshio reads and writes Wavefront OBJ meshes.
//
// Only geometry is supported: v, vt, vn and f records. Materials, groups and
// smoothing directives are ignored. Vertices are keyed by position index, so
// a position used with several normals or UVs keeps the first pair seen.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/pkg/math"
)

// ErrNoGeometry is returned for files without vertices or faces.
var ErrNoGeometry = errors.New("obj: no geometry")

// ParseError reports a malformed record.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj: line %d: %s", e.Line, e.Msg)
}

// LoadOBJ reads an OBJ file. The mesh is named after the file.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// SaveOBJ writes m to path.
func SaveOBJ(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

type reader struct {
	positions []math.Vec3
	texcoords []math.Vec2
	normals   []math.Vec3

	// per position index, first vt/vn seen (-1 for none)
	uvRef     []int
	normalRef []int

	indices []uint32
	name    string
}

// ReadOBJ parses OBJ text. Polygons are fan-triangulated; negative
// (relative) indices are resolved. Normals missing from the file are
// computed from the triangles.
func ReadOBJ(r io.Reader) (*mesh.Mesh, error) {
	rd := &reader{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if err := rd.record(fields); err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return rd.build()
}

func (rd *reader) record(fields []string) error {
	switch fields[0] {
	case "v":
		p, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		rd.positions = append(rd.positions, p)
		rd.uvRef = append(rd.uvRef, -1)
		rd.normalRef = append(rd.normalRef, -1)
	case "vt":
		if len(fields) < 3 {
			return fmt.Errorf("vt needs 2 components")
		}
		u, err := parseFloat(fields[1])
		if err != nil {
			return err
		}
		v, err := parseFloat(fields[2])
		if err != nil {
			return err
		}
		rd.texcoords = append(rd.texcoords, math.Vec2{X: u, Y: v})
	case "vn":
		n, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		rd.normals = append(rd.normals, n)
	case "f":
		return rd.face(fields[1:])
	case "o":
		if rd.name == "" && len(fields) > 1 {
			rd.name = fields[1]
		}
	}
	return nil
}

func (rd *reader) face(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(corners))
	}

	idx := make([]uint32, len(corners))
	for i, c := range corners {
		parts := strings.Split(c, "/")

		p, err := resolve(parts[0], len(rd.positions))
		if err != nil {
			return fmt.Errorf("vertex %q: %w", c, err)
		}
		idx[i] = uint32(p)

		if len(parts) > 1 && parts[1] != "" {
			t, err := resolve(parts[1], len(rd.texcoords))
			if err != nil {
				return fmt.Errorf("texcoord %q: %w", c, err)
			}
			if rd.uvRef[p] < 0 {
				rd.uvRef[p] = t
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			n, err := resolve(parts[2], len(rd.normals))
			if err != nil {
				return fmt.Errorf("normal %q: %w", c, err)
			}
			if rd.normalRef[p] < 0 {
				rd.normalRef[p] = n
			}
		}
	}

	for i := 1; i+1 < len(idx); i++ {
		rd.indices = append(rd.indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

func (rd *reader) build() (*mesh.Mesh, error) {
	if len(rd.positions) == 0 || len(rd.indices) == 0 {
		return nil, ErrNoGeometry
	}

	m := &mesh.Mesh{
		Name:      rd.name,
		Positions: rd.positions,
		Indices:   rd.indices,
	}

	if allSet(rd.normalRef) {
		m.Normals = make([]math.Vec3, len(rd.positions))
		for i, ref := range rd.normalRef {
			m.Normals[i] = rd.normals[ref].Normalize()
		}
	} else {
		if len(rd.normals) > 0 {
			logger.Debug("obj normals incomplete, recomputing", zap.Int("vertices", len(rd.positions)))
		}
		m.RecalculateNormals()
	}

	if allSet(rd.uvRef) {
		m.UVs = make([]math.Vec2, len(rd.positions))
		for i, ref := range rd.uvRef {
			m.UVs[i] = rd.texcoords[ref]
		}
	}

	m.RecalculateBounds()
	return m, nil
}

func allSet(refs []int) bool {
	for _, r := range refs {
		if r < 0 {
			return false
		}
	}
	return len(refs) > 0
}

// resolve converts a 1-based or negative OBJ index to a 0-based one.
func resolve(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("index %d out of range (have %d)", i, count)
	}
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("need 3 components, got %d", len(fields))
	}
	var a [3]float32
	for i := range a {
		f, err := parseFloat(fields[i])
		if err != nil {
			return math.Vec3{}, err
		}
		a[i] = f
	}
	return math.V3(a), nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return float32(f), nil
}

// WriteOBJ writes positions, UVs when present, normals and triangles.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(p.X), ftoa(p.Y), ftoa(p.Z))
	}
	hasUV := len(m.UVs) == len(m.Positions)
	if hasUV {
		for _, t := range m.UVs {
			fmt.Fprintf(bw, "vt %s %s\n", ftoa(t.X), ftoa(t.Y))
		}
	}
	hasNormals := len(m.Normals) == len(m.Positions)
	if hasNormals {
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
		}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		bw.WriteString("f")
		for _, idx := range m.Indices[i : i+3] {
			n := idx + 1
			switch {
			case hasUV && hasNormals:
				fmt.Fprintf(bw, " %d/%d/%d", n, n, n)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", n, n)
			case hasNormals:
				fmt.Fprintf(bw, " %d//%d", n, n)
			default:
				fmt.Fprintf(bw, " %d", n)
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// ftoa formats with the shortest representation that round-trips float32.
func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
