// Package shapes generates starter meshes to sculpt: closed primitives
// tessellated from signed distance functions, and a flat grid.
package shapes

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Options controls tessellation.
type Options struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int
	// WeldEpsilon merges the triangle soup into shared vertices.
	WeldEpsilon float32
}

// DefaultOptions returns a resolution suitable for interactive sculpting.
func DefaultOptions() Options {
	return Options{Cells: 48, WeldEpsilon: 1e-4}
}

// Kinds lists the names accepted by New.
func Kinds() []string {
	return []string{"sphere", "box", "cylinder", "grid"}
}

// New builds the named shape with overall size (diameter or edge length)
// centred on the origin.
func New(kind string, size float32, opts Options) (*mesh.Mesh, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shape size must be positive, got %v", size)
	}
	switch strings.ToLower(kind) {
	case "sphere":
		return Sphere(size/2, opts)
	case "box":
		return Box(math.Vec3{X: size, Y: size, Z: size}, opts)
	case "cylinder":
		return Cylinder(size, size/2, opts)
	case "grid":
		n := max(opts.Cells, 1)
		return Grid(n, n, size/float32(n)), nil
	default:
		return nil, fmt.Errorf("unknown shape %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
	}
}

// Sphere tessellates a sphere of the given radius.
func Sphere(radius float32, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Sphere3D(float64(radius))
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return tessellate("sphere", s, opts), nil
}

// Box tessellates an axis-aligned box centred on the origin.
func Box(size math.Vec3, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: float64(size.X), Y: float64(size.Y), Z: float64(size.Z)}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return tessellate("box", s, opts), nil
}

// Cylinder tessellates a cylinder along Z centred on the origin.
func Cylinder(height, radius float32, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(float64(height), float64(radius), 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return tessellate("cylinder", s, opts), nil
}

func tessellate(name string, s sdf.SDF3, opts Options) *mesh.Mesh {
	if opts.Cells <= 0 {
		opts.Cells = DefaultOptions().Cells
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(opts.Cells))

	soup := make([]math.Vec3, 0, len(triangles)*3)
	indices := make([]uint32, 0, len(triangles)*3)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			indices = append(indices, uint32(len(soup)))
			soup = append(soup, math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)})
		}
	}

	positions, indices := mesh.Weld(soup, indices, opts.WeldEpsilon)
	m := mesh.New(name, positions, indices)

	logger.Debug("shape tessellated",
		zap.String("shape", name),
		zap.Int("cells", opts.Cells),
		zap.Int("soup", len(soup)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()))
	return m
}

// Grid builds a w x h quad grid on the XZ plane, centred on the origin and
// facing +Y, with UVs spanning [0, 1].
func Grid(w, h int, step float32) *mesh.Mesh {
	w, h = max(w, 1), max(h, 1)
	ox := float32(w) * step / 2
	oz := float32(h) * step / 2

	positions := make([]math.Vec3, 0, (w+1)*(h+1))
	uvs := make([]math.Vec2, 0, (w+1)*(h+1))
	for z := 0; z <= h; z++ {
		for x := 0; x <= w; x++ {
			positions = append(positions, math.Vec3{X: float32(x)*step - ox, Z: float32(z)*step - oz})
			uvs = append(uvs, math.Vec2{X: float32(x) / float32(w), Y: float32(z) / float32(h)})
		}
	}

	row := uint32(w + 1)
	indices := make([]uint32, 0, w*h*6)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			i := uint32(z)*row + uint32(x)
			indices = append(indices, i, i+row, i+1, i+1, i+row, i+row+1)
		}
	}

	m := mesh.New("grid", positions, indices)
	m.UVs = uvs
	return m
}
