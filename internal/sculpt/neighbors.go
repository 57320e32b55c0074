package sculpt

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/Faultbox/claymesh/pkg/math"
)

// R-tree node fan-out.
const (
	rtreeMinChildren = 8
	rtreeMaxChildren = 32
)

// pointTol is the half-size of the box stored for each vertex.
const pointTol = 1e-9

// neighborFinder returns, in ascending index order, every vertex j != i
// whose distance to positions[i] is strictly below r.
type neighborFinder interface {
	neighbors(i int, r float32, out []int) []int
}

// scanNeighbors is the brute-force finder.
type scanNeighbors struct {
	positions []math.Vec3
}

func (s scanNeighbors) neighbors(i int, r float32, out []int) []int {
	out = out[:0]
	p := s.positions[i]
	for j, q := range s.positions {
		if j != i && p.Distance(q) < r {
			out = append(out, j)
		}
	}
	return out
}

// vertexEntry is one vertex stored in the R-tree.
type vertexEntry struct {
	index int
	rect  rtreego.Rect
}

func (v *vertexEntry) Bounds() rtreego.Rect {
	return v.rect
}

// treeNeighbors answers neighbour queries from an R-tree built over a fixed
// set of positions. Candidates from the box query are filtered with the same
// distance test as scanNeighbors, so both return identical sets.
type treeNeighbors struct {
	positions []math.Vec3
	tree      *rtreego.Rtree
}

func newTreeNeighbors(positions []math.Vec3) *treeNeighbors {
	items := make([]rtreego.Spatial, len(positions))
	for i, p := range positions {
		items[i] = &vertexEntry{index: i, rect: toPoint(p).ToRect(pointTol)}
	}
	return &treeNeighbors{
		positions: positions,
		tree:      rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren, items...),
	}
}

func (t *treeNeighbors) neighbors(i int, r float32, out []int) []int {
	out = out[:0]
	p := t.positions[i]

	// Pad the query box a little so float64 rounding never drops a candidate.
	query := toPoint(p).ToRect(float64(r) * 1.0001)
	for _, s := range t.tree.SearchIntersect(query) {
		j := s.(*vertexEntry).index
		if j != i && p.Distance(t.positions[j]) < r {
			out = append(out, j)
		}
	}
	sort.Ints(out)
	return out
}

func toPoint(p math.Vec3) rtreego.Point {
	return rtreego.Point{float64(p.X), float64(p.Y), float64(p.Z)}
}
