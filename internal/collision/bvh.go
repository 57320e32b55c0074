package collision

import (
	"sort"

	"github.com/Faultbox/claymesh/pkg/math"
)

// maxTrianglesPerLeaf is the threshold for splitting BVH nodes.
const maxTrianglesPerLeaf = 4

// Hit describes the closest ray/mesh intersection.
type Hit struct {
	T        float32   // distance along the ray
	Point    math.Vec3 // intersection point in the collider's space
	Triangle int       // triangle index (indices[3*Triangle : 3*Triangle+3])
}

// bvhNode is either an internal node with two children or a leaf with triangles.
type bvhNode struct {
	box       AABB
	left      *bvhNode
	right     *bvhNode
	triangles []int
}

// BVH is a bounding volume hierarchy over an indexed triangle mesh. It holds
// a copy of the positions it was built from, so a stale BVH keeps answering
// queries against the old shape until it is rebuilt.
type BVH struct {
	root      *bvhNode
	positions []math.Vec3
	indices   []uint32
}

// Build constructs a BVH. Triangles that reference out-of-range vertices are
// skipped.
func Build(positions []math.Vec3, indices []uint32) *BVH {
	b := &BVH{
		positions: append([]math.Vec3(nil), positions...),
		indices:   append([]uint32(nil), indices...),
	}

	n := len(b.indices) / 3
	tris := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if b.validTriangle(i) {
			tris = append(tris, i)
		}
	}
	if len(tris) > 0 {
		b.root = b.buildNode(tris)
	}
	return b
}

func (b *BVH) validTriangle(tri int) bool {
	for k := 0; k < 3; k++ {
		if int(b.indices[tri*3+k]) >= len(b.positions) {
			return false
		}
	}
	return true
}

func (b *BVH) corners(tri int) (math.Vec3, math.Vec3, math.Vec3) {
	return b.positions[b.indices[tri*3]], b.positions[b.indices[tri*3+1]], b.positions[b.indices[tri*3+2]]
}

func (b *BVH) centroid(tri int) math.Vec3 {
	p0, p1, p2 := b.corners(tri)
	return p0.Add(p1).Add(p2).Scale(1.0 / 3.0)
}

func (b *BVH) buildNode(tris []int) *bvhNode {
	node := &bvhNode{box: EmptyAABB()}
	for _, tri := range tris {
		p0, p1, p2 := b.corners(tri)
		node.box.Extend(p0)
		node.box.Extend(p1)
		node.box.Extend(p2)
	}

	if len(tris) <= maxTrianglesPerLeaf {
		node.triangles = tris
		return node
	}

	// Split on the longest axis at the median centroid
	extent := node.box.Size()
	axis := 0
	if extent.Y > extent.X && extent.Y > extent.Z {
		axis = 1
	} else if extent.Z > extent.X && extent.Z > extent.Y {
		axis = 2
	}

	sort.Slice(tris, func(i, j int) bool {
		return b.centroid(tris[i]).Axis(axis) < b.centroid(tris[j]).Axis(axis)
	})

	mid := len(tris) / 2
	node.left = b.buildNode(tris[:mid])
	node.right = b.buildNode(tris[mid:])
	return node
}

// Bounds returns the box around every indexed triangle.
func (b *BVH) Bounds() AABB {
	if b == nil || b.root == nil {
		return EmptyAABB()
	}
	return b.root.box
}

// TriangleCount returns the number of triangles the BVH indexes.
func (b *BVH) TriangleCount() int {
	if b == nil {
		return 0
	}
	return countTriangles(b.root)
}

func countTriangles(n *bvhNode) int {
	if n == nil {
		return 0
	}
	if n.triangles != nil {
		return len(n.triangles)
	}
	return countTriangles(n.left) + countTriangles(n.right)
}

// Raycast returns the closest intersection of r with the mesh.
func (b *BVH) Raycast(r Ray) (Hit, bool) {
	best := Hit{T: -1, Triangle: -1}
	if b == nil || b.root == nil {
		return best, false
	}
	b.raycastNode(b.root, r, &best)
	if best.Triangle < 0 {
		return best, false
	}
	best.Point = r.At(best.T)
	return best, true
}

func (b *BVH) raycastNode(n *bvhNode, r Ray, best *Hit) {
	t, ok := r.IntersectAABB(n.box)
	if !ok {
		return
	}
	// A box entered beyond the current best cannot hold a closer hit,
	// unless the ray starts inside it (t is then the exit distance).
	if best.Triangle >= 0 && t > best.T && !n.box.Contains(r.Origin) {
		return
	}

	if n.triangles != nil {
		for _, tri := range n.triangles {
			p0, p1, p2 := b.corners(tri)
			if th, hit := r.IntersectTriangle(p0, p1, p2); hit {
				if best.Triangle < 0 || th < best.T {
					best.T = th
					best.Triangle = tri
				}
			}
		}
		return
	}

	b.raycastNode(n.left, r, best)
	b.raycastNode(n.right, r, best)
}
