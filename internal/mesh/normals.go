package mesh

import (
	"github.com/Faultbox/claymesh/pkg/math"
)

// RecalculateNormals rebuilds per-vertex normals from the current triangles.
// Face normals are accumulated unnormalized, so larger faces weigh more.
// Vertices no triangle references get a zero normal.
func (m *Mesh) RecalculateNormals() {
	m.Normals = ComputeNormals(m.Positions, m.Indices, m.Normals)
}

// ComputeNormals returns area-weighted vertex normals for an indexed mesh,
// reusing dst when it has the right length.
func ComputeNormals(positions []math.Vec3, indices []uint32, dst []math.Vec3) []math.Vec3 {
	if len(dst) != len(positions) {
		dst = make([]math.Vec3, len(positions))
	} else {
		clear(dst)
	}

	n := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		v0 := positions[i0]
		e1 := positions[i1].Sub(v0)
		e2 := positions[i2].Sub(v0)
		face := e1.Cross(e2)

		dst[i0] = dst[i0].Add(face)
		dst[i1] = dst[i1].Add(face)
		dst[i2] = dst[i2].Add(face)
	}

	for i := range dst {
		dst[i] = dst[i].Normalize()
	}
	return dst
}

// SmoothSeams averages normals of vertices that share a position, which
// hides the crease left by UV or normal seams in imported meshes.
func SmoothSeams(positions, normals []math.Vec3, epsilon float32) {
	if epsilon <= 0 || len(normals) != len(positions) {
		return
	}

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i, p := range positions {
		key := quantize(p, epsilon)
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(normals[idx])
		}

		avg := sum.Normalize()
		for _, idx := range idxs {
			normals[idx] = avg
		}
	}
}

func quantize(p math.Vec3, epsilon float32) [3]int32 {
	return [3]int32{
		int32(roundf(p.X / epsilon)),
		int32(roundf(p.Y / epsilon)),
		int32(roundf(p.Z / epsilon)),
	}
}

func roundf(x float32) float32 {
	if x < 0 {
		return float32(int64(x - 0.5))
	}
	return float32(int64(x + 0.5))
}
