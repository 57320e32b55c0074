package mesh

import (
	"github.com/Faultbox/claymesh/pkg/math"
)

// Weld merges vertices closer than epsilon (by quantized position) and drops
// triangles that collapse as a result. Marching-cubes output is a triangle
// soup; without welding a brush would tear every face apart.
func Weld(positions []math.Vec3, indices []uint32, epsilon float32) ([]math.Vec3, []uint32) {
	if epsilon <= 0 {
		epsilon = 1e-5
	}

	remap := make([]uint32, len(positions))
	seen := make(map[[3]int32]uint32, len(positions))
	out := make([]math.Vec3, 0, len(positions))

	for i, p := range positions {
		key := quantize(p, epsilon)
		if j, ok := seen[key]; ok {
			remap[i] = j
			continue
		}
		j := uint32(len(out))
		seen[key] = j
		out = append(out, p)
		remap[i] = j
	}

	idx := make([]uint32, 0, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		if int(indices[i]) >= len(remap) || int(indices[i+1]) >= len(remap) || int(indices[i+2]) >= len(remap) {
			continue
		}
		a, b, c := remap[indices[i]], remap[indices[i+1]], remap[indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		idx = append(idx, a, b, c)
	}

	return out, idx
}
