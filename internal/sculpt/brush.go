package sculpt

import (
	"github.com/Faultbox/claymesh/pkg/math"
)

// DefaultNeighborFraction sizes the smoothing neighbourhood relative to the
// brush radius.
const DefaultNeighborFraction = 0.3

// DefaultIndexThreshold is the vertex count from which smoothing switches
// from a linear scan to an R-tree.
const DefaultIndexThreshold = 512

// directionEpsilon is the shortest brush-to-vertex vector that still has a
// direction.
const directionEpsilon = 1e-7

// Brush is one brush configuration. Apply is a pure function of the brush,
// the buffer contents and the point, apart from the jitter step counter.
type Brush struct {
	Mode     Mode
	Radius   float32
	Strength float32

	// NeighborFraction scales Radius to get the smoothing neighbourhood.
	NeighborFraction float32
	// IndexThreshold enables the R-tree at this vertex count; <= 0 disables it.
	IndexThreshold int

	// Jitter is optional.
	Jitter *Jitter

	step      int
	neighbors []int
}

// StepResult describes one brush application.
type StepResult struct {
	Affected   int // vertices inside the radius
	Moved      int // vertices whose position changed
	Degenerate int // vertices skipped for lack of a direction
}

// Apply deforms buf's working positions around the local-space point p.
func (b *Brush) Apply(buf *VertexBuffer, p math.Vec3) StepResult {
	var res StepResult
	if buf == nil || b.Radius <= 0 || !p.IsFinite() {
		return res
	}
	b.step++

	switch b.Mode {
	case ModePush, ModePull:
		b.applyNormal(buf, p, &res)
	case ModePinch:
		b.applyPinch(buf, p, &res)
	case ModeSmooth:
		b.applySmooth(buf, p, &res)
	}
	return res
}

func (b *Brush) influence(d float32) float32 {
	return Falloff(d, b.Radius) * b.Strength
}

func (b *Brush) applyNormal(buf *VertexBuffer, p math.Vec3, res *StepResult) {
	sign := float32(-1)
	if b.Mode == ModePull {
		sign = 1
	}

	w := buf.working
	for i := range w {
		d := p.Distance(w[i])
		if d >= b.Radius {
			continue
		}
		res.Affected++

		n := buf.baseNormals[i]
		if n == (math.Vec3{}) {
			res.Degenerate++
			continue
		}
		dir := n.Add(b.Jitter.Offset(i, b.step))
		move := dir.Scale(sign * b.influence(d))
		if move == (math.Vec3{}) {
			continue
		}
		w[i] = w[i].Add(move)
		res.Moved++
	}
}

func (b *Brush) applyPinch(buf *VertexBuffer, p math.Vec3, res *StepResult) {
	w := buf.working
	for i := range w {
		d := p.Distance(w[i])
		if d >= b.Radius {
			continue
		}
		res.Affected++

		dir, ok := p.Sub(w[i]).TryNormalize(directionEpsilon)
		if !ok {
			res.Degenerate++
			continue
		}
		dir = dir.Add(b.Jitter.Offset(i, b.step))
		move := dir.Scale(b.influence(d))
		if move == (math.Vec3{}) {
			continue
		}
		w[i] = w[i].Sub(move)
		res.Moved++
	}
}

// applySmooth relaxes each vertex in the radius toward the mean of its
// neighbours. Means are taken from the positions before this step, so the
// result does not depend on iteration order or on the neighbour finder.
func (b *Brush) applySmooth(buf *VertexBuffer, p math.Vec3, res *StepResult) {
	frac := b.NeighborFraction
	if frac <= 0 {
		frac = DefaultNeighborFraction
	}
	nr := b.Radius * frac

	prev := buf.prestep()
	var finder neighborFinder = scanNeighbors{positions: prev}
	if b.IndexThreshold > 0 && len(prev) >= b.IndexThreshold {
		finder = newTreeNeighbors(prev)
	}

	w := buf.working
	for i := range prev {
		d := p.Distance(prev[i])
		if d >= b.Radius {
			continue
		}
		res.Affected++

		b.neighbors = finder.neighbors(i, nr, b.neighbors)
		if len(b.neighbors) == 0 {
			continue
		}

		var sum math.Vec3
		for _, j := range b.neighbors {
			sum = sum.Add(prev[j])
		}
		mean := sum.Scale(1 / float32(len(b.neighbors)))

		t := clamp01(b.influence(d))
		next := prev[i].Lerp(mean, t)
		if next != prev[i] {
			w[i] = next
			res.Moved++
		}
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
