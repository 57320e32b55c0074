package sculpt

import (
	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/claymesh/pkg/math"
)

// Perlin parameters: smoothness, frequency scaling and octaves.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3

	// noiseFrequency scales the vertex index and step counter before sampling.
	noiseFrequency = 0.1
)

// Jitter perturbs brush directions with coherent noise so repeated strokes
// look less mechanical. It is deterministic for a given seed.
type Jitter struct {
	Amplitude float32
	noise     *perlin.Perlin
}

// NewJitter returns nil when amplitude is not positive, which disables it.
func NewJitter(amplitude float32, seed int64) *Jitter {
	if amplitude <= 0 {
		return nil
	}
	return &Jitter{
		Amplitude: amplitude,
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Offset returns the noise vector for vertex i at brush step.
func (j *Jitter) Offset(i, step int) math.Vec3 {
	if j == nil {
		return math.Vec3{}
	}
	t := float64(step) * noiseFrequency
	u := float64(i) * noiseFrequency
	v := math.Vec3{
		X: float32(j.noise.Noise2D(t, u)),
		Y: float32(j.noise.Noise2D(u, t)),
		Z: float32(j.noise.Noise2D(u, u+t)),
	}
	return v.Scale(j.Amplitude)
}
