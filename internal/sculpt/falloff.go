package sculpt

// Falloff returns the brush weight for a point at distance d from the brush
// centre: (1 - d/radius)^2 inside the radius, 0 on or beyond it. A
// non-positive radius affects nothing. d and radius must be in the same space.
func Falloff(d, radius float32) float32 {
	if radius <= 0 || d >= radius {
		return 0
	}
	if d <= 0 {
		return 1
	}
	f := 1 - d/radius
	return f * f
}
