package gravity

import "github.com/go-gl/mathgl/mgl64"

// Vector3 is the 3-D double-precision vector type used throughout the
// engine. It's a direct alias of mathgl's Vec3 rather than a wrapper
// type, so arithmetic (Add, Sub, Mul, Dot, Cross, Len, Normalize, ...)
// comes from mgl64 unchanged.
type Vector3 = mgl64.Vec3

// withLength returns v scaled so its length equals length, preserving
// its direction. If v has zero length the zero vector is returned.
func withLength(v Vector3, length float64) Vector3 {
	l := v.Len()
	if l == 0 {
		return Vector3{}
	}
	return v.Mul(length / l)
}

// AbsComponents returns a vector with the absolute value of each of
// v's components. Scene builders use it to turn a unit rotation axis
// into a per-axis scatter weight when shaping a disk-like distribution.
func AbsComponents(v Vector3) Vector3 {
	return Vector3{absf(v[0]), absf(v[1]), absf(v[2])}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
