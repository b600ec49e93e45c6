package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// RayNormal returns the unit direction and length of the ray between two
// points. For coincident points the length is zero and the normal is not a
// number; callers must check the length before using the normal.
func RayNormal(rs, re r3.Vec) (normal r3.Vec, length float64) {
	ray := r3.Sub(re, rs)
	length = r3.Norm(ray)
	return r3.Scale(1/length, ray), length
}

// Inv returns the component-wise inverse of a direction vector. Zero
// components invert to ±Inf, which ClipAABB and the grid walker treat as
// "parallel to this axis".
func Inv(v r3.Vec) r3.Vec {
	return r3.Vec{X: 1 / v.X, Y: 1 / v.Y, Z: 1 / v.Z}
}
