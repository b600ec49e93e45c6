package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid-body transform describing where an entity (grid, sensor,
// primitive) sits relative to its parent frame. Applying the pose takes
// points from the entity's local frame to the parent frame.
type Pose struct {
	R r3.Rotation
	T r3.Vec
}

// Ident returns the identity pose.
func Ident() Pose {
	return Pose{R: r3.Rotation{Real: 1}}
}

// NewPose returns a pose with the given rotation and translation.
func NewPose(r r3.Rotation, t r3.Vec) Pose {
	return Pose{R: r, T: t}
}

// Transform maps a point in the pose's frame to the parent frame.
func (p Pose) Transform(v r3.Vec) r3.Vec {
	return r3.Add(p.R.Rotate(v), p.T)
}

// TransformAll maps a slice of points in place.
func (p Pose) TransformAll(vs []r3.Vec) {
	for i := range vs {
		vs[i] = p.Transform(vs[i])
	}
}

// Inverse returns the parent-to-local transform.
func (p Pose) Inverse() Pose {
	rInv := r3.Rotation(quat.Conj(quat.Number(p.R)))
	return Pose{R: rInv, T: r3.Scale(-1, rInv.Rotate(p.T))}
}

// Compose returns the pose equivalent to applying b and then a.
func Compose(a, b Pose) Pose {
	return Pose{
		R: r3.Rotation(quat.Mul(quat.Number(a.R), quat.Number(b.R))),
		T: r3.Add(a.R.Rotate(b.T), a.T),
	}
}

// To returns the transform taking points expressed in p's frame into the
// frame described by other.
func (p Pose) To(other Pose) Pose {
	return Compose(other.Inverse(), p)
}

// Translate applies a body-frame translation to the pose.
func (p *Pose) Translate(v r3.Vec) {
	p.T = r3.Add(p.T, p.R.Rotate(v))
}

// RotateBody applies a rotation in the pose's own frame.
func (p *Pose) RotateBody(r r3.Rotation) {
	p.R = r3.Rotation(quat.Mul(quat.Number(p.R), quat.Number(r)))
}

// RotateWorld applies a rotation in the parent frame. The translation is
// rotated along with the axes.
func (p *Pose) RotateWorld(r r3.Rotation) {
	p.R = r3.Rotation(quat.Mul(quat.Number(r), quat.Number(p.R)))
	p.T = r.Rotate(p.T)
}

// Matrix returns the pose as a homogeneous 4x4 matrix in row-major order.
func (p Pose) Matrix() [16]float64 {
	cx := p.R.Rotate(r3.Vec{X: 1})
	cy := p.R.Rotate(r3.Vec{Y: 1})
	cz := p.R.Rotate(r3.Vec{Z: 1})
	return [16]float64{
		cx.X, cy.X, cz.X, p.T.X,
		cx.Y, cy.Y, cz.Y, p.T.Y,
		cx.Z, cy.Z, cz.Z, p.T.Z,
		0, 0, 0, 1,
	}
}

// PoseFromMatrix reconstructs a pose from a row-major homogeneous matrix as
// produced by Matrix. The rotation block must be orthonormal.
func PoseFromMatrix(m [16]float64) Pose {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[4], m[5], m[6]
	m20, m21, m22 := m[8], m[9], m[10]

	var w, x, y, z float64
	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		w = 0.25 * s
		x = (m21 - m12) / s
		y = (m02 - m20) / s
		z = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		w = (m21 - m12) / s
		x = 0.25 * s
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = 0.25 * s
		z = (m12 + m21) / s
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = 0.25 * s
	}
	return Pose{
		R: r3.Rotation{Real: w, Imag: x, Jmag: y, Kmag: z},
		T: r3.Vec{X: m[3], Y: m[7], Z: m[11]},
	}
}

// RotationBetween returns the minimal rotation taking direction from onto
// direction to. Zero or parallel inputs give the identity; anti-parallel
// inputs give a half turn about an arbitrary perpendicular axis.
func RotationBetween(from, to r3.Vec) r3.Rotation {
	if r3.Norm(from) == 0 || r3.Norm(to) == 0 {
		return r3.Rotation{Real: 1}
	}
	f, t := r3.Unit(from), r3.Unit(to)
	axis := r3.Cross(f, t)
	s := r3.Norm(axis)
	c := r3.Dot(f, t)
	if s < 1e-12 {
		if c > 0 {
			return r3.Rotation{Real: 1}
		}
		perp := r3.Cross(f, r3.Vec{X: 1})
		if r3.Norm(perp) < 1e-12 {
			perp = r3.Cross(f, r3.Vec{Y: 1})
		}
		return r3.NewRotation(math.Pi, r3.Unit(perp))
	}
	return r3.NewRotation(math.Atan2(s, c), r3.Scale(1/s, axis))
}
