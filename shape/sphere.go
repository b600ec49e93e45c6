package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
)

// A Sphere is an analytical sphere centered on its pose.
type Sphere struct {
	P      geom.Pose
	Radius float64
}

// NewSphere creates a sphere of the given radius centered at the world-frame
// point center. A negative radius is treated as positive.
func NewSphere(radius float64, center r3.Vec) *Sphere {
	return &Sphere{
		P:      geom.NewPose(geom.Ident().R, center),
		Radius: math.Abs(radius),
	}
}

func (s *Sphere) Pose() *geom.Pose { return &s.P }

func (s *Sphere) Bounds() (lower, upper r3.Vec) {
	r := s.Radius
	return r3.Vec{X: -r, Y: -r, Z: -r}, r3.Vec{X: r, Y: r, Z: r}
}

// Hit solves the quadratic for the segment against the sphere surface. The
// quadratic formula is evaluated in the sign-stable form from
// https://people.csail.mit.edu/bkph/articles/Quadratics.pdf so that two
// nearly equal roots do not cancel.
func (s *Sphere) Hit(start, end r3.Vec) (float64, bool) {
	lower, upper := s.Bounds()
	if _, ok := hitAABB(lower, upper, start, end); !ok {
		return 0, false
	}

	r2 := s.Radius * s.Radius
	a := r3.Norm2(r3.Sub(start, end))
	c := r3.Norm2(start) - r2
	b := r3.Norm2(end) - a - c - r2

	d := b*b - 4*a*c
	if d < 0 {
		return 0, false
	}

	d = math.Sqrt(d)
	a *= 2
	c *= 2
	b = -b
	if b > 0 {
		b += d
	} else {
		b -= d
	}
	t := c / b
	x := b / a

	// Keep the root closest to zero on the correct side: the smaller of two
	// positive roots, or the larger of two negative ones.
	if t >= 0 {
		if x > 0 && x < t {
			t = x
		}
	} else {
		if x < 0 {
			if x > t {
				t = x
			}
		} else {
			t = x
		}
	}
	return t, 0 <= t && t <= 1
}

// SignedDistance returns the distance from p, given in the frame extr, to
// the sphere surface. Negative inside.
func (s *Sphere) SignedDistance(p r3.Vec, extr geom.Pose) float64 {
	local := extr.To(s.P).Transform(p)
	return r3.Norm(local) - s.Radius
}
