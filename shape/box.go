package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
)

// A Box is an analytical rectangular solid centered on its pose, with total
// side lengths along its local X, Y and Z axes.
type Box struct {
	P geom.Pose

	Length float64
	Width  float64
	Height float64
}

// NewBox creates a box with the given total side lengths posed at extr.
// Negative dimensions are treated as positive.
func NewBox(l, w, h float64, extr geom.Pose) *Box {
	return &Box{
		P:      extr,
		Length: math.Abs(l),
		Width:  math.Abs(w),
		Height: math.Abs(h),
	}
}

func (b *Box) Pose() *geom.Pose { return &b.P }

func (b *Box) Bounds() (lower, upper r3.Vec) {
	half := r3.Vec{X: 0.5 * b.Length, Y: 0.5 * b.Width, Z: 0.5 * b.Height}
	return r3.Scale(-1, half), half
}

// Hit is the slab test against the box's own faces.
func (b *Box) Hit(start, end r3.Vec) (float64, bool) {
	lower, upper := b.Bounds()
	return hitAABB(lower, upper, start, end)
}

// SignedDistance returns the distance from p, given in the frame extr, to
// the nearest face. Negative inside.
func (b *Box) SignedDistance(p r3.Vec, extr geom.Pose) float64 {
	local := extr.To(b.P).Transform(p)
	lower, upper := b.Bounds()

	lo := [3]float64{lower.X, lower.Y, lower.Z}
	hi := [3]float64{upper.X, upper.Y, upper.Z}
	pt := [3]float64{local.X, local.Y, local.Z}

	inside := true
	for ax := 0; ax < 3; ax++ {
		if pt[ax] < lo[ax] || pt[ax] > hi[ax] {
			inside = false
			break
		}
	}

	if inside {
		min := math.Inf(1)
		for ax := 0; ax < 3; ax++ {
			d := math.Min(pt[ax]-lo[ax], hi[ax]-pt[ax])
			if d < min {
				min = d
			}
		}
		return -min
	}

	var d [3]float64
	for ax := 0; ax < 3; ax++ {
		d[ax] = math.Max(math.Max(lo[ax]-pt[ax], 0), pt[ax]-hi[ax])
	}
	return math.Hypot(math.Hypot(d[0], d[1]), d[2])
}
