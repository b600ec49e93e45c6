package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// axisSlab returns the entry and exit times of a ray against one axis of a
// box spanning [0, bound] on that axis. A ray parallel to the axis (inverse
// direction ±Inf) either misses outright or imposes no constraint; the box
// faces are inclusive for this test.
func axisSlab(bound, origin, inv float64) (enter, exit float64, ok bool) {
	if math.IsInf(inv, 0) {
		if origin < 0 || origin > bound {
			return 0, 0, false
		}
		return math.Inf(-1), math.Inf(1), true
	}
	lo := (0 - origin) * inv
	hi := (bound - origin) * inv
	if inv >= 0 {
		return lo, hi, true
	}
	return hi, lo, true
}

// ClipAABB intersects a ray with the axis-aligned box [0, bound]. The ray is
// given by its origin and the pre-computed component-wise inverse of its unit
// direction; ts and te bound the candidate time interval.
//
// The returned tsAdj and teAdj are where the ray enters and leaves the box
// along any axis; tsAdj may be less than ts and teAdj greater than te, and
// the caller must intersect the result with [ts, te] itself. The boolean is
// false when the ray misses the box entirely or the overlap with [ts, te] is
// empty.
//
// All components of bound must be positive and the direction must have been
// normalized before inversion; neither is checked here.
func ClipAABB(bound, origin, invDir r3.Vec, ts, te float64) (tsAdj, teAdj float64, ok bool) {
	tsAdj, teAdj, ok = axisSlab(bound.X, origin.X, invDir.X)
	if !ok {
		return 0, 0, false
	}

	enter, exit, ok := axisSlab(bound.Y, origin.Y, invDir.Y)
	if !ok || tsAdj > exit || enter > teAdj {
		return 0, 0, false
	}
	if enter > tsAdj {
		tsAdj = enter
	}
	if exit < teAdj {
		teAdj = exit
	}

	enter, exit, ok = axisSlab(bound.Z, origin.Z, invDir.Z)
	if !ok || tsAdj > exit || enter > teAdj {
		return 0, 0, false
	}
	if enter > tsAdj {
		tsAdj = enter
	}
	if exit < teAdj {
		teAdj = exit
	}

	return tsAdj, teAdj, tsAdj < te && ts < teAdj
}
