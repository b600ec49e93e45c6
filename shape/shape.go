/*Package shape provides analytical primitives for simulated scanning:
spheres and boxes with exact ray intersection and signed-distance queries,
grouped into scenes.

Hit tests take their segment in the primitive's own frame and parametrize it
so t=0 is the start point and t=1 the end; callers transform world-frame
rays with the primitive's pose first.
*/
package shape

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
)

// A Primitive is an analytical shape positioned in the world.
type Primitive interface {
	// Hit reports where the segment from start to end, in the primitive's
	// frame, first meets the surface. On a hit the returned t is in [0, 1].
	// On a miss that still crosses the surface's infinite extension, t holds
	// the smallest-magnitude crossing time with ok false.
	Hit(start, end r3.Vec) (t float64, ok bool)

	// SignedDistance returns the shortest distance from a point, given in
	// the frame extr, to the surface. Negative inside the shape.
	SignedDistance(p r3.Vec, extr geom.Pose) float64

	// Pose returns the primitive's world pose for caller-side frame math.
	Pose() *geom.Pose

	// Bounds returns the lower and upper corners of the primitive's
	// axis-aligned bounding box in its own frame.
	Bounds() (lower, upper r3.Vec)
}

// A Scene is a collection of primitives scanned together.
type Scene []Primitive

// hitAABB is a slab test against a box with the given corners. The segment
// runs from start (t=0) to end (t=1); on any overlap it returns the entry
// time and true.
func hitAABB(lower, upper, start, end r3.Vec) (float64, bool) {
	inv := geom.Inv(r3.Sub(end, start))

	lo := [3]float64{
		(lower.X - start.X) * inv.X,
		(lower.Y - start.Y) * inv.Y,
		(lower.Z - start.Z) * inv.Z,
	}
	hi := [3]float64{
		(upper.X - start.X) * inv.X,
		(upper.Y - start.Y) * inv.Y,
		(upper.Z - start.Z) * inv.Z,
	}
	invs := [3]float64{inv.X, inv.Y, inv.Z}

	tsAdj, teAdj := lo[0], hi[0]
	if invs[0] < 0 {
		tsAdj, teAdj = teAdj, tsAdj
	}
	for ax := 1; ax < 3; ax++ {
		tMin, tMax := lo[ax], hi[ax]
		if invs[ax] < 0 {
			tMin, tMax = tMax, tMin
		}
		if tsAdj > tMax || tMin > teAdj {
			return 0, false
		}
		if tMin > tsAdj {
			tsAdj = tMin
		}
		if tMax < teAdj {
			teAdj = tMax
		}
	}
	return tsAdj, tsAdj < 1 && 0 < teAdj
}
