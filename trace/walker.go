package trace

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/grid"
)

// A walker steps a ray through a grid one voxel at a time with the
// Amanatides-Woo traversal. See:
//
//	http://www.cse.yorku.ca/~amana/research/grid.pdf
//
// The ray is parametrized by time along its unit direction; tmax holds, per
// axis, the time at which the ray crosses the next voxel boundary on that
// axis, and each step advances whichever axis crosses soonest.
type walker struct {
	idx   grid.Index
	step  [3]int
	delta [3]float64
	tmax  [3]float64
}

// newWalker prepares a traversal of g starting at the in-grid point start
// with the given unit direction, its precomputed element-wise inverse, and
// the ray time t0 at which start lies.
func newWalker(g *grid.Grid, start, normal, inv r3.Vec, t0 float64) walker {
	res := g.Props.Resolution
	w := walker{
		idx:   g.PointToIndex(start),
		step:  [3]int{1, 1, 1},
		delta: [3]float64{res * inv.X, res * inv.Y, res * inv.Z},
		tmax:  [3]float64{t0, t0, t0},
	}

	// The traversal wants each voxel's origin at its lower corner, but the
	// grid anchors voxels at their centers, so shift the start point by half
	// a voxel before measuring boundary distances.
	n := [3]float64{normal.X, normal.Y, normal.Z}
	iv := [3]float64{inv.X, inv.Y, inv.Z}
	s := [3]float64{
		start.X + 0.5*res,
		start.Y + 0.5*res,
		start.Z + 0.5*res,
	}
	for ax := 0; ax < 3; ax++ {
		switch {
		case n[ax] > 0:
			// Moving up an axis: first crossing is the upper voxel boundary.
			w.tmax[ax] += (float64(w.idx[ax]+1)*res - s[ax]) * iv[ax]
		case n[ax] != 0:
			// Moving down: decrement instead, fix delta's sign, and measure
			// to the lower boundary of the starting voxel.
			w.step[ax] = -1
			w.delta[ax] = -w.delta[ax]
			w.tmax[ax] += (float64(w.idx[ax])*res - s[ax]) * iv[ax]
		default:
			// Exactly zero: never step this axis.
			w.tmax[ax] = math.Inf(1)
		}
	}
	return w
}

// axis returns the axis whose next boundary crossing comes soonest, breaking
// ties in favor of X then Y.
func (w *walker) axis() int {
	if w.tmax[0] < w.tmax[1] && w.tmax[0] < w.tmax[2] {
		return 0
	}
	if w.tmax[1] < w.tmax[2] {
		return 1
	}
	return 2
}

// within reports whether any axis still has a boundary crossing at or before
// time t.
func (w *walker) within(t float64) bool {
	return w.tmax[0] <= t || w.tmax[1] <= t || w.tmax[2] <= t
}

// past reports whether every axis has crossed beyond time t.
func (w *walker) past(t float64) bool {
	return w.tmax[0] > t && w.tmax[1] > t && w.tmax[2] > t
}

// advance steps the walker into the next voxel and returns the axis stepped.
func (w *walker) advance() int {
	ax := w.axis()
	w.tmax[ax] += w.delta[ax]
	w.idx[ax] += w.step[ax]
	return ax
}
