/*Package trace casts rays through a voxel grid, applying either a flat
update to every traversed voxel or a truncated signed-distance update around
a sensed point.

All entry points accept world-frame (or caller-frame) coordinates and handle
the transformation into the grid's frame; each finishes a complete view by
folding the grid's per-view flags into its view counts.
*/
package trace

import (
	"errors"
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/grid"
	"github.com/voxtrace/voxtrace/metrics"
	"github.com/voxtrace/voxtrace/sensor"
)

// ErrMismatchedBatch is returned when a batched call receives start and end
// lists of different lengths.
var ErrMismatchedBatch = errors.New("trace: start and end point lists must be the same length")

// addRay walks the segment from rs to re, both in the grid frame, applying u
// to every voxel traversed. Returns false if the segment misses the grid or
// has zero length.
func addRay(g *grid.Grid, rs, re r3.Vec, u grid.Update) bool {
	normal, length := geom.RayNormal(rs, re)
	if length == 0 {
		return false
	}
	inv := geom.Inv(normal)

	tsAdj, teAdj, ok := geom.ClipAABB(g.Props.Dimensions, rs, inv, 0, length)
	if !ok {
		return false
	}
	if tsAdj < 0 {
		tsAdj = 0
	}
	if teAdj > length {
		teAdj = length
	}

	start := r3.Add(rs, r3.Scale(tsAdj, normal))
	w := newWalker(g, start, normal, inv, tsAdj)

	for {
		v, err := g.At(w.idx)
		if err != nil {
			log.Printf("[trace] ray update left the grid at %v: %v", w.idx, err)
			break
		}
		v.Update(u)

		// Stop once every boundary crossing lies past the clipped exit, so
		// the voxel containing the exit point is still visited.
		if w.past(teAdj) {
			break
		}
		w.advance()
	}
	return true
}

// addTSDF walks the ray from sensed back toward origin, both in the grid
// frame. Voxels within the truncation band get a signed-distance sample;
// voxels between the band and the origin are only marked viewed. Returns
// false if the ray misses the grid or origin and sensed coincide.
func addTSDF(g *grid.Grid, origin, sensed r3.Vec, rm *metrics.RayMetrics) bool {
	// The ray runs from the sensed point to the origin so that distances are
	// negative behind the surface and positive in front of it.
	normal, tf := geom.RayNormal(sensed, origin)
	if tf == 0 {
		return false
	}
	inv := geom.Inv(normal)

	tnAdj, tfAdj, ok := geom.ClipAABB(g.Props.Dimensions, sensed, inv, g.Props.MinDist, tf)
	if !ok {
		return false
	}
	if tfAdj > tf {
		tfAdj = tf
	}
	tpAdj := tfAdj
	if tpAdj > g.Props.MaxDist {
		tpAdj = g.Props.MaxDist
	}
	if tnAdj < g.Props.MinDist {
		tnAdj = g.Props.MinDist
	}

	start := r3.Add(sensed, r3.Scale(tnAdj, normal))
	w := newWalker(g, start, normal, inv, tnAdj)

	u := grid.Update{Dist: float32(tnAdj)}

	// First walk covers the truncation band and applies distance samples.
	for w.within(tpAdj) {
		v, err := g.At(w.idx)
		if err != nil {
			log.Printf("[trace] tsdf ray left the grid at %v: %v", w.idx, err)
			return true
		}
		if v.Views == 0 {
			rm.First++
		}
		v.Update(u)
		if float64(v.Var) > rm.MaxVariance {
			rm.MaxVariance = float64(v.Var)
		}

		ax := w.advance()
		u.Dist = float32(w.tmax[ax])

		rm.Updates++
		rm.Views++
	}

	// Second walk continues to the origin side, marking voxels as viewed
	// without touching their statistics.
	for w.within(tfAdj) {
		v, err := g.At(w.idx)
		if err != nil {
			log.Printf("[trace] tsdf ray left the grid at %v: %v", w.idx, err)
			return true
		}
		if v.Views == 0 {
			rm.First++
		}
		v.SetViewFlag()

		w.advance()
		rm.Views++
	}
	return true
}

// AddRayUpdate applies u to every voxel on the segment from rs to re, given
// in the frame of extr. Returns true if at least one voxel was updated.
func AddRayUpdate(g *grid.Grid, rs, re r3.Vec, u grid.Update, extr geom.Pose) bool {
	to := extr.To(g.Pose)
	res := addRay(g, to.Transform(rs), to.Transform(re), u)
	g.UpdateViewCount()
	return res
}

// AddRayUpdateBatch applies u along each paired segment rs[i]..re[i], given
// in the frame of extr. Returns true if any ray updated a voxel.
func AddRayUpdateBatch(g *grid.Grid, rs, re []r3.Vec, u grid.Update, extr geom.Pose) (bool, error) {
	if len(rs) != len(re) {
		return false, ErrMismatchedBatch
	}
	to := extr.To(g.Pose)
	res := false
	for i := range rs {
		if addRay(g, to.Transform(rs[i]), to.Transform(re[i]), u) {
			res = true
		}
	}
	g.UpdateViewCount()
	return res, nil
}

// AddSensorUpdate applies u along the ray to every point the sensor
// measured. Returns true if any ray updated a voxel.
func AddSensorUpdate(g *grid.Grid, s *sensor.DepthSensor, u grid.Update) bool {
	to := s.Pose.To(g.Pose)
	origin := g.Pose.Inverse().Transform(s.Pose.T)

	res := false
	for i := 0; i < s.Len(); i++ {
		if addRay(g, origin, to.Transform(s.Position(i)), u) {
			res = true
		}
	}
	g.UpdateViewCount()
	return res
}

// AddRayTSDF applies a truncated signed-distance update for the ray from
// origin to the sensed point, given in the frame of extr. Returns true if
// the ray traversed at least one voxel.
func AddRayTSDF(g *grid.Grid, origin, sensed r3.Vec, extr geom.Pose, rm *metrics.RayMetrics) bool {
	to := extr.To(g.Pose)
	res := addTSDF(g, to.Transform(origin), to.Transform(sensed), rm)
	g.UpdateViewCount()
	return res
}

// AddRaysTSDF applies TSDF updates for rays from a shared origin to each
// sensed point, given in the frame of extr, absorbing per-ray metrics into
// sm. Returns true if any ray traversed a voxel.
func AddRaysTSDF(g *grid.Grid, origin r3.Vec, sensed []r3.Vec, extr geom.Pose, sm *metrics.SensorMetrics) bool {
	to := extr.To(g.Pose)
	originThis := to.Transform(origin)

	var rm metrics.RayMetrics
	res := false
	for i := range sensed {
		rm.Reset()
		if addTSDF(g, originThis, to.Transform(sensed[i]), &rm) {
			res = true
		}
		sm.Absorb(&rm)
	}
	g.UpdateViewCount()
	return res
}

// AddRayTSDFBatch applies TSDF updates for each paired ray origin[i] to
// sensed[i], given in the frame of extr. Returns true if any ray traversed
// a voxel.
func AddRayTSDFBatch(g *grid.Grid, origin, sensed []r3.Vec, extr geom.Pose, sm *metrics.SensorMetrics) (bool, error) {
	if len(origin) != len(sensed) {
		return false, ErrMismatchedBatch
	}
	to := extr.To(g.Pose)

	var rm metrics.RayMetrics
	res := false
	for i := range sensed {
		rm.Reset()
		if addTSDF(g, to.Transform(origin[i]), to.Transform(sensed[i]), &rm) {
			res = true
		}
		sm.Absorb(&rm)
	}
	g.UpdateViewCount()
	return res, nil
}

// AddSensorTSDF applies TSDF updates for every point the sensor measured
// and appends the view's metrics to rec. Returns true if any ray traversed
// a voxel.
func AddSensorTSDF(g *grid.Grid, s *sensor.DepthSensor, rec *metrics.SensorRecord) bool {
	to := s.Pose.To(g.Pose)
	origin := g.Pose.Inverse().Transform(s.Pose.T)

	sm := metrics.NewSensorMetrics(g.Pose.To(s.Pose), s.Len())
	var rm metrics.RayMetrics

	res := false
	for i := 0; i < s.Len(); i++ {
		rm.Reset()
		if addTSDF(g, origin, to.Transform(s.Position(i)), &rm) {
			res = true
		}
		sm.Absorb(&rm)
	}
	rec.Add(sm)
	g.UpdateViewCount()
	return res
}
