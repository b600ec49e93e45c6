/*Package policy drives a reconstruction: a policy decides where to place
the depth sensor for each view, captures an image of the scene, and folds it
into the grid until its stopping criteria are met.
*/
package policy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/grid"
	"github.com/voxtrace/voxtrace/metrics"
	"github.com/voxtrace/voxtrace/sensor"
	"github.com/voxtrace/voxtrace/shape"
	"github.com/voxtrace/voxtrace/trace"
)

// A Policy selects sensor views for a reconstruction.
type Policy interface {
	// Done reports whether the stopping criteria are met.
	Done() bool

	// NextPose moves the sensor to the next view.
	NextPose()

	// Capture images the scene from the current pose and adds the result to
	// the grid.
	Capture()

	// Record returns the accumulated per-view metrics.
	Record() *metrics.SensorRecord
}

// Run repositions, images and integrates until the policy is done.
func Run(p Policy) {
	for !p.Done() {
		p.NextPose()
		p.Capture()
	}
}

// Base carries the collaborators every policy shares and implements the
// capture step.
type Base struct {
	Grid   *grid.Grid
	Sensor *sensor.DepthSensor
	Scene  shape.Scene
	Rec    *metrics.SensorRecord
}

// Capture images the scene and applies a TSDF update for every sensed point.
func (b *Base) Capture() {
	b.Sensor.Image(b.Scene)
	trace.AddSensorTSDF(b.Grid, b.Sensor, b.Rec)
}

// Record returns the accumulated per-view metrics.
func (b *Base) Record() *metrics.SensorRecord { return b.Rec }

// moveTo places the sensor at the world-frame position, pointed at the
// center of the grid.
func (b *Base) moveTo(position r3.Vec) {
	b.Sensor.Pose = geom.NewPose(geom.Ident().R, position)
	b.Sensor.PointAt(b.Grid.Center())
}

// sphericalPoint returns the unit vector at inclination phi from +Z, swung
// by theta about it.
func sphericalPoint(theta, phi float64) r3.Vec {
	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: math.Sin(theta) * sinPhi,
		Y: math.Cos(theta) * sinPhi,
		Z: math.Cos(phi),
	}
}
