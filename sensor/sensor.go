/*Package sensor simulates depth sensors: a posed array of rays with
camera or laser projection that images analytical scenes.

The sensor's frame has +Z as the principle axis. A fresh image starts every
ray at its maximum depth; imaging a scene scales each hit ray down to the
first surface it meets. Sensed points come back in the sensor's own frame
and are transformed by callers.
*/
package sensor

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/shape"
)

// ErrOutOfRange is returned by the checked depth accessors for an index
// outside the sensor array.
var ErrOutOfRange = errors.New("sensor: index out of range")

// A DepthSensor is a posed depth sensor holding one depth value per ray.
type DepthSensor struct {
	Pose geom.Pose
	Intr Intrinsics

	depth []float64
}

// NewDepthSensor creates a sensor with the given intrinsics at pose, with
// every ray at maximum depth.
func NewDepthSensor(intr Intrinsics, pose geom.Pose) *DepthSensor {
	s := &DepthSensor{
		Pose:  pose,
		Intr:  intr,
		depth: make([]float64, intr.Size()),
	}
	s.ResetDepth()
	return s
}

// Len returns the number of rays in the sensor.
func (s *DepthSensor) Len() int { return len(s.depth) }

// Depth returns the depth of ray i without a bounds check.
func (s *DepthSensor) Depth(i int) float64 { return s.depth[i] }

// At returns the depth of ray i, or ErrOutOfRange.
func (s *DepthSensor) At(i int) (float64, error) {
	if i < 0 || i >= len(s.depth) {
		return 0, ErrOutOfRange
	}
	return s.depth[i], nil
}

// AtXY returns the depth of the ray at image position (x, y), or
// ErrOutOfRange.
func (s *DepthSensor) AtXY(x, y int) (float64, error) {
	if x < 0 || x >= s.Intr.U || y < 0 || y >= s.Intr.V {
		return 0, ErrOutOfRange
	}
	return s.depth[s.Intr.U*y+x], nil
}

// ResetDepth restores every ray to its maximum depth. For a laser every ray
// has length DMax; for a camera the rays end on the plane normal to the
// principle axis at distance DMax, so off-axis rays are longer.
func (s *DepthSensor) ResetDepth() {
	if s.Intr.Kind == Laser {
		for i := range s.depth {
			s.depth[i] = s.Intr.DMax
		}
		return
	}

	dTheta, dPhi := s.Intr.dTheta(), s.Intr.dPhi()
	theta := s.Intr.ThetaMax
	i := 0
	for y := 0; y < s.Intr.V; y++ {
		phi := s.Intr.PhiMin
		cosTheta := math.Cos(theta)
		for x := 0; x < s.Intr.U; x++ {
			s.depth[i] = s.Intr.DMax / (cosTheta * math.Cos(phi))
			phi += dPhi
			i++
		}
		theta -= dTheta
	}
}

// Position returns the sensed point of ray i in the sensor's frame.
func (s *DepthSensor) Position(i int) r3.Vec {
	x, y := i%s.Intr.U, i/s.Intr.U
	phi := s.Intr.PhiMin + float64(x)*s.Intr.dPhi()
	theta := s.Intr.ThetaMax - float64(y)*s.Intr.dTheta()
	return r3.Scale(s.depth[i], r3.Vec{
		X: math.Sin(phi),
		Y: -math.Sin(theta) * math.Cos(phi),
		Z: math.Cos(theta) * math.Cos(phi),
	})
}

// Positions returns the sensed points of every ray in the sensor's frame.
// The column angles repeat down the image, so their sines and cosines are
// computed once per column.
func (s *DepthSensor) Positions() []r3.Vec {
	dTheta, dPhi := s.Intr.dTheta(), s.Intr.dPhi()

	sinPhi := make([]float64, s.Intr.U)
	cosPhi := make([]float64, s.Intr.U)
	phi := s.Intr.PhiMin
	for x := 0; x < s.Intr.U; x++ {
		sinPhi[x] = math.Sin(phi)
		cosPhi[x] = math.Cos(phi)
		phi += dPhi
	}

	points := make([]r3.Vec, s.Intr.Size())
	theta := s.Intr.ThetaMax
	i := 0
	for y := 0; y < s.Intr.V; y++ {
		nSinTheta := -math.Sin(theta)
		cosTheta := math.Cos(theta)
		for x := 0; x < s.Intr.U; x++ {
			points[i] = r3.Scale(s.depth[i], r3.Vec{
				X: sinPhi[x],
				Y: nSinTheta * cosPhi[x],
				Z: cosTheta * cosPhi[x],
			})
			i++
		}
		theta -= dTheta
	}
	return points
}

// PointAt orients the sensor so its principle axis points at the
// world-frame target. The pose is unchanged when the target coincides with
// the sensor's position.
func (s *DepthSensor) PointAt(target r3.Vec) {
	s.Pose.RotateBody(geom.RotationBetween(r3.Vec{Z: 1}, r3.Sub(target, s.Pose.T)))
}

// Image captures a depth image of the scene, resetting all rays to their
// maximum depth first. Each ray keeps the nearest hit over all primitives.
func (s *DepthSensor) Image(sc shape.Scene) {
	s.ResetDepth()
	for _, prim := range sc {
		s.imagePrimitive(prim)
	}
}

// imagePrimitive scales each ray's depth by the first intersection with the
// primitive. Both ray ends are moved into the primitive's frame for the
// hit tests.
func (s *DepthSensor) imagePrimitive(prim shape.Primitive) {
	toPrim := s.Pose.To(*prim.Pose())
	start := prim.Pose().Inverse().Transform(s.Pose.T)

	ends := s.Positions()
	toPrim.TransformAll(ends)

	for i := range ends {
		if t, ok := prim.Hit(start, ends[i]); ok {
			s.depth[i] *= t
		}
	}
}
