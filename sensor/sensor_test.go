package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/shape"
)

// singleRay is a one-ray camera looking straight down its principle axis.
func singleRay(dMax float64) Intrinsics {
	return CameraIntrinsics(1, 1, 0, dMax, 0, 0)
}

func vecsClose(t *testing.T, want, got r3.Vec, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "%s: x", msg)
	assert.InDelta(t, want.Y, got.Y, 1e-9, "%s: y", msg)
	assert.InDelta(t, want.Z, got.Z, 1e-9, "%s: z", msg)
}

func TestLaserResetDepth(t *testing.T) {
	intr := LaserIntrinsics(4, 3, 0.1, 7, -0.5, 0.5, -1, 1)
	s := NewDepthSensor(intr, geom.Ident())

	assert.Equal(t, 12, s.Len(), "ray count")
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, 7.0, s.Depth(i), "laser ray %d at full range", i)
	}
}

func TestCameraResetDepth(t *testing.T) {
	intr := CameraIntrinsics(3, 3, 0.1, 2, math.Pi/2, math.Pi/2)
	s := NewDepthSensor(intr, geom.Ident())

	center, err := s.AtXY(1, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 2, center, 1e-12, "axial ray measures the depth limit")

	// Corner rays reach the far plane at 45 degrees in both angles.
	corner, err := s.AtXY(0, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 4, corner, 1e-12, "corner ray twice as long")

	edge, err := s.AtXY(0, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 2*math.Sqrt2, edge, 1e-12, "edge ray")
}

func TestDepthAccessors(t *testing.T) {
	s := NewDepthSensor(LaserIntrinsics(2, 2, 0, 3, 0, 0, 0, 0), geom.Ident())

	d, err := s.At(0)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, d)

	_, err = s.At(4)
	assert.ErrorIs(t, err, ErrOutOfRange, "past the array")
	_, err = s.At(-1)
	assert.ErrorIs(t, err, ErrOutOfRange, "negative index")
	_, err = s.AtXY(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange, "column out of range")
	_, err = s.AtXY(0, 2)
	assert.ErrorIs(t, err, ErrOutOfRange, "row out of range")
}

func TestPositionOnAxis(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.Ident())
	vecsClose(t, r3.Vec{Z: 5}, s.Position(0), "axial ray lands on the principle axis")
}

func TestPositionsMatchPosition(t *testing.T) {
	intr := CameraIntrinsics(3, 2, 0.1, 2, math.Pi/3, math.Pi/4)
	s := NewDepthSensor(intr, geom.Ident())

	pts := s.Positions()
	assert.Len(t, pts, s.Len())
	for i := range pts {
		vecsClose(t, s.Position(i), pts[i], "ray")
	}
}

func TestPositionAngles(t *testing.T) {
	// One row of three rays spanning -45 to 45 degrees in phi.
	intr := LaserIntrinsics(3, 1, 0, 1, 0, 0, -math.Pi/4, math.Pi/4)
	s := NewDepthSensor(intr, geom.Ident())

	h := math.Sqrt2 / 2
	vecsClose(t, r3.Vec{X: -h, Z: h}, s.Position(0), "left ray")
	vecsClose(t, r3.Vec{Z: 1}, s.Position(1), "middle ray")
	vecsClose(t, r3.Vec{X: h, Z: h}, s.Position(2), "right ray")
}

func TestPointAt(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.NewPose(geom.Ident().R, r3.Vec{X: 2}))
	s.PointAt(r3.Vec{})

	// The principle axis now runs from the sensor toward the origin.
	vecsClose(t, r3.Vec{X: 1}, s.Pose.Transform(r3.Vec{Z: 1}), "unit axis point")
	vecsClose(t, r3.Vec{X: 2}, s.Pose.T, "position unchanged")
}

func TestPointAtSelfIsNoop(t *testing.T) {
	pose := geom.NewPose(geom.Ident().R, r3.Vec{X: 2})
	s := NewDepthSensor(singleRay(5), pose)
	s.PointAt(r3.Vec{X: 2})
	vecsClose(t, r3.Vec{X: 2, Z: 1}, s.Pose.Transform(r3.Vec{Z: 1}), "axis unchanged")
}

func TestImageSphere(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.NewPose(geom.Ident().R, r3.Vec{Z: -2}))

	s.Image(shape.Scene{shape.NewSphere(0.5, r3.Vec{})})
	assert.InDelta(t, 1.5, s.Depth(0), 1e-9, "ray stops at the near surface")
}

func TestImageKeepsNearestHit(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.NewPose(geom.Ident().R, r3.Vec{Z: -2}))

	near := shape.NewSphere(0.5, r3.Vec{})
	far := shape.NewSphere(0.2, r3.Vec{Z: 1})

	s.Image(shape.Scene{near, far})
	assert.InDelta(t, 1.5, s.Depth(0), 1e-9, "near surface wins")

	s.Image(shape.Scene{far, near})
	assert.InDelta(t, 1.5, s.Depth(0), 1e-9, "scene order does not matter")
}

func TestImageResetsFirst(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.NewPose(geom.Ident().R, r3.Vec{Z: -2}))

	s.Image(shape.Scene{shape.NewSphere(0.5, r3.Vec{})})
	s.Image(shape.Scene{})
	assert.Equal(t, 5.0, s.Depth(0), "empty scene restores full depth")
}

func TestImageMiss(t *testing.T) {
	s := NewDepthSensor(singleRay(5), geom.NewPose(geom.Ident().R, r3.Vec{Z: -2}))

	s.Image(shape.Scene{shape.NewSphere(0.5, r3.Vec{X: 3})})
	assert.Equal(t, 5.0, s.Depth(0), "offset sphere never crosses the ray")
}

func TestPresetIntrinsics(t *testing.T) {
	rs := RealSenseD455()
	assert.Equal(t, Camera, rs.Kind)
	assert.Equal(t, 1280*800, rs.Size())
	assert.InDelta(t, 87*math.Pi/180, rs.FovX(), 1e-12)

	wide := AzureKinect(true)
	assert.InDelta(t, 120*math.Pi/180, wide.FovY(), 1e-12)
	narrow := AzureKinect(false)
	assert.Equal(t, 640*576, narrow.Size())
}

func BenchmarkPositions(b *testing.B) {
	s := NewDepthSensor(CameraIntrinsics(128, 96, 0.1, 5, 1, 1), geom.Ident())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Positions()
	}
}

func BenchmarkImageSphere(b *testing.B) {
	s := NewDepthSensor(CameraIntrinsics(64, 48, 0.1, 5, 1, 1), geom.NewPose(geom.Ident().R, r3.Vec{Z: -2}))
	sc := shape.Scene{shape.NewSphere(0.5, r3.Vec{})}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Image(sc)
	}
}
