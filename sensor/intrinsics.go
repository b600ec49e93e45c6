package sensor

import "math"

// Kind identifies the projection model of a depth sensor.
type Kind int

const (
	// Camera sensors measure depth along the principle axis: every ray of a
	// fresh image ends on a plane normal to +Z at the maximum depth.
	Camera Kind = iota

	// Laser sensors measure range along each ray: every ray of a fresh
	// image has the same length.
	Laser
)

// Intrinsics describe the sampling pattern of a depth sensor: a U by V
// array of rays fanned over a spherical field of view. Theta is the angle
// in the sensor's YZ-plane (image height), phi the angle in the XZ-plane
// (image width); both are measured from the +Z principle axis in radians.
type Intrinsics struct {
	Kind Kind

	// U and V are the number of rays across and down the image.
	U, V int

	// DMin and DMax are the sensor's depth limits.
	DMin, DMax float64

	ThetaMin, ThetaMax float64
	PhiMin, PhiMax     float64
}

// CameraIntrinsics builds depth-camera intrinsics with a field of view
// symmetric about the principle axis.
func CameraIntrinsics(u, v int, dMin, dMax, fovX, fovY float64) Intrinsics {
	return Intrinsics{
		Kind: Camera,
		U:    u, V: v,
		DMin: dMin, DMax: dMax,
		ThetaMin: -0.5 * fovY, ThetaMax: 0.5 * fovY,
		PhiMin: -0.5 * fovX, PhiMax: 0.5 * fovX,
	}
}

// LaserIntrinsics builds laser-scanner intrinsics with explicit, possibly
// asymmetric angle bounds.
func LaserIntrinsics(u, v int, dMin, dMax, thetaMin, thetaMax, phiMin, phiMax float64) Intrinsics {
	return Intrinsics{
		Kind: Laser,
		U:    u, V: v,
		DMin: dMin, DMax: dMax,
		ThetaMin: thetaMin, ThetaMax: thetaMax,
		PhiMin: phiMin, PhiMax: phiMax,
	}
}

// RealSenseD455 returns intrinsics matching the stereo depth camera of an
// Intel RealSense D455.
//
// https://www.intelrealsense.com/depth-camera-d455/
func RealSenseD455() Intrinsics {
	return CameraIntrinsics(1280, 800, 0.6, 6, 87*math.Pi/180, 58*math.Pi/180)
}

// AzureKinect returns intrinsics matching the time-of-flight depth camera
// of a Microsoft Azure Kinect, in its wide or narrow field-of-view mode.
//
// https://learn.microsoft.com/en-us/azure/kinect-dk/hardware-specification
func AzureKinect(wideFOV bool) Intrinsics {
	if wideFOV {
		return CameraIntrinsics(1024, 1024, 0.25, 2.21, 120*math.Pi/180, 120*math.Pi/180)
	}
	return CameraIntrinsics(640, 576, 0.3, 3.86, 65*math.Pi/180, 75*math.Pi/180)
}

// FovX returns the field of view across the image in radians.
func (i Intrinsics) FovX() float64 { return i.PhiMax - i.PhiMin }

// FovY returns the field of view down the image in radians.
func (i Intrinsics) FovY() float64 { return i.ThetaMax - i.ThetaMin }

// Size returns the total number of rays in the sensor.
func (i Intrinsics) Size() int { return i.U * i.V }

// dPhi is the angular spacing between image columns.
func (i Intrinsics) dPhi() float64 {
	if i.U < 2 {
		return 0
	}
	return i.FovX() / float64(i.U-1)
}

// dTheta is the angular spacing between image rows.
func (i Intrinsics) dTheta() float64 {
	if i.V < 2 {
		return 0
	}
	return i.FovY() / float64(i.V-1)
}
