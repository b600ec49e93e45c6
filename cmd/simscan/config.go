package main

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/sensor"
	"github.com/voxtrace/voxtrace/shape"
)

const ExampleConfigFile = `[Grid]

#######################
# Required Parameters #
#######################

# Edge length of each cubic voxel, in world units.
Resolution = 0.02

# Number of voxels along each axis.
SizeX = 101
SizeY = 101
SizeZ = 101

# Truncation band for TSDF updates around each sensed point. MinDist is
# behind the surface, MaxDist in front of it; signs are normalized for you.
MinDist = 0.05
MaxDist = 0.05

#######################
# Optional Parameters #
#######################

# World position of the grid's center. Default is the origin.
# CenterX = 0
# CenterY = 0
# CenterZ = 0

[Sensor]

# Preset selects a known depth camera: RealSenseD455, AzureKinectWide or
# AzureKinectNarrow. Leave unset to describe the sensor by hand with the
# parameters below.
Preset = RealSenseD455

# Kind is Camera or Laser. A camera's rays end on a plane at DMax; a
# laser's rays all have length DMax.
# Kind = Camera

# Number of rays across (U) and down (V) the image.
# U = 64
# V = 64

# Depth limits, in world units.
# DMin = 0.5
# DMax = 5

# Field of view in degrees. For a laser these are the full theta and phi
# sweeps; for a camera they are symmetric about the principle axis.
# FovX = 87
# FovY = 58

[Policy]

# Kind selects the view policy: RandomSphere, OrderedUniform,
# ShuffledUniform or LowDiscrepancy.
Kind = OrderedUniform

# Number of views to capture.
Views = 15

# Radius of the view sphere around the grid center.
Radius = 2.5

# Seed for the random policies. Negative values draw a seed from the clock.
# Seed = 0

# Minimum arc length between views (LowDiscrepancy only).
# ArcLen = 0.1

# Attempts to find a spaced view before accepting any (LowDiscrepancy only).
# MaxAttempts = 10

[Output]

# Directory which output files will be written to.
Dir = .

# Base name for the output files: <Name>.grid, <Name>.xdmf, <Name>.csv.
Name = scan

# Each [Sphere "..."] and [Box "..."] section adds one primitive to the
# scene. Positions are world-frame; box widths are total edge lengths.

[Sphere "ball"]
X = 0
Y = 0
Z = 0
Radius = 0.5

# [Box "crate"]
# X = 0.8
# Y = 0
# Z = 0
# XWidth = 0.3
# YWidth = 0.3
# ZWidth = 0.3`

type GridConfig struct {
	Resolution          float64
	SizeX, SizeY, SizeZ int
	MinDist, MaxDist    float64

	CenterX, CenterY, CenterZ float64
}

func (c *GridConfig) CheckInit() error {
	if c.Resolution <= 0 {
		return fmt.Errorf("Need a positive 'Resolution', got %g.", c.Resolution)
	}
	if c.SizeX < 1 || c.SizeY < 1 || c.SizeZ < 1 {
		return fmt.Errorf("Grid size (%d, %d, %d) must be positive on every axis.",
			c.SizeX, c.SizeY, c.SizeZ)
	}
	return nil
}

func (c *GridConfig) Center() r3.Vec {
	return r3.Vec{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

type SensorConfig struct {
	Preset string

	Kind       string
	U, V       int
	DMin, DMax float64
	FovX, FovY float64
}

// Intrinsics resolves the configured preset or custom parameters.
func (c *SensorConfig) Intrinsics() (sensor.Intrinsics, error) {
	switch strings.ToLower(c.Preset) {
	case "realsensed455":
		return sensor.RealSenseD455(), nil
	case "azurekinectwide":
		return sensor.AzureKinect(true), nil
	case "azurekinectnarrow":
		return sensor.AzureKinect(false), nil
	case "":
	default:
		return sensor.Intrinsics{}, fmt.Errorf("Unrecognized sensor 'Preset' value '%s'.", c.Preset)
	}

	if c.U < 1 || c.V < 1 {
		return sensor.Intrinsics{}, fmt.Errorf("Sensor size (%d, %d) must be positive.", c.U, c.V)
	}
	fovX := c.FovX * math.Pi / 180
	fovY := c.FovY * math.Pi / 180
	switch strings.ToLower(c.Kind) {
	case "", "camera":
		return sensor.CameraIntrinsics(c.U, c.V, c.DMin, c.DMax, fovX, fovY), nil
	case "laser":
		return sensor.LaserIntrinsics(c.U, c.V, c.DMin, c.DMax,
			-0.5*fovY, 0.5*fovY, -0.5*fovX, 0.5*fovX), nil
	}
	return sensor.Intrinsics{}, fmt.Errorf("Unrecognized sensor 'Kind' value '%s'.", c.Kind)
}

type PolicyConfig struct {
	Kind   string
	Views  int
	Radius float64
	Seed   int64

	ArcLen      float64
	MaxAttempts int
}

func (c *PolicyConfig) CheckInit() error {
	if c.Views < 1 {
		return fmt.Errorf("Need at least one view, got %d.", c.Views)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("Need a positive view 'Radius', got %g.", c.Radius)
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 10
	}
	if c.ArcLen == 0 {
		c.ArcLen = 0.1
	}
	return nil
}

type OutputConfig struct {
	Dir  string
	Name string
}

func (c *OutputConfig) CheckInit() error {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Name == "" {
		return fmt.Errorf("Need an output 'Name'.")
	}
	return nil
}

type SphereConfig struct {
	X, Y, Z float64
	Radius  float64
}

type BoxConfig struct {
	X, Y, Z                float64
	XWidth, YWidth, ZWidth float64
}

type SimWrapper struct {
	Grid   GridConfig
	Sensor SensorConfig
	Policy PolicyConfig
	Output OutputConfig

	Sphere map[string]*SphereConfig
	Box    map[string]*BoxConfig
}

// Scene builds the configured primitives.
func (w *SimWrapper) Scene() (shape.Scene, error) {
	sc := shape.Scene{}
	for name, s := range w.Sphere {
		if s.Radius == 0 {
			return nil, fmt.Errorf("Need a positive 'Radius' for Sphere '%s'.", name)
		}
		sc = append(sc, shape.NewSphere(s.Radius, r3.Vec{X: s.X, Y: s.Y, Z: s.Z}))
	}
	for name, b := range w.Box {
		if b.XWidth == 0 || b.YWidth == 0 || b.ZWidth == 0 {
			return nil, fmt.Errorf("Need positive widths for Box '%s'.", name)
		}
		pose := geom.NewPose(geom.Ident().R, r3.Vec{X: b.X, Y: b.Y, Z: b.Z})
		sc = append(sc, shape.NewBox(b.XWidth, b.YWidth, b.ZWidth, pose))
	}
	if len(sc) == 0 {
		return nil, fmt.Errorf("Need at least one [Sphere \"...\"] or [Box \"...\"] section.")
	}
	return sc, nil
}
