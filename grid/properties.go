package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// dimTol is the relative tolerance used when checking that Dimensions agrees
// with (Size-1)*Resolution.
const dimTol = 1e-9

// ConfigError reports an invalid combination of grid properties. It is
// raised at construction or copy; the caller must discard the value and
// reconstruct.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return "grid: invalid properties: " + e.msg
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Properties describes the shape of a Grid and the truncation band applied
// to TSDF ray updates. A valid Properties always satisfies
// Dimensions[i] == (Size[i]-1)*Resolution: the dimensions measure from the
// center of the first voxel (at the local origin) to the center of the last.
type Properties struct {
	// Resolution is the edge length of each cubic voxel.
	Resolution float64

	// Size is the number of voxels along X, Y and Z.
	Size [3]int

	// Dimensions is the spatial extent along each axis; this is also the
	// upper bound of the grid's zero-based AABB.
	Dimensions r3.Vec

	// MinDist and MaxDist are the signed truncation distances for TSDF
	// updates around a sensed point. MinDist is never positive, MaxDist
	// never negative.
	MinDist float64
	MaxDist float64
}

// NewProperties builds Properties from a voxel resolution and grid size; the
// dimensions are derived. The signs of minDist and maxDist are forced to
// negative and positive respectively.
func NewProperties(resolution float64, size [3]int, minDist, maxDist float64) (Properties, error) {
	p := Properties{
		Resolution: math.Abs(resolution),
		Size:       size,
		MinDist:    -math.Abs(minDist),
		MaxDist:    math.Abs(maxDist),
	}
	p.SetDimensions()
	if err := p.Validate(); err != nil {
		return Properties{}, err
	}
	return p, nil
}

// FitProperties builds Properties from a target size and spatial
// dimensions. The resolution is the smallest per-axis spacing that spans the
// requested dimensions; the size is then re-derived (rounding up, plus one
// voxel for centering) and the dimensions adjusted to match. The returned
// Size and Dimensions may therefore differ from the request.
func FitProperties(size [3]int, dims r3.Vec, minDist, maxDist float64) (Properties, error) {
	for _, n := range size {
		if n < 2 {
			return Properties{}, configErrorf("cannot fit a resolution to size %v", size)
		}
	}
	res := dims.X / float64(size[0]-1)
	if r := dims.Y / float64(size[1]-1); r < res {
		res = r
	}
	if r := dims.Z / float64(size[2]-1); r < res {
		res = r
	}
	fit := [3]int{
		int(math.Ceil(dims.X/res)) + 1,
		int(math.Ceil(dims.Y/res)) + 1,
		int(math.Ceil(dims.Z/res)) + 1,
	}
	return NewProperties(res, fit, minDist, maxDist)
}

// SetDimensions recomputes Dimensions from Size and Resolution.
func (p *Properties) SetDimensions() {
	p.Dimensions = r3.Vec{
		X: float64(p.Size[0]-1) * p.Resolution,
		Y: float64(p.Size[1]-1) * p.Resolution,
		Z: float64(p.Size[2]-1) * p.Resolution,
	}
}

// Copy returns the properties and re-runs validation, so that a copy of an
// invalid value fails just like constructing one.
func (p Properties) Copy() (Properties, error) {
	if err := p.Validate(); err != nil {
		return Properties{}, err
	}
	return p, nil
}

// Validate checks every Properties invariant, returning a *ConfigError for
// the first violation found.
func (p Properties) Validate() error {
	if math.IsNaN(p.Resolution) || p.Resolution <= 0 {
		return configErrorf("resolution %v must be positive", p.Resolution)
	}
	if math.IsNaN(p.MinDist) || math.IsNaN(p.MaxDist) || p.MinDist > 0 || p.MaxDist < 0 {
		return configErrorf("truncation band [%v, %v] must straddle zero", p.MinDist, p.MaxDist)
	}
	dims := [3]float64{p.Dimensions.X, p.Dimensions.Y, p.Dimensions.Z}
	for i, d := range dims {
		if math.IsNaN(d) || d <= 0 {
			return configErrorf("dimension %d is %v, must be positive", i, d)
		}
		if p.Size[i] <= 0 {
			return configErrorf("size %d is %d, must be positive", i, p.Size[i])
		}
		want := float64(p.Size[i]-1) * p.Resolution
		if !scalar.EqualWithinAbsOrRel(d, want, dimTol, dimTol) {
			return configErrorf(
				"dimension %d is %v but size and resolution give %v; "+
					"dimensions measure voxel center to voxel center, try SetDimensions",
				i, d, want)
		}
	}
	return nil
}

// Len returns the total number of voxels the properties describe.
func (p Properties) Len() int {
	return p.Size[0] * p.Size[1] * p.Size[2]
}
