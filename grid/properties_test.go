package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewPropertiesDerivesDimensions(t *testing.T) {
	p, err := NewProperties(0.5, [3]int{5, 9, 3}, 0.2, 0.3)
	assert.NoError(t, err, "valid properties")
	assert.Equal(t, r3.Vec{X: 2, Y: 4, Z: 1}, p.Dimensions, "center-to-center dimensions")
	assert.Equal(t, 5*9*3, p.Len(), "voxel count")
}

func TestNewPropertiesNormalizesSigns(t *testing.T) {
	p, err := NewProperties(-0.5, [3]int{3, 3, 3}, 0.2, -0.3)
	assert.NoError(t, err, "signs are normalized, not rejected")
	assert.Equal(t, 0.5, p.Resolution, "resolution positive")
	assert.Equal(t, -0.2, p.MinDist, "min dist negative")
	assert.Equal(t, 0.3, p.MaxDist, "max dist positive")
}

func TestNewPropertiesRejectsBadInput(t *testing.T) {
	_, err := NewProperties(0, [3]int{3, 3, 3}, 0.1, 0.1)
	assert.Error(t, err, "zero resolution")

	_, err = NewProperties(math.NaN(), [3]int{3, 3, 3}, 0.1, 0.1)
	assert.Error(t, err, "NaN resolution")

	_, err = NewProperties(0.5, [3]int{3, 0, 3}, 0.1, 0.1)
	assert.Error(t, err, "zero size")

	_, err = NewProperties(0.5, [3]int{3, 3, 3}, math.NaN(), 0.1)
	assert.Error(t, err, "NaN truncation")

	var confErr *ConfigError
	assert.ErrorAs(t, err, &confErr, "typed error")
}

func TestValidateCatchesDimensionDrift(t *testing.T) {
	p, err := NewProperties(0.5, [3]int{5, 5, 5}, 0.1, 0.1)
	assert.NoError(t, err, "starting point valid")

	p.Dimensions.Y += 0.25
	assert.Error(t, p.Validate(), "dimensions out of step with size and resolution")

	p.SetDimensions()
	assert.NoError(t, p.Validate(), "recomputing restores the invariant")
}

func TestFitPropertiesCoversRequestedVolume(t *testing.T) {
	p, err := FitProperties([3]int{5, 5, 5}, r3.Vec{X: 1, Y: 2, Z: 4}, 0.1, 0.1)
	assert.NoError(t, err, "fit succeeds")

	// The tightest axis wins the resolution, the others gain voxels.
	assert.Equal(t, 0.25, p.Resolution, "resolution from the tightest axis")
	assert.Equal(t, [3]int{5, 9, 17}, p.Size, "sizes re-derived")
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 4}, p.Dimensions, "dimensions preserved")
}

func TestFitPropertiesRejectsDegenerateSize(t *testing.T) {
	_, err := FitProperties([3]int{1, 5, 5}, r3.Vec{X: 1, Y: 1, Z: 1}, 0.1, 0.1)
	assert.Error(t, err, "one voxel along an axis has no spacing")
}

func TestCopyRevalidates(t *testing.T) {
	p, err := NewProperties(0.5, [3]int{5, 5, 5}, 0.1, 0.1)
	assert.NoError(t, err, "valid properties")

	q, err := p.Copy()
	assert.NoError(t, err, "copy of a valid value")
	assert.Equal(t, p, q, "copy is identical")

	p.Resolution = -1
	_, err = p.Copy()
	assert.Error(t, err, "copy of a corrupted value fails")
}
