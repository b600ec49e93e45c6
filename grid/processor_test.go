package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func known(g *Grid) []Index {
	var out []Index
	var idx Index
	for z := 0; z < g.Props.Size[2]; z++ {
		for y := 0; y < g.Props.Size[1]; y++ {
			for x := 0; x < g.Props.Size[0]; x++ {
				idx = Index{x, y, z}
				if g.Vox(idx).Updates != 0 {
					out = append(out, idx)
				}
			}
		}
	}
	return out
}

func TestDilateGrowsFaceNeighbors(t *testing.T) {
	g := testGrid(t, 0.5, [3]int{3, 3, 3})
	center := Index{1, 1, 1}
	g.Vox(center).Update(Update{Dist: -0.1})

	NewProcessor(g).Dilate(1)

	got := known(g)
	assert.Len(t, got, 7, "center plus six face neighbors")
	assert.Contains(t, got, center, "center survives")
	for _, nb := range neighbors6(center) {
		assert.Contains(t, got, nb, "face neighbor %v marked", nb)
	}
}

func TestDilateKeepsStatisticsOfKnownVoxels(t *testing.T) {
	g := testGrid(t, 0.5, [3]int{3, 3, 3})
	center := Index{1, 1, 1}
	g.Vox(center).Update(Update{Dist: -0.1})

	NewProcessor(g).Dilate(1)

	assert.Equal(t, float32(-0.1), g.Vox(center).Min, "statistics carried over")
	assert.Equal(t, uint16(1), g.Vox(Index{0, 1, 1}).Updates, "grown voxel marked")
}

func TestErodeRemovesExposedVoxels(t *testing.T) {
	g := testGrid(t, 0.5, [3]int{3, 3, 3})
	center := Index{1, 1, 1}
	g.Vox(center).Update(Update{Dist: -0.1})

	p := NewProcessor(g)
	p.Dilate(1)
	p.Erode(1)

	// Only the center has no unknown contact after the dilation.
	assert.Equal(t, []Index{center}, known(g), "erosion keeps the sheltered center")
}

func TestErodeThresholdIsCounted(t *testing.T) {
	g := testGrid(t, 0.5, [3]int{3, 3, 3})
	center := Index{1, 1, 1}
	g.Vox(center).Update(Update{Dist: -0.1})

	// The lone center voxel touches six unknown neighbors; a threshold just
	// above that leaves it alone.
	NewProcessor(g).Erode(7)
	assert.Equal(t, []Index{center}, known(g), "below threshold")

	NewProcessor(g).Erode(6)
	assert.Empty(t, known(g), "at threshold the voxel clears")
}
