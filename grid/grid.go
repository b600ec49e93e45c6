/*Package grid implements a dense voxel grid of signed-distance records
together with its construction, index math and morphological processing.

Voxels are stored flat in x-fastest order. The grid's local frame has the
center of voxel (0,0,0) at the origin, so a point p maps to the index
round(p / resolution) and the zero-based AABB of the grid runs from the
origin to Dimensions.
*/
package grid

import (
	"errors"
	"log"
	"math"
	"unsafe"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
)

// ErrOutOfRange is returned by At for indices outside the grid.
var ErrOutOfRange = errors.New("grid: index out of range")

// allocWarnBytes is the voxel storage size above which NewGrid logs a
// warning before allocating.
const allocWarnBytes = 100 << 20

// An Index addresses a single voxel along the X, Y and Z axes.
type Index [3]int

// Grid is a dense block of voxels positioned in space by a pose. The pose
// maps the grid's local frame into the world frame; rays given in the world
// frame must be transformed into the grid frame before traversal.
type Grid struct {
	Pose  geom.Pose
	Props Properties

	voxels []Voxel
	scale  float64
}

// NewGrid allocates a grid with the given properties and all voxels reset.
func NewGrid(props Properties) (*Grid, error) {
	p, err := props.Copy()
	if err != nil {
		return nil, err
	}
	n := p.Len()
	if bytes := uintptr(n) * unsafe.Sizeof(Voxel{}); bytes > allocWarnBytes {
		log.Printf("[grid] allocating %d MB for %d voxels", bytes>>20, n)
	}
	g := &Grid{
		Pose:   geom.Ident(),
		Props:  p,
		voxels: make([]Voxel, n),
		scale:  1 / p.Resolution,
	}
	g.Clear()
	return g, nil
}

// Valid reports whether idx addresses a voxel inside the grid.
func (g *Grid) Valid(idx Index) bool {
	for i := 0; i < 3; i++ {
		if idx[i] < 0 || idx[i] >= g.Props.Size[i] {
			return false
		}
	}
	return true
}

func (g *Grid) linear(idx Index) int {
	return idx[0] + g.Props.Size[0]*(idx[1]+g.Props.Size[1]*idx[2])
}

// At returns the voxel at idx, or ErrOutOfRange if idx is outside the grid.
func (g *Grid) At(idx Index) (*Voxel, error) {
	if !g.Valid(idx) {
		return nil, ErrOutOfRange
	}
	return &g.voxels[g.linear(idx)], nil
}

// Vox returns the voxel at idx without a bounds check.
func (g *Grid) Vox(idx Index) *Voxel {
	return &g.voxels[g.linear(idx)]
}

// PointToIndex maps a point in the grid frame to the index of the voxel
// whose center is nearest. The result may be outside the grid.
func (g *Grid) PointToIndex(p r3.Vec) Index {
	return Index{
		int(math.Round(p.X * g.scale)),
		int(math.Round(p.Y * g.scale)),
		int(math.Round(p.Z * g.scale)),
	}
}

// IndexToPoint maps an index to the center of its voxel in the grid frame.
func (g *Grid) IndexToPoint(idx Index) r3.Vec {
	return r3.Vec{
		X: float64(idx[0]) * g.Props.Resolution,
		Y: float64(idx[1]) * g.Props.Resolution,
		Z: float64(idx[2]) * g.Props.Resolution,
	}
}

// Center returns the world-frame position of the spatial center of the grid.
func (g *Grid) Center() r3.Vec {
	return g.Pose.Transform(r3.Scale(0.5, g.Props.Dimensions))
}

// Len returns the number of voxels in the grid.
func (g *Grid) Len() int { return len(g.voxels) }

// Voxels returns the grid's backing voxel storage in x-fastest order. The
// slice aliases the grid; callers that mutate it mutate the grid.
func (g *Grid) Voxels() []Voxel { return g.voxels }

// Clear resets every voxel in the grid.
func (g *Grid) Clear() {
	for i := range g.voxels {
		g.voxels[i].Reset()
	}
}

// UpdateViewCount folds the per-scan view flag of every voxel into its view
// count. Call once after all rays of a scan have been traced; saturated
// counters stay saturated.
func (g *Grid) UpdateViewCount() {
	for i := range g.voxels {
		g.voxels[i].UpdateViewCount()
	}
}
