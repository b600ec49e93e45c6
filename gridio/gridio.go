/*Package gridio reads and writes reconstruction results.

Grids go to a flat binary container: an endianness flag, a header size, the
header, then one dataset per voxel field in x-fastest order. A matching
XDMF sidecar file describes the container so ParaView can render the voxel
fields directly. Scan records go to CSV.
*/
package gridio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/grid"
)

// Endianness flags understood at the head of a grid container.
const (
	LittleEndianFlag int32 = 0
	BigEndianFlag    int32 = -1
)

// gridHeader is the fixed-size block following the endianness flag and
// header size in a grid container.
type gridHeader struct {
	// Session identifies the scan that produced the grid.
	Session [16]byte

	Resolution float64
	MinDist    float64
	MaxDist    float64

	Size       [3]int64
	Dimensions [3]float64

	// Pose is the grid's world pose as a row-major homogeneous matrix.
	Pose [16]float64

	// Count is the number of voxels in each dataset.
	Count int64
}

func headerSize() int32 {
	return int32(binary.Size(gridHeader{}))
}

// endianness converts an endianness flag to a byte order.
func endianness(flag int32) (binary.ByteOrder, error) {
	switch flag {
	case LittleEndianFlag:
		return binary.LittleEndian, nil
	case BigEndianFlag:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("gridio: unrecognized endianness flag %d", flag)
}

// columns is the struct-of-arrays layout the container stores voxels in.
type columns struct {
	views, updates  []uint16
	min, avg, vr    []float32
	cent, norm, rho []float32
}

func newColumns(n int) *columns {
	return &columns{
		views: make([]uint16, n), updates: make([]uint16, n),
		min: make([]float32, n), avg: make([]float32, n), vr: make([]float32, n),
		cent: make([]float32, n), norm: make([]float32, n), rho: make([]float32, n),
	}
}

func (c *columns) gather(vs []grid.Voxel) {
	for i, v := range vs {
		c.views[i], c.updates[i] = v.Views, v.Updates
		c.min[i], c.avg[i], c.vr[i] = v.Min, v.Avg, v.Var
		c.cent[i], c.norm[i], c.rho[i] = v.Cent, v.Norm, v.Rho
	}
}

func (c *columns) scatter(vs []grid.Voxel) {
	for i := range vs {
		vs[i] = grid.Voxel{
			Views: c.views[i], Updates: c.updates[i],
			Min: c.min[i], Avg: c.avg[i], Var: c.vr[i],
			Cent: c.cent[i], Norm: c.norm[i], Rho: c.rho[i],
		}
	}
}

// datasets lists the columns in container order.
func (c *columns) datasets() []interface{} {
	return []interface{}{c.views, c.updates, c.min, c.avg, c.vr, c.cent, c.norm, c.rho}
}

// WriteGrid writes the grid and its scan session ID to a binary container.
func WriteGrid(file string, g *grid.Grid, session uuid.UUID) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	h := gridHeader{
		Session:    session,
		Resolution: g.Props.Resolution,
		MinDist:    g.Props.MinDist,
		MaxDist:    g.Props.MaxDist,
		Size: [3]int64{
			int64(g.Props.Size[0]), int64(g.Props.Size[1]), int64(g.Props.Size[2]),
		},
		Dimensions: [3]float64{
			g.Props.Dimensions.X, g.Props.Dimensions.Y, g.Props.Dimensions.Z,
		},
		Pose:  g.Pose.Matrix(),
		Count: int64(g.Len()),
	}

	order, _ := endianness(LittleEndianFlag)
	if err := binary.Write(f, order, LittleEndianFlag); err != nil {
		return err
	}
	if err := binary.Write(f, order, headerSize()); err != nil {
		return err
	}
	if err := binary.Write(f, order, &h); err != nil {
		return err
	}

	cols := newColumns(g.Len())
	cols.gather(g.Voxels())
	for _, ds := range cols.datasets() {
		if err := binary.Write(f, order, ds); err != nil {
			return err
		}
	}
	return nil
}

func readHeader(f io.Reader) (*gridHeader, binary.ByteOrder, error) {
	var flag int32
	// Order doesn't matter for this read, the flags are symmetric.
	if err := binary.Read(f, binary.LittleEndian, &flag); err != nil {
		return nil, nil, err
	}
	order, err := endianness(flag)
	if err != nil {
		return nil, nil, err
	}

	var size int32
	if err := binary.Read(f, order, &size); err != nil {
		return nil, nil, err
	}
	if size != headerSize() {
		return nil, nil, fmt.Errorf("gridio: expected header size of %d, found %d",
			headerSize(), size)
	}

	h := &gridHeader{}
	if err := binary.Read(f, order, h); err != nil {
		return nil, nil, err
	}
	return h, order, nil
}

// ReadGrid reads a binary container back into a grid, returning the scan
// session it came from.
func ReadGrid(file string) (*grid.Grid, uuid.UUID, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, uuid.Nil, err
	}
	defer f.Close()

	h, order, err := readHeader(f)
	if err != nil {
		return nil, uuid.Nil, err
	}

	props, err := grid.NewProperties(
		h.Resolution,
		[3]int{int(h.Size[0]), int(h.Size[1]), int(h.Size[2])},
		h.MinDist, h.MaxDist,
	)
	if err != nil {
		return nil, uuid.Nil, err
	}
	g, err := grid.NewGrid(props)
	if err != nil {
		return nil, uuid.Nil, err
	}
	g.Pose = geom.PoseFromMatrix(h.Pose)

	if h.Count != int64(g.Len()) {
		return nil, uuid.Nil, fmt.Errorf(
			"gridio: header count %d does not match grid size %v", h.Count, g.Props.Size)
	}

	cols := newColumns(g.Len())
	for _, ds := range cols.datasets() {
		if err := binary.Read(f, order, ds); err != nil {
			return nil, uuid.Nil, err
		}
	}
	cols.scatter(g.Voxels())
	return g, uuid.UUID(h.Session), nil
}
