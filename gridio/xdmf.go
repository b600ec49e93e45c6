package gridio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxtrace/voxtrace/grid"
)

// field pairs a dataset name with its element size and XDMF number type.
type field struct {
	name       string
	numberType string
	precision  int
}

// fields lists the container datasets in file order.
var fields = []field{
	{"Views", "UInt", 2},
	{"Updates", "UInt", 2},
	{"Minimum", "Float", 4},
	{"Average", "Float", 4},
	{"Variance", "Float", 4},
	{"Centrality", "Float", 4},
	{"Normality", "Float", 4},
	{"Density", "Float", 4},
}

// WriteXDMF writes an XDMF sidecar describing the grid container at binFile
// so tools like ParaView can render each voxel field. The container must
// have been written by WriteGrid with the matching grid.
func WriteXDMF(file, binFile string, g *grid.Grid) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	n := g.Len()
	resolution := g.Props.Resolution

	// Cell-centered data on a corect mesh needs one more node than cells
	// per axis, listed Z, Y, X.
	adj := [3]int{g.Props.Size[2] + 1, g.Props.Size[1] + 1, g.Props.Size[0] + 1}

	// Voxel centers anchor the grid, so the mesh's corner sits half a voxel
	// below the local origin.
	lower := -0.5 * resolution

	fmt.Fprintf(f, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(f, "<!DOCTYPE Xdmf SYSTEM \"Xdmf.dtd\"[]>\n")
	fmt.Fprintf(f, "<Xdmf xmlns:xi=\"http://www.w3.org/2003/XInclude\" Version=\"2.2\">\n")
	fmt.Fprintf(f, " <Domain>\n")
	fmt.Fprintf(f, "  <Grid Name=\"GRID\" GridType=\"Uniform\">\n")
	fmt.Fprintf(f, "    <Geometry Type=\"ORIGIN_DXDYDZ\">\n")
	fmt.Fprintf(f, "      <Topology TopologyType=\"3DCoRectMesh\" Dimensions=\"%d %d %d\"></Topology>\n",
		adj[0], adj[1], adj[2])
	fmt.Fprintf(f, "      <DataItem Format=\"XML\" Dimensions=\"3\">%.8f %.8f %.8f</DataItem>\n",
		lower, lower, lower)
	fmt.Fprintf(f, "      <DataItem Format=\"XML\" Dimensions=\"3\">%.8f %.8f %.8f</DataItem>\n",
		resolution, resolution, resolution)
	fmt.Fprintf(f, "    </Geometry>\n")

	bin := filepath.Base(binFile)
	seek := 4 + 4 + int(binary.Size(gridHeader{}))
	for _, fd := range fields {
		fmt.Fprintf(f, "    <Attribute Name=%q AttributeType=\"Scalar\" Center=\"Cell\">\n", fd.name)
		fmt.Fprintf(f, "      <DataItem Format=\"Binary\" Endian=\"Little\" Seek=\"%d\" Dimensions=\"%d\" NumberType=%q Precision=\"%d\">\n",
			seek, n, fd.numberType, fd.precision)
		fmt.Fprintf(f, "        %s\n", bin)
		fmt.Fprintf(f, "      </DataItem>\n")
		fmt.Fprintf(f, "    </Attribute>\n")
		seek += n * fd.precision
	}

	fmt.Fprintf(f, "  </Grid>\n")
	fmt.Fprintf(f, " </Domain>\n")
	fmt.Fprintf(f, "</Xdmf>\n")
	return nil
}
