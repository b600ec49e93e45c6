package gridio

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/grid"
	"github.com/voxtrace/voxtrace/metrics"
)

// scannedGrid builds a small grid with non-trivial voxel contents.
func scannedGrid(t *testing.T) *grid.Grid {
	t.Helper()
	props, err := grid.NewProperties(0.25, [3]int{4, 5, 6}, 0.1, 0.3)
	assert.NoError(t, err)
	g, err := grid.NewGrid(props)
	assert.NoError(t, err)
	g.Pose = geom.NewPose(geom.Ident().R, r3.Vec{X: 1, Y: -2, Z: 0.5})

	rng := rand.New(rand.NewSource(3))
	for z := 0; z < 6; z++ {
		for y := 0; y < 5; y++ {
			for x := 0; x < 4; x++ {
				v := g.Vox(grid.Index{x, y, z})
				for k := rng.Intn(4); k > 0; k-- {
					v.Update(grid.Update{
						Dist: float32(rng.NormFloat64()),
						Cent: rng.Float32(), Norm: rng.Float32(), Rho: rng.Float32(),
					})
				}
			}
		}
	}
	g.UpdateViewCount()
	return g
}

func TestGridRoundTrip(t *testing.T) {
	g := scannedGrid(t)
	session := uuid.New()
	file := filepath.Join(t.TempDir(), "scan.grid")

	assert.NoError(t, WriteGrid(file, g, session), "write")

	got, gotSession, err := ReadGrid(file)
	assert.NoError(t, err, "read")
	assert.Equal(t, session, gotSession, "session preserved")

	assert.Empty(t, cmp.Diff(g.Props, got.Props), "properties")
	assert.Empty(t, cmp.Diff(g.Voxels(), got.Voxels()), "voxel data")

	assert.InDelta(t, g.Pose.T.X, got.Pose.T.X, 1e-12)
	assert.InDelta(t, g.Pose.T.Y, got.Pose.T.Y, 1e-12)
	assert.InDelta(t, g.Pose.T.Z, got.Pose.T.Z, 1e-12)
	for i, m := range g.Pose.Matrix() {
		assert.InDelta(t, m, got.Pose.Matrix()[i], 1e-12, "pose matrix element %d", i)
	}
}

func TestReadGridRejectsBadFlag(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.grid")
	assert.NoError(t, os.WriteFile(file, []byte{7, 7, 7, 7, 0, 0, 0, 0}, 0666))

	_, _, err := ReadGrid(file)
	assert.ErrorContains(t, err, "endianness flag", "unknown flag rejected")
}

func TestReadGridRejectsBadHeaderSize(t *testing.T) {
	g := scannedGrid(t)
	file := filepath.Join(t.TempDir(), "scan.grid")
	assert.NoError(t, WriteGrid(file, g, uuid.New()))

	// Corrupt the stored header size.
	raw, err := os.ReadFile(file)
	assert.NoError(t, err)
	raw[4]++
	assert.NoError(t, os.WriteFile(file, raw, 0666))

	_, _, err = ReadGrid(file)
	assert.ErrorContains(t, err, "header size", "size mismatch rejected")
}

func TestReadGridTruncated(t *testing.T) {
	g := scannedGrid(t)
	file := filepath.Join(t.TempDir(), "scan.grid")
	assert.NoError(t, WriteGrid(file, g, uuid.New()))

	raw, err := os.ReadFile(file)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(file, raw[:len(raw)-32], 0666))

	_, _, err = ReadGrid(file)
	assert.Error(t, err, "short read surfaces")
}

func TestWriteXDMFReferencesContainer(t *testing.T) {
	g := scannedGrid(t)
	dir := t.TempDir()
	xdmf := filepath.Join(dir, "scan.xdmf")

	assert.NoError(t, WriteXDMF(xdmf, "scan.grid", g))

	raw, err := os.ReadFile(xdmf)
	assert.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "scan.grid", "binary container referenced")
	assert.Contains(t, text, "3DCoRectMesh", "topology declared")
	for _, name := range []string{
		"Views", "Updates", "Minimum", "Average", "Variance",
		"Centrality", "Normality", "Density",
	} {
		assert.Contains(t, text, `Name="`+name+`"`, "field present")
	}

	// One cell-sized dataset per field, all binary with explicit offsets.
	assert.Equal(t, 8, strings.Count(text, `Format="Binary"`), "eight datasets")
	assert.Equal(t, 8, strings.Count(text, "Seek="), "eight seek offsets")
}

func TestRecordRoundTrip(t *testing.T) {
	rec := metrics.NewSensorRecord()
	for i := 0; i < 3; i++ {
		sm := metrics.NewSensorMetrics(
			geom.NewPose(geom.Ident().R, r3.Vec{X: float64(i), Y: -1, Z: 2}), 4)
		sm.TotalUpdates = 10 * i
		sm.TotalViews = 20 * i
		sm.TotalFirst = i
		sm.PercentHit = float64(i)
		sm.PercentViewed = float64(2 * i)
		sm.MaxVariance = 0.25 * float64(i)
		rec.Add(sm)
	}

	file := filepath.Join(t.TempDir(), "scan.csv")
	assert.NoError(t, WriteRecordCSV(file, rec), "write")

	got, err := ReadRecordCSV(file)
	assert.NoError(t, err, "read")
	assert.Equal(t, rec.Len(), got.Len(), "view count")

	for i, want := range rec.Views {
		g := got.Views[i]
		assert.Equal(t, want.TotalUpdates, g.TotalUpdates, "view %d updates", i)
		assert.Equal(t, want.TotalViews, g.TotalViews, "view %d views", i)
		assert.Equal(t, want.TotalFirst, g.TotalFirst, "view %d first", i)
		assert.InDelta(t, want.PercentHit, g.PercentHit, 1e-12, "view %d hit", i)
		assert.InDelta(t, want.PercentViewed, g.PercentViewed, 1e-12, "view %d viewed", i)
		assert.InDelta(t, want.MaxVariance, g.MaxVariance, 1e-12, "view %d variance", i)
		for j, m := range want.Pose.Matrix() {
			assert.InDelta(t, m, g.Pose.Matrix()[j], 1e-9, "view %d pose element %d", i, j)
		}
	}
}

func TestReadRecordRejectsOtherFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.csv")
	assert.NoError(t, os.WriteFile(file, []byte("a,b\n1,2\n"), 0666))

	_, err := ReadRecordCSV(file)
	assert.ErrorContains(t, err, "not a scan record")
}

func TestRecordRoundTripEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scan.csv")
	assert.NoError(t, WriteRecordCSV(file, metrics.NewSensorRecord()))

	got, err := ReadRecordCSV(file)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Len(), "header only")
}

func TestHeaderSizeIsStable(t *testing.T) {
	// 16 session bytes, 3 distances, 3 sizes, 3 dimensions, a 4x4 pose and a
	// count, all eight bytes wide except the session.
	assert.EqualValues(t, 16+8*(3+3+3+16+1), headerSize())
}

func TestEndiannessFlags(t *testing.T) {
	_, err := endianness(LittleEndianFlag)
	assert.NoError(t, err)
	_, err = endianness(BigEndianFlag)
	assert.NoError(t, err)
	_, err = endianness(math.MaxInt32)
	assert.Error(t, err)
}
