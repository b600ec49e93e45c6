/*simscan runs a simulated 3D reconstruction: a depth sensor orbits a scene
of analytical primitives under a view policy, each image is fused into a
TSDF voxel grid, and the grid plus per-view metrics are written out.

Run with a config file:

	simscan -Config scan.cfg

or print a documented example config:

	simscan -ExampleConfig
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/gcfg.v1"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/grid"
	"github.com/voxtrace/voxtrace/gridio"
	"github.com/voxtrace/voxtrace/metrics"
	"github.com/voxtrace/voxtrace/policy"
	"github.com/voxtrace/voxtrace/sensor"
	"github.com/voxtrace/voxtrace/shape"
)

func main() {
	var (
		configPath    string
		exampleConfig bool
	)
	flag.StringVar(&configPath, "Config", "",
		"Configuration file describing the grid, sensor, policy and scene.")
	flag.BoolVar(&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout and exits.")
	flag.Parse()

	if exampleConfig {
		fmt.Println(ExampleConfigFile)
		return
	}
	if configPath == "" {
		log.Fatalf("Need a -Config file. Run with -ExampleConfig to see the format.")
	}

	wrap := &SimWrapper{}
	if err := gcfg.ReadFileInto(wrap, configPath); err != nil {
		log.Fatalf(err.Error())
	}
	if err := wrap.Grid.CheckInit(); err != nil {
		log.Fatalf(err.Error())
	}
	if err := wrap.Policy.CheckInit(); err != nil {
		log.Fatalf(err.Error())
	}
	if err := wrap.Output.CheckInit(); err != nil {
		log.Fatalf(err.Error())
	}

	g := setupGrid(&wrap.Grid)
	s := setupSensor(&wrap.Sensor)
	sc, err := wrap.Scene()
	if err != nil {
		log.Fatalf(err.Error())
	}

	p := setupPolicy(&wrap.Policy, g, s, sc)
	session := uuid.New()

	log.Printf("[simscan] session %s: %d views of %d primitives onto a %v grid",
		session, wrap.Policy.Views, len(sc), g.Props.Size)
	policy.Run(p)

	rec := p.Record()
	writeOutputs(&wrap.Output, g, rec, session)
	logSummary(rec)
}

func setupGrid(c *GridConfig) *grid.Grid {
	props, err := grid.NewProperties(
		c.Resolution,
		[3]int{c.SizeX, c.SizeY, c.SizeZ},
		c.MinDist, c.MaxDist,
	)
	if err != nil {
		log.Fatalf(err.Error())
	}
	g, err := grid.NewGrid(props)
	if err != nil {
		log.Fatalf(err.Error())
	}

	// Place the grid so its spatial center sits at the configured point.
	g.Pose = geom.NewPose(geom.Ident().R,
		r3.Sub(c.Center(), r3.Scale(0.5, props.Dimensions)))
	return g
}

func setupSensor(c *SensorConfig) *sensor.DepthSensor {
	intr, err := c.Intrinsics()
	if err != nil {
		log.Fatalf(err.Error())
	}
	return sensor.NewDepthSensor(intr, geom.Ident())
}

func setupPolicy(c *PolicyConfig, g *grid.Grid, s *sensor.DepthSensor, sc shape.Scene) policy.Policy {
	var (
		p   policy.Policy
		err error
	)
	switch strings.ToLower(c.Kind) {
	case "", "ordereduniform":
		p, err = policy.NewOrderedUniform(g, s, sc, c.Views, c.Radius)
	case "shuffleduniform":
		p, err = policy.NewShuffledUniform(g, s, sc, c.Views, c.Radius, c.Seed)
	case "randomsphere":
		p, err = policy.NewRandomSphere(g, s, sc, c.Views, c.Radius, c.Seed)
	case "lowdiscrepancy":
		p, err = policy.NewLowDiscrepancySphere(g, s, sc,
			c.Views, c.Radius, c.ArcLen, c.Seed, c.MaxAttempts)
	default:
		log.Fatalf("Unrecognized policy 'Kind' value '%s'.", c.Kind)
	}
	if err != nil {
		log.Fatalf(err.Error())
	}
	return p
}

func writeOutputs(c *OutputConfig, g *grid.Grid, rec *metrics.SensorRecord, session uuid.UUID) {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		log.Fatalf(err.Error())
	}
	base := filepath.Join(c.Dir, c.Name)

	if err := gridio.WriteGrid(base+".grid", g, session); err != nil {
		log.Fatalf(err.Error())
	}
	if err := gridio.WriteXDMF(base+".xdmf", base+".grid", g); err != nil {
		log.Fatalf(err.Error())
	}
	if err := gridio.WriteRecordCSV(base+".csv", rec); err != nil {
		log.Fatalf(err.Error())
	}
	log.Printf("[simscan] wrote %s.grid, %s.xdmf and %s.csv", base, base, base)
}

func logSummary(rec *metrics.SensorRecord) {
	for i, v := range rec.Views {
		log.Printf("[simscan] view %2d: %6.2f%% hit, %6.2f%% viewed, "+
			"%d updates, %d first touches, max variance %.4g",
			i, 100*v.PercentHit, 100*v.PercentViewed,
			v.TotalUpdates, v.TotalFirst, v.MaxVariance)
	}
}
