package policy

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxtrace/voxtrace/grid"
	"github.com/voxtrace/voxtrace/metrics"
	"github.com/voxtrace/voxtrace/sensor"
	"github.com/voxtrace/voxtrace/shape"
)

// goldenAngle in radians. Successive views swing by this angle so that any
// number of them spreads evenly around the sphere.
// See https://en.wikipedia.org/wiki/Golden_angle
var goldenAngle = math.Pi * (math.Sqrt(5) - 1)

// nearlyOne replaces one in the Fibonacci lattice denominator so a request
// for a single view does not divide by zero.
var nearlyOne = 1 - (math.Nextafter(1, 2) - 1)

// uniformPose returns the i-th of n points of a Fibonacci sphere lattice.
// See https://arxiv.org/pdf/0912.4540.pdf
func uniformPose(i, n int) r3.Vec {
	y := 1 - (float64(i)/(float64(n)-nearlyOne))*2
	rY := math.Sqrt(1 - y*y)
	theta := goldenAngle * float64(i)
	return r3.Vec{
		X: math.Cos(theta) * rY,
		Y: y,
		Z: math.Sin(theta) * rY,
	}
}

// OrderedUniform captures a fixed number of views spaced evenly over a
// sphere around the grid's center, sweeping from the top of the sphere to
// the bottom.
type OrderedUniform struct {
	Base

	// Views is the number of views to capture.
	Views int

	// Radius of the view sphere around the grid center.
	Radius float64

	captured int

	// order permutes the lattice points when non-nil.
	order []int
}

// NewOrderedUniform creates the policy.
func NewOrderedUniform(g *grid.Grid, s *sensor.DepthSensor, sc shape.Scene, n int, radius float64) (*OrderedUniform, error) {
	if n < 1 {
		return nil, fmt.Errorf("policy: cannot request %d views", n)
	}
	return &OrderedUniform{
		Base:   Base{Grid: g, Sensor: s, Scene: sc, Rec: metrics.NewSensorRecord()},
		Views:  n,
		Radius: radius,
	}, nil
}

// NewShuffledUniform creates a policy that visits the same evenly spaced
// views in a shuffled order. A negative seed draws one from the clock.
func NewShuffledUniform(g *grid.Grid, s *sensor.DepthSensor, sc shape.Scene, n int, radius float64, seed int64) (*OrderedUniform, error) {
	p, err := NewOrderedUniform(g, s, sc, n, radius)
	if err != nil {
		return nil, err
	}
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	p.order = rand.New(rand.NewSource(seed)).Perm(n)
	return p, nil
}

func (p *OrderedUniform) Done() bool { return p.captured >= p.Views }

func (p *OrderedUniform) NextPose() {
	i := p.captured
	if p.order != nil {
		i = p.order[i]
	}
	p.moveTo(r3.Add(r3.Scale(p.Radius, uniformPose(i, p.Views)), p.Grid.Center()))
}

func (p *OrderedUniform) Capture() {
	p.Base.Capture()
	p.captured++
}
