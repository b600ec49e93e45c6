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

// RandomSphere samples sensor views uniformly at random from a sphere around
// the grid's center. Sampling follows
// http://corysimon.github.io/articles/uniformdistn-on-sphere/ so views do not
// cluster at the poles.
type RandomSphere struct {
	Base

	// Views is the number of views to capture.
	Views int

	// Radius of the view sphere around the grid center.
	Radius float64

	rng      *rand.Rand
	captured int
}

// NewRandomSphere creates the policy. A negative seed draws one from the
// clock; any fixed seed reproduces the same view sequence.
func NewRandomSphere(g *grid.Grid, s *sensor.DepthSensor, sc shape.Scene, n int, radius float64, seed int64) (*RandomSphere, error) {
	if n < 1 {
		return nil, fmt.Errorf("policy: cannot request %d views", n)
	}
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSphere{
		Base:   Base{Grid: g, Sensor: s, Scene: sc, Rec: metrics.NewSensorRecord()},
		Views:  n,
		Radius: radius,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

func (p *RandomSphere) Done() bool { return p.captured >= p.Views }

func (p *RandomSphere) NextPose() {
	theta, phi := p.randomThetaPhi()
	p.moveTo(r3.Add(r3.Scale(p.Radius, sphericalPoint(theta, phi)), p.Grid.Center()))
}

func (p *RandomSphere) Capture() {
	p.Base.Capture()
	p.captured++
}

// randomThetaPhi draws an angle pair uniform over the sphere: theta wraps
// the full circle, phi comes from the inverse CDF of the inclination and
// flips sign half the time to cover both orientations of the sensor.
func (p *RandomSphere) randomThetaPhi() (theta, phi float64) {
	theta = 2 * math.Pi * p.rng.Float64()
	phi = math.Acos(1 - 2*p.rng.Float64())
	if p.rng.Float64() < 0.5 {
		phi = -phi
	}
	return theta, phi
}

// LowDiscrepancySphere samples random views like RandomSphere but rejects
// candidates closer than a minimum arc length to any previous view, up to a
// bounded number of attempts per view.
type LowDiscrepancySphere struct {
	RandomSphere

	// ArcLen is the minimum great-circle distance between views.
	ArcLen float64

	// MaxAttempts bounds the rejection loop; when exhausted the candidate is
	// accepted anyway and BrokeDiscrepancy is incremented.
	MaxAttempts int

	// BrokeDiscrepancy counts views that violated the spacing requirement.
	BrokeDiscrepancy int

	thetas []float64
	phis   []float64
}

// NewLowDiscrepancySphere creates the policy with the given minimum view
// spacing. A negative seed draws one from the clock.
func NewLowDiscrepancySphere(g *grid.Grid, s *sensor.DepthSensor, sc shape.Scene,
	n int, radius, arcLen float64, seed int64, maxAttempts int) (*LowDiscrepancySphere, error) {

	rs, err := NewRandomSphere(g, s, sc, n, radius, seed)
	if err != nil {
		return nil, err
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("policy: cannot limit view sampling to %d attempts", maxAttempts)
	}
	return &LowDiscrepancySphere{
		RandomSphere: *rs,
		ArcLen:       math.Abs(arcLen),
		MaxAttempts:  maxAttempts,
		thetas:       make([]float64, 0, n),
		phis:         make([]float64, 0, n),
	}, nil
}

func (p *LowDiscrepancySphere) NextPose() {
	var theta, phi float64
	for attempts := 0; ; {
		theta, phi = p.randomThetaPhi()
		attempts++
		if p.spaced(theta, phi) {
			break
		}
		if attempts >= p.MaxAttempts {
			p.BrokeDiscrepancy++
			break
		}
	}
	p.thetas = append(p.thetas, theta)
	p.phis = append(p.phis, phi)
	p.moveTo(r3.Add(r3.Scale(p.Radius, sphericalPoint(theta, phi)), p.Grid.Center()))
}

// spaced reports whether the candidate angles are at least ArcLen from every
// accepted view, by the great-circle distance formula from
// https://math.stackexchange.com/a/231225.
func (p *LowDiscrepancySphere) spaced(theta, phi float64) bool {
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	for i := range p.thetas {
		d := p.Radius * math.Acos(
			math.Cos(p.phis[i])*cosPhi+math.Sin(p.phis[i])*sinPhi*math.Cos(p.thetas[i]-theta))
		if d < p.ArcLen {
			return false
		}
	}
	return true
}
