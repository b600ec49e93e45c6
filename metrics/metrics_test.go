package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxtrace/voxtrace/geom"
)

func TestRayMetricsReset(t *testing.T) {
	m := RayMetrics{Updates: 3, Views: 5, First: 1, MaxVariance: 0.25}
	m.Reset()
	assert.Equal(t, RayMetrics{MaxVariance: -1}, m, "reset state")
}

func TestAbsorbSkipsMissedRays(t *testing.T) {
	s := NewSensorMetrics(geom.Ident(), 4)
	s.Absorb(&RayMetrics{MaxVariance: -1})

	assert.Equal(t, 0, s.TotalViews, "missed ray adds nothing")
	assert.Equal(t, 0.0, s.PercentViewed, "missed ray not counted")
}

func TestAbsorbAccumulates(t *testing.T) {
	s := NewSensorMetrics(geom.Ident(), 4)
	s.Absorb(&RayMetrics{Updates: 2, Views: 5, First: 3, MaxVariance: 0.5})
	s.Absorb(&RayMetrics{Updates: 0, Views: 2, First: 0, MaxVariance: -1})
	s.Absorb(&RayMetrics{Updates: 1, Views: 1, First: 1, MaxVariance: 0.1})

	assert.Equal(t, 8, s.TotalViews, "views summed")
	assert.Equal(t, 3, s.TotalUpdates, "updates summed")
	assert.Equal(t, 4, s.TotalFirst, "first touches summed")
	assert.Equal(t, 3.0, s.PercentViewed, "three rays viewed something")
	assert.Equal(t, 2.0, s.PercentHit, "two rays updated something")
	assert.Equal(t, 0.5, s.MaxVariance, "largest variance wins")
}

func TestRecordAddNormalizesPercentages(t *testing.T) {
	rec := NewSensorRecord()

	s := NewSensorMetrics(geom.Ident(), 4)
	s.Absorb(&RayMetrics{Updates: 1, Views: 1})
	s.Absorb(&RayMetrics{Views: 2})
	rec.Add(s)

	assert.Equal(t, 1, rec.Len(), "one view recorded")
	assert.Equal(t, 0.25, rec.Views[0].PercentHit, "hit count over sensor size")
	assert.Equal(t, 0.5, rec.Views[0].PercentViewed, "viewed count over sensor size")
}
