/*Package metrics accumulates per-ray and per-view statistics about how a
scan changed a grid.

Each traced ray fills a RayMetrics, all rays of one sensor view are absorbed
into a SensorMetrics, and finished views are appended in order to a
SensorRecord. The record is what a view-selection policy inspects and what
gets written out alongside the grid.
*/
package metrics

import "github.com/voxtrace/voxtrace/geom"

// RayMetrics counts what a single traced ray did to the grid.
type RayMetrics struct {
	// Updates is the number of voxels that received a distance sample.
	Updates int

	// Views is the number of voxels the ray marked as seen, including the
	// updated ones.
	Views int

	// First is the number of voxels the ray touched for the very first time.
	First int

	// MaxVariance is the largest post-update variance among the voxels this
	// ray updated, or -1 if it updated none.
	MaxVariance float64
}

// Reset clears the metrics for reuse on the next ray.
func (m *RayMetrics) Reset() {
	*m = RayMetrics{MaxVariance: -1}
}

// SensorMetrics aggregates the ray metrics of one sensor view. PercentHit
// and PercentViewed accumulate as ray counts during Absorb and only become
// fractions when the metrics are added to a SensorRecord.
type SensorMetrics struct {
	// Pose of the sensor relative to the grid for this view.
	Pose geom.Pose

	TotalUpdates int
	TotalViews   int
	TotalFirst   int

	// Size is the number of rays the sensor casts per view.
	Size int

	PercentHit    float64
	PercentViewed float64

	MaxVariance float64
}

// NewSensorMetrics creates the metrics for one view of a sensor with the
// given grid-relative pose and ray count.
func NewSensorMetrics(pose geom.Pose, size int) *SensorMetrics {
	return &SensorMetrics{Pose: pose, Size: size}
}

// Absorb folds the metrics of one traced ray into the view totals. Rays that
// viewed no voxels contribute nothing.
func (s *SensorMetrics) Absorb(r *RayMetrics) {
	if r.Views == 0 {
		return
	}
	s.TotalViews += r.Views
	s.PercentViewed++

	if r.Updates > 0 {
		s.TotalUpdates += r.Updates
		s.PercentHit++
	}

	s.TotalFirst += r.First
	if r.MaxVariance > s.MaxVariance {
		s.MaxVariance = r.MaxVariance
	}
}

// SensorRecord is the ordered list of every view taken during a scan.
type SensorRecord struct {
	Views []SensorMetrics
}

// NewSensorRecord creates an empty record with room for a typical scan.
func NewSensorRecord() *SensorRecord {
	return &SensorRecord{Views: make([]SensorMetrics, 0, 20)}
}

// Add finalizes the view metrics, converting the hit and viewed ray counts
// into fractions of the sensor size, and appends them to the record.
func (r *SensorRecord) Add(s *SensorMetrics) {
	if s.Size > 0 {
		s.PercentHit /= float64(s.Size)
		s.PercentViewed /= float64(s.Size)
	}
	r.Views = append(r.Views, *s)
}

// Len returns the number of recorded views.
func (r *SensorRecord) Len() int { return len(r.Views) }
