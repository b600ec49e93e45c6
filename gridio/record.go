package gridio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/voxtrace/voxtrace/geom"
	"github.com/voxtrace/voxtrace/metrics"
)

// recordColumns is the CSV header for scan records: one row per view,
// metrics first, then the row-major sensor pose.
var recordColumns = []string{
	"index",
	"total_updates", "total_views", "total_first",
	"percent_hit", "percent_viewed", "max_variance",
	"m00", "m01", "m02", "m03",
	"m10", "m11", "m12", "m13",
	"m20", "m21", "m22", "m23",
	"m30", "m31", "m32", "m33",
}

// WriteRecordCSV writes one row per recorded view, in capture order.
func WriteRecordCSV(file string, rec *metrics.SensorRecord) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordColumns); err != nil {
		return err
	}
	for i, s := range rec.Views {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(s.TotalUpdates),
			strconv.Itoa(s.TotalViews),
			strconv.Itoa(s.TotalFirst),
			strconv.FormatFloat(s.PercentHit, 'g', -1, 64),
			strconv.FormatFloat(s.PercentViewed, 'g', -1, 64),
			strconv.FormatFloat(s.MaxVariance, 'g', -1, 64),
		}
		for _, m := range s.Pose.Matrix() {
			row = append(row, strconv.FormatFloat(m, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadRecordCSV reads a scan record written by WriteRecordCSV.
func ReadRecordCSV(file string) (*metrics.SensorRecord, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) != len(recordColumns) {
		return nil, fmt.Errorf("gridio: %s is not a scan record", file)
	}

	rec := metrics.NewSensorRecord()
	for _, row := range rows[1:] {
		s, err := parseRecordRow(row)
		if err != nil {
			return nil, fmt.Errorf("gridio: %s: %v", file, err)
		}
		rec.Views = append(rec.Views, s)
	}
	return rec, nil
}

func parseRecordRow(row []string) (metrics.SensorMetrics, error) {
	var s metrics.SensorMetrics
	if len(row) != len(recordColumns) {
		return s, fmt.Errorf("row has %d columns, want %d", len(row), len(recordColumns))
	}

	ints := []*int{&s.TotalUpdates, &s.TotalViews, &s.TotalFirst}
	for i, dst := range ints {
		n, err := strconv.Atoi(row[1+i])
		if err != nil {
			return s, err
		}
		*dst = n
	}

	fs := []*float64{&s.PercentHit, &s.PercentViewed, &s.MaxVariance}
	for i, dst := range fs {
		v, err := strconv.ParseFloat(row[4+i], 64)
		if err != nil {
			return s, err
		}
		*dst = v
	}

	var m [16]float64
	for i := range m {
		v, err := strconv.ParseFloat(row[7+i], 64)
		if err != nil {
			return s, err
		}
		m[i] = v
	}
	s.Pose = geom.PoseFromMatrix(m)
	return s, nil
}
