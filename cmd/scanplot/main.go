/*scanplot renders the per-view metrics of a scan record to PNG: coverage
(fraction of rays that hit and that viewed the grid) and the largest voxel
variance per view.

	scanplot -Record scan.csv -Output scan
*/
package main

import (
	"flag"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/voxtrace/voxtrace/gridio"
	"github.com/voxtrace/voxtrace/metrics"
)

func main() {
	var recordPath, outBase string
	flag.StringVar(&recordPath, "Record", "",
		"Scan record CSV written by simscan.")
	flag.StringVar(&outBase, "Output", "scan",
		"Base name for the output PNGs: <Output>_coverage.png and <Output>_variance.png.")
	flag.Parse()

	if recordPath == "" {
		log.Fatalf("Need a -Record file.")
	}
	rec, err := gridio.ReadRecordCSV(recordPath)
	if err != nil {
		log.Fatalf(err.Error())
	}
	if rec.Len() == 0 {
		log.Fatalf("Record %s has no views to plot.", recordPath)
	}

	if err := plotCoverage(rec, outBase+"_coverage.png"); err != nil {
		log.Fatalf(err.Error())
	}
	if err := plotVariance(rec, outBase+"_variance.png"); err != nil {
		log.Fatalf(err.Error())
	}
	log.Printf("[scanplot] wrote %s_coverage.png and %s_variance.png over %d views",
		outBase, outBase, rec.Len())
}

func series(rec *metrics.SensorRecord, f func(metrics.SensorMetrics) float64) plotter.XYs {
	pts := make(plotter.XYs, len(rec.Views))
	for i, v := range rec.Views {
		pts[i].X = float64(i)
		pts[i].Y = f(v)
	}
	return pts
}

func plotCoverage(rec *metrics.SensorRecord, file string) error {
	p := plot.New()
	p.Title.Text = "Ray coverage per view"
	p.X.Label.Text = "view"
	p.Y.Label.Text = "fraction of rays"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	hit, err := plotter.NewLine(series(rec,
		func(v metrics.SensorMetrics) float64 { return v.PercentHit }))
	if err != nil {
		return err
	}
	viewed, err := plotter.NewLine(series(rec,
		func(v metrics.SensorMetrics) float64 { return v.PercentViewed }))
	if err != nil {
		return err
	}
	viewed.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(hit, viewed, plotter.NewGrid())
	p.Legend.Add("hit", hit)
	p.Legend.Add("viewed", viewed)

	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}

func plotVariance(rec *metrics.SensorRecord, file string) error {
	p := plot.New()
	p.Title.Text = "Largest update variance per view"
	p.X.Label.Text = "view"
	p.Y.Label.Text = "variance"

	line, err := plotter.NewLine(series(rec,
		func(v metrics.SensorMetrics) float64 { return v.MaxVariance }))
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())

	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
