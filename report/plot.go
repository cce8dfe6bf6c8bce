package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

// PlotSize is the width and height of the written chart.
const PlotSize = 6 * vg.Inch

// WritePlot draws predicted against actual closes with the identity line and
// saves the chart to path. The image format follows the extension (.png, .svg, .pdf).
func WritePlot(path string, predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return errors.NewDimensionError("report.WritePlot", len(actual), len(predicted), 0)
	}
	if len(actual) == 0 {
		return errors.NewEmptyDatasetError("report.WritePlot", "test")
	}

	pts := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}

	if hi-lo == 0 {
		// one point predicted exactly; widen the axes around it
		pad := math.Max(1, math.Abs(lo)*0.01)
		lo, hi = lo-pad, hi+pad
	}

	p := plot.New()
	p.Title.Text = "Predicted vs actual close (test subset)"
	p.X.Label.Text = "Actual close"
	p.Y.Label.Text = "Predicted close"
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = lo, hi

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2)

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(plotter.NewGrid(), scatter, identity)
	p.Legend.Add("test rows", scatter)
	p.Legend.Add("y = x", identity)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(PlotSize, PlotSize, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
