package report

import (
	"errors"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/randomizedcoder/copybench/internal/runner"
)

// ErrNothingToPlot is returned by WriteSVG when no pair has a Summary.
var ErrNothingToPlot = errors.New("report: no successful pairs to plot")

// WriteSVG draws the mean iteration time of every successful pair, in
// microseconds, as a bar chart.
func WriteSVG(w io.Writer, r *runner.Report) error {
	var (
		means  plotter.Values
		labels []string
	)
	for _, o := range r.Outcomes {
		if !o.OK() {
			continue
		}
		means = append(means, o.Summary.Mean.Seconds()*1e6)
		labels = append(labels, o.Pair.String())
	}
	if len(means) == 0 {
		return ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = "Mean iteration time (run " + r.RunID.String()[:8] + ")"
	p.Y.Label.Text = "µs"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(means, vg.Points(14))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -0.9

	width := vg.Length(len(means))*vg.Points(22) + 2*vg.Inch
	writer, err := p.WriterTo(max(width, 6*vg.Inch), 5*vg.Inch, "svg")
	if err != nil {
		return err
	}
	_, err = writer.WriteTo(w)
	return err
}
