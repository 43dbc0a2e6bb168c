package record

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultHistogramBins is used when RenderHistogram is given bins <= 0.
const DefaultHistogramBins = 30

// RenderHistogram draws the distribution of values as a PNG into w.
func RenderHistogram(w io.Writer, title, xLabel string, values []int, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("histogram %q: no values", title)
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	vals := make(plotter.Values, len(values))
	for i, v := range values {
		vals[i] = float64(v)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Number of progeny"

	h, err := newHist(vals, bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %w", title, err)
	}
	p.Add(h)

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("histogram %q: %w", title, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing histogram %q: %w", title, err)
	}
	return nil
}

// newHist bins vals, using a single unit-wide bin when every value is equal.
func newHist(vals plotter.Values, bins int) (*plotter.Histogram, error) {
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo != hi {
		return plotter.NewHist(vals, bins)
	}
	h, err := plotter.NewHist(plotter.Values{lo - 0.5, lo + 0.5}, 1)
	if err != nil {
		return nil, err
	}
	h.Bins = []plotter.HistogramBin{{Min: lo - 0.5, Max: lo + 0.5, Weight: float64(len(vals))}}
	h.Width = 1
	return h, nil
}
