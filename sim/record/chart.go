package record

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// palette cycles through line colors for multi-component charts.
var palette = []drawing.Color{
	chart.ColorBlue, chart.ColorRed, chart.ColorGreen, chart.ColorOrange,
	chart.ColorCyan, drawing.Color{R: 128, G: 0, B: 128, A: 255}, chart.ColorYellow,
	drawing.Color{R: 255, G: 105, B: 180, A: 255}, chart.ColorBlack,
}

// ChartLine is one plotted line.
type ChartLine struct {
	Name    string
	X, Y    []float64
	Dashed  bool
	Palette int
}

// LinesFor returns one line per component of key, named after the key and
// component index. Single-valued keys yield one line named after the key.
func LinesFor(m *Memory, key string) ([]ChartLine, error) {
	s, err := m.MustSeries(key)
	if err != nil {
		return nil, err
	}
	w := s.Width()
	lines := make([]ChartLine, w)
	for i := 0; i < w; i++ {
		name := key
		if w > 1 {
			name = fmt.Sprintf("%s[%d]", key, i)
		}
		lines[i] = ChartLine{Name: name, X: s.XValues(), Y: s.Column(i), Palette: i}
	}
	return lines, nil
}

// RenderChart draws lines as a PNG time-series chart into w.
func RenderChart(w io.Writer, title, yLabel string, lines []ChartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("chart %q: nothing to plot", title)
	}
	xMax := 1.0
	yMin, yMax := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(lines))
	for _, l := range lines {
		if len(l.X) < 2 {
			return fmt.Errorf("chart %q: series %s needs at least 2 samples, got %d", title, l.Name, len(l.X))
		}
		xMax = max(xMax, l.X[len(l.X)-1])
		yMin = min(yMin, floats.Min(l.Y))
		yMax = max(yMax, floats.Max(l.Y))
		style := chart.Style{
			StrokeColor: palette[l.Palette%len(palette)],
			StrokeWidth: 2.0,
		}
		if l.Dashed {
			style.StrokeDashArray = []float64{5.0, 5.0}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: l.X,
			YValues: l.Y,
			Style:   style,
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 480,
		XAxis: chart.XAxis{
			Name:  "Time (min)",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	// go-chart cannot scale a flat line.
	if yMax == yMin {
		graph.YAxis.Range = &chart.ContinuousRange{Min: yMin, Max: yMin + 1}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart %q: %w", title, err)
	}
	return nil
}
