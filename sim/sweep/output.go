package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/virosim/virosim/sim/record"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteRawCSV writes every run's history of key: one row per run and
// component holding the value at each sampled step. With groupByRow the
// rows are ordered by component first, then run.
func WriteRawCSV(w io.Writer, runs []*record.Memory, key string, groupByRow bool) error {
	if len(runs) == 0 {
		return fmt.Errorf("writing %s: no runs", key)
	}
	series := make([]*record.Series, len(runs))
	width := 0
	for i, run := range runs {
		s, err := run.MustSeries(key)
		if err != nil {
			return err
		}
		series[i] = s
		width = max(width, s.Width())
	}

	cw := csv.NewWriter(w)
	header := []string{"run", "component"}
	for _, t := range series[0].Steps {
		header = append(header, "t"+strconv.Itoa(t))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := func(r, c int) error {
		rec := []string{strconv.Itoa(r), strconv.Itoa(c)}
		for _, v := range series[r].Column(c) {
			rec = append(rec, formatFloat(v))
		}
		return cw.Write(rec)
	}
	if groupByRow {
		for c := 0; c < width; c++ {
			for r := range series {
				if err := row(r, c); err != nil {
					return err
				}
			}
		}
	} else {
		for r := range series {
			for c := 0; c < width; c++ {
				if err := row(r, c); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one row per sampled step and component.
func WriteSummaryCSV(w io.Writer, s *Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "component", "mean", "std", "min", "max"}); err != nil {
		return err
	}
	for t, step := range s.Steps {
		for c := 0; c < s.Width(); c++ {
			rec := []string{
				strconv.Itoa(step), strconv.Itoa(c),
				formatFloat(s.Mean[c][t]), formatFloat(s.Std[c][t]),
				formatFloat(s.Min[c][t]), formatFloat(s.Max[c][t]),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func offset(a, b []float64, sign float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + sign*b[i]
	}
	return out
}

// SummaryLines returns the chart lines of one component: the mean plus the
// band or runs selected by plot.
func SummaryLines(s *Summary, runs []*record.Memory, component int, plot PlotType) []record.ChartLine {
	x := make([]float64, len(s.Steps))
	for i, t := range s.Steps {
		x[i] = float64(t)
	}
	name := fmt.Sprintf("%s[%d]", s.Key, component)
	mean := s.Mean[component]
	lines := []record.ChartLine{{Name: name + " mean", X: x, Y: mean}}
	switch plot {
	case PlotStd:
		lines = append(lines,
			record.ChartLine{Name: name + " +std", X: x, Y: offset(mean, s.Std[component], 1), Dashed: true, Palette: 1},
			record.ChartLine{Name: name + " -std", X: x, Y: offset(mean, s.Std[component], -1), Dashed: true, Palette: 1},
		)
	case PlotRange:
		lines = append(lines,
			record.ChartLine{Name: name + " max", X: x, Y: s.Max[component], Dashed: true, Palette: 2},
			record.ChartLine{Name: name + " min", X: x, Y: s.Min[component], Dashed: true, Palette: 2},
		)
	case PlotAll:
		for i, run := range runs {
			if series, ok := run.Series(s.Key); ok {
				lines = append(lines, record.ChartLine{
					Name: fmt.Sprintf("run %d", i), X: x, Y: series.Column(component), Dashed: true, Palette: i + 1,
				})
			}
		}
	}
	return lines
}

// WriteOutputs writes the definition, raw and summary CSVs, and one chart
// per key and point into dir.
func (res *Result) WriteOutputs(dir string, charts bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	info, err := yaml.Marshal(res.Definition)
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sweep.yaml"), info, 0o640); err != nil {
		return err
	}

	d := res.Definition
	for _, p := range res.Points {
		runs, err := res.Filtered(p)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			logrus.Warnf("Sweep %s = %g: no runs match the filters", d.Param, p.Value)
			continue
		}
		for _, key := range d.Keys {
			base := fmt.Sprintf("%s_%s_%s", key, d.Param, formatFloat(p.Value))
			if err := writeFile(filepath.Join(dir, base+"_raw.csv"), func(w io.Writer) error {
				return WriteRawCSV(w, runs, key, d.GroupByRow)
			}); err != nil {
				return err
			}
			summary, err := Summarize(runs, key)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(dir, base+"_summary.csv"), func(w io.Writer) error {
				return WriteSummaryCSV(w, summary)
			}); err != nil {
				return err
			}
			if !charts || len(summary.Steps) < 2 {
				continue
			}
			var lines []record.ChartLine
			for c := 0; c < summary.Width(); c++ {
				for _, l := range SummaryLines(summary, runs, c, d.Plot) {
					l.Palette += c
					lines = append(lines, l)
				}
			}
			title := fmt.Sprintf("%s (%s = %g, %d runs)", key, d.Param, p.Value, len(runs))
			if err := writeFile(filepath.Join(dir, base+".png"), func(w io.Writer) error {
				return record.RenderChart(w, title, key, lines)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
