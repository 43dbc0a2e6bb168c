package record

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/virosim/virosim/sim"
)

// PromSink exposes the final values of a run as Prometheus gauges.
type PromSink struct {
	Registry *prometheus.Registry

	final    *prometheus.GaugeVec
	progeny  *prometheus.GaugeVec
	proteins *prometheus.GaugeVec
}

// NewPromSink registers the virosim gauges on a fresh registry.
func NewPromSink() *PromSink {
	s := &PromSink{
		Registry: prometheus.NewRegistry(),
		final: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "virosim",
			Name:      "final_value",
			Help:      "Final sampled value of a scalar simulation key.",
		}, []string{"key"}),
		progeny: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "virosim",
			Name:      "progeny_state",
			Help:      "Number of viral progeny agents per lifecycle state at the end of the run.",
		}, []string{"state"}),
		proteins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "virosim",
			Name:      "proteins",
			Help:      "Final protein counts by compartment.",
		}, []string{"compartment", "protein"}),
	}
	s.Registry.MustRegister(s.final, s.progeny, s.proteins)
	return s
}

var proteinCompartments = []string{"nuc", "cyt", "mem", "virion"}

// Observe sets every gauge from the final rows of m. Only single-valued
// keys become final_value series.
func (s *PromSink) Observe(m *Memory) {
	for _, key := range m.Keys() {
		row, ok := m.Final(key)
		if ok && len(row) == 1 && m.series[key].Width() == 1 {
			s.final.WithLabelValues(key).Set(row[0])
		}
	}
	if row, ok := m.Final("progeny_state_count"); ok {
		for i, v := range row {
			s.progeny.WithLabelValues(sim.ProgenyState(i + 1).String()).Set(v)
		}
	}
	for _, c := range proteinCompartments {
		row, ok := m.Final("proteins_" + c)
		if !ok {
			continue
		}
		for i, v := range row {
			s.proteins.WithLabelValues(c, sim.Protein(i).String()).Set(v)
		}
	}
}

// Final returns the gauge of a scalar key.
func (s *PromSink) Final(key string) prometheus.Gauge { return s.final.WithLabelValues(key) }

// ProgenyState returns the gauge of one lifecycle state.
func (s *PromSink) ProgenyState(state sim.ProgenyState) prometheus.Gauge {
	return s.progeny.WithLabelValues(state.String())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (s *PromSink) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
