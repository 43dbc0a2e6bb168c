package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TrackCopiesAndConverts(t *testing.T) {
	// GIVEN a recorder and a slice that keeps mutating after Track
	m := NewMemory()
	bins := []int{1, 2, 3}

	// WHEN values of each supported type are tracked
	m.Track(0, "bins", bins)
	bins[0] = 100
	m.Track(1, "bins", bins)
	m.Track(0, "count", 7)
	m.Track(0, "rate", 0.5)
	m.Track(0, "flag", true)
	m.Track(0, "bad", "text")

	// THEN rows hold the values as they were at each step
	s, ok := m.Series("bins")
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, s.Steps)
	assert.Equal(t, []float64{1, 2, 3}, s.Rows[0])
	assert.Equal(t, []float64{100, 2, 3}, s.Rows[1])

	final, ok := m.Final("flag")
	require.True(t, ok)
	assert.Equal(t, []float64{1}, final)
	assert.Equal(t, []string{"bins", "count", "rate", "flag"}, m.Keys())

	_, ok = m.Series("bad")
	assert.False(t, ok)
}

func TestSeries_RaggedRows(t *testing.T) {
	// GIVEN a per-progeny key that grows as agents are created
	m := NewMemory()
	m.Track(0, "num_of_Gag_of_diff_progeny", []int{})
	m.Track(5, "num_of_Gag_of_diff_progeny", []int{6})
	m.Track(10, "num_of_Gag_of_diff_progeny", []int{40, 6})

	s, _ := m.Series("num_of_Gag_of_diff_progeny")

	// THEN columns pad missing agents with zero
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, []float64{0, 6, 40}, s.Column(0))
	assert.Equal(t, []float64{0, 0, 6}, s.Column(1))
	assert.Equal(t, []float64{0, 6, 46}, s.Sum())
	assert.Equal(t, []float64{0, 5, 10}, s.XValues())
}

func TestMemory_Histograms(t *testing.T) {
	m := NewMemory()
	values := []int{3, 1}
	m.Histogram("prebudding_elapsed_time", values)
	values[0] = 9
	m.Histogram("prebudding_creation_time", []int{2})
	m.Histogram("prebudding_elapsed_time", []int{4, 4})

	assert.Equal(t, []string{"prebudding_elapsed_time", "prebudding_creation_time"}, m.HistogramKeys())
	got, ok := m.HistogramValues("prebudding_elapsed_time")
	require.True(t, ok)
	assert.Equal(t, []int{4, 4}, got)
}

func TestMemory_MustSeriesUnknownKey(t *testing.T) {
	_, err := NewMemory().MustSeries("nope")
	assert.ErrorContains(t, err, `"nope"`)
}
