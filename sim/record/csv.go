package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the series of key as rows of step followed by each
// component. Short rows are padded with zeros.
func WriteCSV(w io.Writer, m *Memory, key string) error {
	s, err := m.MustSeries(key)
	if err != nil {
		return err
	}
	width := s.Width()
	cw := csv.NewWriter(w)

	header := make([]string, 0, width+1)
	header = append(header, "step")
	for i := 0; i < width; i++ {
		header = append(header, fmt.Sprintf("%s_%d", key, i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, width+1)
	for i, row := range s.Rows {
		rec[0] = strconv.Itoa(s.Steps[i])
		for j := 0; j < width; j++ {
			v := 0.0
			if j < len(row) {
				v = row[j]
			}
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
