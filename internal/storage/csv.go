package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

// ReadSamples parses samples.csv rows. The header row is required; columns
// are located by name so older files with extra columns still load.
func ReadSamples(r io.Reader) ([]lumen.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []lumen.Sample{}, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("storage: samples missing column %q", name)
		}
	}

	samples := make([]lumen.Sample, 0, len(records)-1)
	for line, rec := range records[1:] {
		s, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("storage: samples line %d: %w", line+2, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseRow(rec []string, cols map[string]int) (lumen.Sample, error) {
	field := func(name string) string {
		if i := cols[name]; i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var s lumen.Sample
	var err error
	if s.Timestamp, err = time.Parse(time.RFC3339Nano, field("timestamp")); err != nil {
		return s, err
	}
	if s.PoorSignal, err = strconv.Atoi(field("poor_signal")); err != nil {
		return s, err
	}
	if s.Attention, err = strconv.ParseFloat(field("attention"), 64); err != nil {
		return s, err
	}
	if s.Meditation, err = strconv.ParseFloat(field("meditation"), 64); err != nil {
		return s, err
	}
	if s.On, err = strconv.ParseBool(field("on")); err != nil {
		return s, err
	}
	return s, nil
}
