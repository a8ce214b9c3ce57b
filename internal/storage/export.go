package storage

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
)

type ExportData struct {
	Session SessionMetadata `json:"session"`
	Samples []ExportSample  `json:"samples"`
}

type ExportSample struct {
	Timestamp  time.Time `json:"timestamp"`
	PoorSignal int       `json:"poor_signal"`
	Attention  float64   `json:"attention"`
	Meditation float64   `json:"meditation"`
	On         bool      `json:"on"`
}

// ExportJSON writes a session and its samples as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(id)
	if err != nil {
		return err
	}
	return WriteJSON(w, *meta, samples)
}

func WriteJSON(w io.Writer, meta SessionMetadata, samples []lumen.Sample) error {
	data := ExportData{Session: meta, Samples: make([]ExportSample, len(samples))}
	for i, s := range samples {
		data.Samples[i] = ExportSample{
			Timestamp:  s.Timestamp,
			PoorSignal: s.PoorSignal,
			Attention:  s.Attention,
			Meditation: s.Meditation,
			On:         s.On,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
