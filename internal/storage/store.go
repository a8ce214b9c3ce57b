// Package storage keeps recorded biosignal sessions on disk. Each session
// is a directory holding metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrNotFound = errors.New("storage: session not found")

var header = []string{"timestamp", "poor_signal", "attention", "meditation", "on"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type SessionMetadata struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Note    string    `json:"note,omitempty"`
	Started time.Time `json:"started"`
	Ended   time.Time `json:"ended"`
	Samples int       `json:"samples"`
	// BadSamples counts samples recorded with the headset off.
	BadSamples int `json:"bad_samples"`
}

func (m SessionMetadata) Duration() time.Duration {
	if m.Ended.IsZero() {
		return 0
	}
	return m.Ended.Sub(m.Started)
}

// Recording streams samples into a new session. Close writes the final
// metadata.
type Recording struct {
	dir  string
	meta SessionMetadata
	file *os.File
	w    *csv.Writer
}

// Begin creates a session directory and returns a recording into it.
func (s *Store) Begin(source, note string) (*Recording, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	meta := SessionMetadata{
		ID:      uuid.NewString(),
		Source:  source,
		Note:    note,
		Started: time.Now().UTC(),
	}
	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, samplesFile))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	rec := &Recording{dir: dir, meta: meta, file: f, w: w}
	if err := rec.writeMetadata(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

func (r *Recording) ID() string { return r.meta.ID }

func (r *Recording) Write(sample *lumen.Sample) error {
	ts := sample.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	row := []string{
		ts.UTC().Format(time.RFC3339Nano),
		strconv.Itoa(sample.PoorSignal),
		strconv.FormatFloat(sample.Attention, 'f', 4, 64),
		strconv.FormatFloat(sample.Meditation, 'f', 4, 64),
		strconv.FormatBool(sample.On),
	}
	if err := r.w.Write(row); err != nil {
		return err
	}
	// Flush per row so a crash loses at most the current sample.
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	r.meta.Samples++
	if !sample.On {
		r.meta.BadSamples++
	}
	return nil
}

func (r *Recording) Close() error {
	r.w.Flush()
	werr := r.w.Error()
	cerr := r.file.Close()
	r.meta.Ended = time.Now().UTC()
	merr := r.writeMetadata()
	return errors.Join(werr, cerr, merr)
}

func (r *Recording) Metadata() SessionMetadata { return r.meta }

func (r *Recording) writeMetadata() error {
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// List returns all sessions, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Started.Before(sessions[j].Started)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: session %s metadata: %w", id, err)
	}
	return &meta, nil
}

// LoadSamples reads a session's samples in recorded order.
func (s *Store) LoadSamples(id string) ([]lumen.Sample, error) {
	path := filepath.Join(s.baseDir, id, samplesFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()
	return ReadSamples(f)
}

// Remove deletes a session directory.
func (s *Store) Remove(id string) error {
	if _, err := s.Load(id); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}
