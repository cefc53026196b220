package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/features"
)

const (
	metadataFile = "metadata.json"
	featuresFile = "features.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	Timestamp  time.Time          `json:"timestamp"`
	Offset     int64              `json:"offset"`
	Length     int                `json:"length"`
	Extractors []string           `json:"extractors"`
	Config     *config.Config     `json:"config"`
	Features   map[string]float64 `json:"features"`
}

// Save writes one extraction run and returns its id. Features keep their
// extraction order in features.csv.
func (s *Store) Save(source string, cfg *config.Config, extractors []string, feats []features.Feature) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(source), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Source:     source,
		Timestamp:  now,
		Offset:     cfg.Fragment.Offset,
		Length:     cfg.Fragment.Length,
		Extractors: extractors,
		Config:     cfg,
		Features:   make(map[string]float64, len(feats)),
	}
	for _, f := range feats {
		meta.Features[f.Name] = f.Value
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFeatures(filepath.Join(runDir, featuresFile), feats); err != nil {
		return "", err
	}
	return runID, nil
}

// runName reduces a source path to a directory-safe prefix.
func runName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, base)
	if name == "" || name == "_" {
		return "run"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFeatures(path string, feats []features.Feature) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "value"}); err != nil {
		return err
	}
	for _, feat := range feats {
		if err := w.Write([]string{feat.Name, strconv.FormatFloat(feat.Value, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFeatures reads the ordered feature list of a run.
func (s *Store) LoadFeatures(runID string) ([]features.Feature, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, featuresFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []features.Feature{}, nil
	}

	feats := make([]features.Feature, 0, len(records)-1)
	for _, rec := range records[1:] {
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: feature %s: %w", runID, rec[0], err)
		}
		feats = append(feats, features.Feature{Name: rec[0], Value: v})
	}
	return feats, nil
}
