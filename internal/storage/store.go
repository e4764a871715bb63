// Package storage persists scenario runs: one directory per run holding
// metadata.json and a states.csv of per-frame character samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hooplab/courtsim/internal/court"
	"github.com/hooplab/courtsim/internal/sim"
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
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Characters []string           `json:"characters"`
	Collisions int                `json:"collisions"`
	Metrics    map[string]float64 `json:"metrics"`
}

// sampleColumns are the per-character CSV columns, all numeric so stored
// runs round-trip through LoadStates. Phase is stored as its enum index.
var sampleColumns = []string{"offset_h", "offset_y", "speed", "stability", "recovery", "locked", "phase"}

// Save persists one run and returns its id.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	var characters []string
	if len(result.Samples) > 0 {
		for _, smp := range result.Samples[0] {
			characters = append(characters, smp.ID)
		}
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Characters: characters,
		Collisions: result.Collisions,
		Metrics:    result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Samples) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for _, id := range characters {
		for _, col := range sampleColumns {
			header = append(header, id+"_"+col)
		}
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, frame := range result.Samples {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, smp := range frame {
			row = append(row, sampleRow(smp)...)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func sampleRow(smp sim.Sample) []string {
	locked := 0.0
	if smp.Locked {
		locked = 1
	}
	phase := 0.0
	switch smp.Phase {
	case court.PhaseStartup.String():
		phase = 1
	case court.PhaseActive.String():
		phase = 2
	}
	vals := []float64{smp.OffsetH, smp.OffsetY, smp.Speed, smp.Stability, smp.Recovery, locked, phase}
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return row
}

// List returns metadata for every stored run.
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

// Load returns one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates returns the stored per-frame values: the column header, the
// times, and one row of floats per frame.
func (s *Store) LoadStates(runID string) ([]string, []float64, [][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 2 {
		return nil, []float64{}, [][]float64{}, nil
	}

	header := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			row = append(row, v)
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return header, times, rows, nil
}
