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

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/waves"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	heightsFile  = "heights.csv"
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

// RunInfo describes how a run was configured.
type RunInfo struct {
	Preset   string       `json:"preset"`
	Source   string       `json:"source"`
	Seed     int64        `json:"seed"`
	FrameDt  float64      `json:"frame_dt"`
	Duration float64      `json:"duration"`
	Params   waves.Params `json:"params"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Frames   int                `json:"frames"`
	Steps    int                `json:"steps"`
	Splashes int                `json:"splashes"`
	Metrics  map[string]float64 `json:"metrics"`
	Errors   []string           `json:"errors,omitempty"`
}

// Series is the per-frame record of a run.
type Series struct {
	Times    []float64
	Energies []float64
	Probe    []float64
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	name := info.Preset
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		RunInfo:   info,
		Frames:    result.Frames,
		Steps:     result.StepsTaken,
		Splashes:  result.Splashes,
		Metrics:   result.Metrics,
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}
	if err := writeHeights(filepath.Join(runDir, heightsFile), result.Final, result.Rows, result.Cols); err != nil {
		return "", err
	}

	return runID, nil
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

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return ExportSeriesCSV(f, &Series{Times: result.Times, Energies: result.Energies, Probe: result.Probe})
}

func writeHeights(path string, heights []float32, rows, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if rows*cols == len(heights) {
		row := make([]string, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				row[j] = strconv.FormatFloat(float64(heights[i*cols+j]), 'g', 8, 32)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

// List returns every stored run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	records, err := s.readCSV(runID, seriesFile)
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		vals := make([]float64, 3)
		ok := true
		for k := range vals {
			v, err := strconv.ParseFloat(record[k], 64)
			if err != nil {
				ok = false
				break
			}
			vals[k] = v
		}
		if !ok {
			continue
		}
		series.Times = append(series.Times, vals[0])
		series.Energies = append(series.Energies, vals[1])
		series.Probe = append(series.Probe, vals[2])
	}

	return series, nil
}

// LoadHeights returns the final height grid in row-major order.
func (s *Store) LoadHeights(runID string) ([]float32, int, int, error) {
	records, err := s.readCSV(runID, heightsFile)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) == 0 {
		return nil, 0, 0, nil
	}

	rows, cols := len(records), len(records[0])
	heights := make([]float32, 0, rows*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, 0, 0, fmt.Errorf("%s row %d: expected %d columns, got %d", heightsFile, i, cols, len(record))
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("%s row %d: %w", heightsFile, i, err)
			}
			heights = append(heights, float32(v))
		}
	}

	return heights, rows, cols, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
