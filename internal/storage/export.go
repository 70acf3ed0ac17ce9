package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
)

type ExportData struct {
	RunMetadata
	Times    []float64   `json:"times"`
	Energies []float64   `json:"energies"`
	Probe    []float64   `json:"probe"`
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	Heights  [][]float32 `json:"heights,omitempty"`
}

// Export gathers a stored run's metadata, series and final grid.
func (s *Store) Export(runID string, withHeights bool) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		RunMetadata: *meta,
		Times:       series.Times,
		Energies:    series.Energies,
		Probe:       series.Probe,
	}

	if withHeights {
		flat, rows, cols, err := s.LoadHeights(runID)
		if err != nil {
			return nil, err
		}
		data.Rows, data.Cols = rows, cols
		data.Heights = make([][]float32, rows)
		for i := range data.Heights {
			data.Heights[i] = flat[i*cols : (i+1)*cols]
		}
	}

	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, data)
}

// ExportSeriesCSV writes time,energy,probe rows to w.
func ExportSeriesCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "energy", "probe"}); err != nil {
		return err
	}
	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(at(series.Energies, i), 'g', 10, 64),
			strconv.FormatFloat(at(series.Probe, i), 'g', 10, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
