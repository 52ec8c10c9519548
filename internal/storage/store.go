package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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

// RunMetadata describes one saved run. ID and Timestamp are filled by Save
// when empty.
type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Mode       string             `json:"mode"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	ChargeIDs  []string           `json:"charge_ids"`
	Charges    []float64          `json:"charges"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Name
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d_%s", name, meta.Timestamp.Unix(), uuid.NewString()[:8])
	}
	meta.Steps = result.StepsTaken
	meta.Metrics = finiteMetrics(result.Metrics)
	meta.ChargeIDs = make([]string, len(result.IDs))
	for i, id := range result.IDs {
		meta.ChargeIDs[i] = id.String()
	}
	if len(result.Frames) > 0 {
		meta.Charges = result.Frames[0].Charges
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}
	return file.Close()
}

// finiteMetrics drops NaN and Inf values, which JSON cannot encode. A
// metric with nothing to measure, such as the separation of a lone charge,
// is simply absent from the saved run.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

func writeTrajectory(path string, result *sim.Result) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"time"}
	for i := range result.IDs {
		header = append(header, fmt.Sprintf("c%d_x", i), fmt.Sprintf("c%d_y", i), fmt.Sprintf("c%d_z", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range result.Frames {
		row := []string{strconv.FormatFloat(f.Time, 'f', -1, 64)}
		for _, p := range f.Positions {
			for _, v := range p {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads the recorded positions back, one slice of charges per
// frame.
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]dynamo.Vec3, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, [][]dynamo.Vec3{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	positions := make([][]dynamo.Vec3, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 || (len(record)-1)%3 != 0 {
			return nil, nil, fmt.Errorf("%s line %d: malformed row", trajectoryFile, i+1)
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+1, err)
		}
		times = append(times, t)

		frame := make([]dynamo.Vec3, (len(record)-1)/3)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+1, err)
			}
			frame[(j-1)/3][(j-1)%3] = val
		}
		positions = append(positions, frame)
	}

	return times, positions, nil
}
