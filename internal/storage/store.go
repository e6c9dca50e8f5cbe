package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// per-body CSV columns, in order
var bodyFields = []string{"x", "y", "vx", "vy", "mass"}

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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	AnchorMode  string             `json:"anchor_mode"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Bodies      []string           `json:"bodies"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its ID. ID, Timestamp, Bodies,
// Steps, EnergyDrift and Metrics are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	meta.Bodies = nil
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, b.Name)
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// WriteCSV writes one row per recorded frame: time, then x, y, vx, vy and
// mass for every body.
func WriteCSV(out io.Writer, result *dynamo.Result) error {
	w := csv.NewWriter(out)

	if len(result.Frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time"}
	for _, b := range result.Frames[0].Bodies {
		for _, f := range bodyFields {
			header = append(header, b.Name+"_"+f)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, frame := range result.Frames {
		row := []string{formatFloat(frame.Time)}
		for _, b := range frame.Bodies {
			row = append(row,
				formatFloat(b.X), formatFloat(b.Y),
				formatFloat(b.VX), formatFloat(b.VY),
				strconv.FormatFloat(b.Mass, 'g', -1, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

// Trajectory is a loaded trajectory.csv.
type Trajectory struct {
	Header []string
	Times  []float64
	Rows   [][]float64
}

// Column returns the named column, or nil if there is none.
func (t *Trajectory) Column(name string) []float64 {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx <= 0 {
		if idx == 0 {
			return t.Times
		}
		return nil
	}

	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx-1 < len(row) {
			col[i] = row[idx-1]
		}
	}
	return col
}

// Bodies lists body names in column order.
func (t *Trajectory) Bodies() []string {
	var names []string
	suffix := "_" + bodyFields[0]
	for _, h := range t.Header {
		if strings.HasSuffix(h, suffix) {
			names = append(names, strings.TrimSuffix(h, suffix))
		}
	}
	return names
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) == 0 {
		return traj, nil
	}
	traj.Header = records[0]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			row[j-1], _ = strconv.ParseFloat(record[j], 64)
		}
		traj.Times = append(traj.Times, t)
		traj.Rows = append(traj.Rows, row)
	}

	return traj, nil
}
