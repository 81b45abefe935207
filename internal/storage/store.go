package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/experiment"
)

var ErrNoSuchScheme = errors.New("storage: scheme not recorded for run")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SchemeSummary records per-scheme results alongside the run metadata.
type SchemeSummary struct {
	Scheme       string             `json:"scheme"`
	Steps        int                `json:"steps"`
	Evaluations  int                `json:"evaluations"`
	Elapsed      time.Duration      `json:"elapsed_ns"`
	FirstInvalid int                `json:"first_invalid"`
	Final        [3]*float64        `json:"final"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

type RunMetadata struct {
	ID        string          `json:"id"`
	Field     string          `json:"field"`
	Timestamp time.Time       `json:"timestamp"`
	Params    dynamo.Params   `json:"params"`
	Initial   [3]*float64     `json:"initial"`
	T0        float64         `json:"t0"`
	Dt        float64         `json:"dt"`
	TMax      float64         `json:"tmax"`
	Clock     string          `json:"clock"`
	Schemes   []SchemeSummary `json:"schemes"`
}

// HasScheme reports whether the run recorded a trajectory for scheme.
func (m *RunMetadata) HasScheme(scheme string) bool {
	for _, s := range m.Schemes {
		if s.Scheme == scheme {
			return true
		}
	}
	return false
}

// NewMetadata describes a comparison under a fresh run id.
func NewMetadata(cmp *experiment.Comparison) RunMetadata {
	spec := cmp.Spec
	meta := RunMetadata{
		ID:        fmt.Sprintf("%s_%s", spec.Field, xid.New().String()),
		Field:     spec.Field,
		Timestamp: time.Now().UTC(),
		Params:    spec.Params,
		Initial:   finite(spec.Settings.Initial),
		T0:        spec.Settings.T0,
		Dt:        spec.Settings.Dt,
		TMax:      spec.Settings.TMax,
		Clock:     spec.Settings.Clock.String(),
		Schemes:   make([]SchemeSummary, 0, len(cmp.Runs)),
	}
	for _, run := range cmp.Runs {
		meta.Schemes = append(meta.Schemes, SchemeSummary{
			Scheme:       run.Scheme.String(),
			Steps:        run.Trajectory.Len(),
			Evaluations:  run.Evaluations,
			Elapsed:      run.Elapsed,
			FirstInvalid: run.FirstInvalid,
			Final:        finite(run.Trajectory.Final()),
			Metrics:      finiteMetrics(run.Metrics),
		})
	}
	return meta
}

// Save writes metadata.json and one <scheme>.csv per run into a new run
// directory and returns its metadata.
func (s *Store) Save(cmp *experiment.Comparison) (*RunMetadata, error) {
	meta := NewMetadata(cmp)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return nil, err
	}

	for _, run := range cmp.Runs {
		path := filepath.Join(runDir, run.Scheme.String()+".csv")
		times := cmp.Spec.Settings.Times(run.Trajectory.Len())
		if err := writeTrajectoryCSV(path, times, run.Trajectory); err != nil {
			return nil, fmt.Errorf("write %s: %w", run.Scheme, err)
		}
	}

	return &meta, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectoryCSV(path string, times []float64, traj dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, times, traj); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes step,time,x,y,z rows. times holds the clock value of
// each sample, as produced by Settings.Times; it must be as long as traj.
func WriteCSV(w io.Writer, times []float64, traj dynamo.Trajectory) error {
	if len(times) != len(traj) {
		return fmt.Errorf("storage: %d times for %d samples", len(times), len(traj))
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"step", "time", "x", "y", "z"}); err != nil {
		return err
	}

	for i, st := range traj {
		row := []string{
			strconv.Itoa(i),
			formatFloat(times[i]),
			formatFloat(st[0]),
			formatFloat(st[1]),
			formatFloat(st[2]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

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

// LoadTrajectory reads one scheme's samples and their times.
func (s *Store) LoadTrajectory(runID, scheme string) (dynamo.Trajectory, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, scheme+".csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrNoSuchScheme, runID, scheme)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return dynamo.Trajectory{}, []float64{}, nil
	}

	traj := make(dynamo.Trajectory, 0, len(records)-1)
	times := make([]float64, 0, len(records)-1)

	for i, record := range records[1:] {
		var vals [4]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d: %w", csvPath, i+1, err)
			}
			vals[j] = v
		}
		times = append(times, vals[0])
		traj = append(traj, dynamo.State{vals[1], vals[2], vals[3]})
	}

	return traj, times, nil
}
