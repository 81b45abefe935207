package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

type ExportTrajectory struct {
	Scheme string        `json:"scheme"`
	Steps  int           `json:"steps"`
	Times  []float64     `json:"times"`
	States [][3]*float64 `json:"states"`
}

type ExportData struct {
	Run          RunMetadata        `json:"run"`
	Trajectories []ExportTrajectory `json:"trajectories"`
}

// ExportJSON writes the run with every recorded trajectory to w.
// Non-finite samples are encoded as null.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Trajectories: make([]ExportTrajectory, 0, len(meta.Schemes))}
	for _, sum := range meta.Schemes {
		traj, times, err := s.LoadTrajectory(runID, sum.Scheme)
		if err != nil {
			return err
		}
		data.Trajectories = append(data.Trajectories, ExportTrajectory{
			Scheme: sum.Scheme,
			Steps:  traj.Len(),
			Times:  times,
			States: exportStates(traj),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func exportStates(traj dynamo.Trajectory) [][3]*float64 {
	out := make([][3]*float64, len(traj))
	for i, st := range traj {
		out[i] = finite(st)
	}
	return out
}

// finite maps non-finite components to nil so encoding/json accepts them.
func finite(st dynamo.State) [3]*float64 {
	var out [3]*float64
	for j, v := range st {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[j] = &v
	}
	return out
}

func finiteMetrics(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
