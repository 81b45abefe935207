package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/experiment"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/logging"
	"github.com/san-kum/fixstep/internal/physics"
)

func shortComparison(t *testing.T) *experiment.Comparison {
	t.Helper()
	runner := experiment.NewRunner(experiment.NewRegistry(), logging.Nop())
	cmp, err := runner.Run(context.Background(), experiment.Spec{
		Field:    "lorenz",
		Params:   physics.ReferenceParams,
		Settings: dynamo.Settings{Initial: physics.DefaultState, Dt: 0.1, TMax: 1},
		Schemes:  integrators.Schemes(),
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cmp
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cmp := shortComparison(t)
	meta, err := st.Save(cmp)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(meta.ID, "lorenz_") {
		t.Errorf("unexpected run id %q", meta.ID)
	}

	loaded, err := st.Load(meta.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Field != "lorenz" || loaded.Params != physics.ReferenceParams {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if len(loaded.Schemes) != 3 || !loaded.HasScheme("rk4") {
		t.Fatalf("expected 3 schemes, got %+v", loaded.Schemes)
	}
	if _, ok := loaded.Schemes[0].Metrics["max_norm"]; !ok {
		t.Errorf("metrics not saved: %v", loaded.Schemes[0].Metrics)
	}

	for _, run := range cmp.Runs {
		traj, times, err := st.LoadTrajectory(meta.ID, run.Scheme.String())
		if err != nil {
			t.Fatalf("load trajectory failed: %v", err)
		}
		if traj.Len() != run.Trajectory.Len() || len(times) != traj.Len() {
			t.Fatalf("%s: expected %d rows, got %d", run.Scheme, run.Trajectory.Len(), traj.Len())
		}
		// 'g' with precision -1 round-trips exactly.
		if traj.Final() != run.Trajectory.Final() {
			t.Errorf("%s: final %v, want %v", run.Scheme, traj.Final(), run.Trajectory.Final())
		}
		if want := cmp.Spec.Settings.Times(traj.Len()); !slices.Equal(times, want) {
			t.Errorf("%s: times = %v, want %v", run.Scheme, times, want)
		}
		if times[10] != 0.9999999999999999 {
			t.Errorf("%s: times[10] = %v, want the accumulated clock value", run.Scheme, times[10])
		}
	}

	if _, _, err := st.LoadTrajectory(meta.ID, "verlet"); !errors.Is(err, ErrNoSuchScheme) {
		t.Errorf("expected ErrNoSuchScheme, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("List on empty dir = %v, %v", runs, err)
	}

	cmp := shortComparison(t)
	first, err := st.Save(cmp)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(cmp)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Fatal("run ids collide")
	}

	// stray files are skipped
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(tmpDir, "broken"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	traj := dynamo.Trajectory{{1, 2, 3}, {math.NaN(), math.Inf(1), 0.5}}

	if err := WriteCSV(&buf, []float64{0, 0.25}, traj); err != nil {
		t.Fatal(err)
	}

	want := "step,time,x,y,z\n0,0,1,2,3\n1,0.25,NaN,+Inf,0.5\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	if err := WriteCSV(&buf, []float64{0}, traj); err == nil {
		t.Error("expected error for mismatched times")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	meta, err := st.Save(shortComparison(t))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, meta.ID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != meta.ID || len(data.Trajectories) != 3 {
		t.Fatalf("unexpected export: %+v", data.Run)
	}
	want := integrators.StepCount(dynamo.Settings{Initial: physics.DefaultState, Dt: 0.1, TMax: 1})
	if data.Trajectories[0].Steps != want || len(data.Trajectories[0].States) != want {
		t.Errorf("expected %d states, got %d", want, data.Trajectories[0].Steps)
	}

	if err := st.ExportJSON(&buf, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestExportStates_NonFinite(t *testing.T) {
	out := exportStates(dynamo.Trajectory{{1, math.NaN(), math.Inf(-1)}})
	if out[0][0] == nil || *out[0][0] != 1 {
		t.Errorf("finite component lost: %v", out[0][0])
	}
	if out[0][1] != nil || out[0][2] != nil {
		t.Error("non-finite components should encode as null")
	}
}

func TestStoreSave_NonFinite(t *testing.T) {
	st := New(t.TempDir())
	cmp := &experiment.Comparison{
		Spec: experiment.Spec{Field: "lorenz", Settings: dynamo.Settings{Dt: 1, TMax: 1}},
		Runs: []experiment.Run{{
			Scheme:       integrators.Forward,
			Trajectory:   dynamo.Trajectory{{1, 2, 3}, {math.Inf(1), math.NaN(), 0}},
			FirstInvalid: 1,
		}},
	}

	meta, err := st.Save(cmp)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.Load(meta.ID)
	if err != nil {
		t.Fatal(err)
	}
	final := loaded.Schemes[0].Final
	if final[0] != nil || final[1] != nil || final[2] == nil {
		t.Errorf("unexpected final encoding: %v", final)
	}

	traj, _, err := st.LoadTrajectory(meta.ID, "euler")
	if err != nil {
		t.Fatal(err)
	}
	if traj.FirstInvalid() != 1 || !math.IsInf(traj[1][0], 1) {
		t.Errorf("non-finite samples lost: %v", traj)
	}
}
