package experiment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/fixstep/internal/config"
	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/logging"
	"github.com/san-kum/fixstep/internal/physics"
)

func referenceSpec() Spec {
	return Spec{
		Field:    "lorenz",
		Params:   physics.ReferenceParams,
		Settings: dynamo.Settings{Initial: physics.DefaultState, Dt: 0.02, TMax: 70},
		Schemes:  integrators.Schemes(),
	}
}

func TestRunner_Reference(t *testing.T) {
	runner := NewRunner(NewRegistry(), logging.Nop())

	cmp, err := runner.Run(context.Background(), referenceSpec())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(cmp.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(cmp.Runs))
	}
	for i, scheme := range integrators.Schemes() {
		run := cmp.Runs[i]
		if run.Scheme != scheme {
			t.Errorf("run %d: scheme %s, want %s", i, run.Scheme, scheme)
		}
		if run.Trajectory.Len() != 3501 {
			t.Errorf("%s: expected 3501 states, got %d", scheme, run.Trajectory.Len())
		}
		if run.Evaluations != 3500*scheme.Evaluations() {
			t.Errorf("%s: evaluations %d", scheme, run.Evaluations)
		}

		direct, err := integrators.Integrate(physics.Lorenz, physics.DefaultState, 0, 0.02, 70, physics.ReferenceParams, scheme)
		if err != nil {
			t.Fatal(err)
		}
		if run.Trajectory.Final() != direct.Final() {
			t.Errorf("%s: concurrent run differs from direct integration", scheme)
		}
	}

	if _, ok := cmp.Get(integrators.Midpoint); !ok {
		t.Error("Get(Midpoint) not found")
	}

	rk4, _ := cmp.Get(integrators.RK4)
	if z := rk4.Metrics["mean_z"]; z < 18 || z > 26 {
		t.Errorf("rk4 mean_z = %v, expected the attractor's band", z)
	}
	if rk4.Metrics["escape_time"] != -1 {
		t.Errorf("rk4 trajectory escaped at t=%v", rk4.Metrics["escape_time"])
	}
}

func TestComparison_Divergence(t *testing.T) {
	runner := NewRunner(NewRegistry(), logging.Nop())
	spec := referenceSpec()
	spec.Settings.TMax = 1
	spec.Settings.Dt = 0.001

	cmp, err := runner.Run(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	pairs := cmp.Divergence(1e-2)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if p.A == integrators.Midpoint && p.B == integrators.RK4 {
			if p.Max > 1e-2 || p.Separate != -1 {
				t.Errorf("midpoint/rk4 diverged: %+v", p)
			}
		}
		if p.Max < 0 || p.MaxStep < 0 {
			t.Errorf("invalid pair %+v", p)
		}
	}
}

func TestRunner_Errors(t *testing.T) {
	runner := NewRunner(NewRegistry(), logging.Nop())

	spec := referenceSpec()
	spec.Field = "duffing"
	if _, err := runner.Run(context.Background(), spec); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}

	spec = referenceSpec()
	spec.Settings.Dt = 0
	if _, err := runner.Run(context.Background(), spec); !errors.Is(err, dynamo.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}

	spec = referenceSpec()
	spec.Schemes = nil
	if _, err := runner.Run(context.Background(), spec); err == nil {
		t.Error("expected error for empty scheme list")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, referenceSpec()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunner_LogsPerScheme(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info")
	if err != nil {
		t.Fatal(err)
	}

	spec := referenceSpec()
	spec.Settings.TMax = 0.1
	if _, err := NewRunner(NewRegistry(), logger).Run(context.Background(), spec); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, s := range integrators.Schemes() {
		if !strings.Contains(out, "scheme="+s.String()) {
			t.Errorf("no log line for %s in %q", s, out)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.GetPreset("lorenz", "classic")
	cfg.Schemes = []string{"rk4"}

	spec, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Params.B != 28 || len(spec.Schemes) != 1 || spec.Schemes[0] != integrators.RK4 {
		t.Errorf("unexpected spec %+v", spec)
	}

	cfg.Dt = -1
	if _, err := FromConfig(cfg); !errors.Is(err, dynamo.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.ListFields()
	want := []string{"decay", "lorenz", "rossler", "zero"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("ListFields() = %v, want %v", names, want)
	}

	info, err := r.GetField("lorenz")
	if err != nil {
		t.Fatal(err)
	}
	if info.DefaultParams != physics.ReferenceParams {
		t.Errorf("unexpected default params %+v", info.DefaultParams)
	}

	r.Register(FieldInfo{Name: "custom", Field: physics.Zero})
	if _, err := r.GetField("custom"); err != nil {
		t.Errorf("custom field not registered: %v", err)
	}
}
