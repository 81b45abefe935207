package experiment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/fixstep/internal/analysis"
	"github.com/san-kum/fixstep/internal/config"
	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/metrics"
)

// Spec is one comparison: the same field, parameters and settings
// integrated with each listed scheme.
type Spec struct {
	Field    string
	Params   dynamo.Params
	Settings dynamo.Settings
	Schemes  []integrators.Scheme
}

// FromConfig builds a Spec from a validated configuration.
func FromConfig(cfg *config.Config) (Spec, error) {
	if err := cfg.Validate(); err != nil {
		return Spec{}, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return Spec{}, err
	}
	schemes, err := cfg.ParsedSchemes()
	if err != nil {
		return Spec{}, err
	}
	return Spec{Field: cfg.Field, Params: cfg.Params, Settings: settings, Schemes: schemes}, nil
}

// Run is the outcome of integrating one scheme.
type Run struct {
	Scheme       integrators.Scheme
	Trajectory   dynamo.Trajectory
	Elapsed      time.Duration
	Evaluations  int
	FirstInvalid int
	Metrics      map[string]float64
}

type Comparison struct {
	Spec Spec
	Runs []Run
}

// Get returns the run for scheme s.
func (c *Comparison) Get(s integrators.Scheme) (*Run, bool) {
	for i := range c.Runs {
		if c.Runs[i].Scheme == s {
			return &c.Runs[i], true
		}
	}
	return nil, false
}

// PairDivergence is the largest distance between two schemes' trajectories.
type PairDivergence struct {
	A, B     integrators.Scheme
	Max      float64
	MaxStep  int
	Separate int
}

// Divergence compares every pair of runs. Separate is the first step at
// which the pair is farther apart than threshold, or -1.
func (c *Comparison) Divergence(threshold float64) []PairDivergence {
	var out []PairDivergence
	for i := 0; i < len(c.Runs); i++ {
		for j := i + 1; j < len(c.Runs); j++ {
			a, b := c.Runs[i].Trajectory, c.Runs[j].Trajectory
			d, idx := analysis.MaxDivergence(a, b)
			out = append(out, PairDivergence{
				A:        c.Runs[i].Scheme,
				B:        c.Runs[j].Scheme,
				Max:      d,
				MaxStep:  idx,
				Separate: analysis.SeparationStep(a, b, threshold),
			})
		}
	}
	return out
}

type Runner struct {
	registry *Registry
	logger   log.Logger
}

func NewRunner(registry *Registry, logger log.Logger) *Runner {
	return &Runner{registry: registry, logger: logger}
}

// Run integrates every scheme of spec on its own goroutine. Runs are
// returned in the order of spec.Schemes.
func (r *Runner) Run(ctx context.Context, spec Spec) (*Comparison, error) {
	info, err := r.registry.GetField(spec.Field)
	if err != nil {
		return nil, err
	}
	if err := spec.Settings.Validate(); err != nil {
		return nil, err
	}
	if len(spec.Schemes) == 0 {
		return nil, fmt.Errorf("no schemes to run")
	}

	runs := make([]Run, len(spec.Schemes))
	errs := make([]error, len(spec.Schemes))

	var wg sync.WaitGroup
	for i, scheme := range spec.Schemes {
		wg.Add(1)
		go func(idx int, scheme integrators.Scheme) {
			defer wg.Done()
			runs[idx], errs[idx] = r.runOne(ctx, info, spec, scheme)
		}(i, scheme)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Comparison{Spec: spec, Runs: runs}, nil
}

func (r *Runner) runOne(ctx context.Context, info FieldInfo, spec Spec, scheme integrators.Scheme) (Run, error) {
	st, err := scheme.Stepper()
	if err != nil {
		return Run{}, err
	}

	logger := log.With(r.logger, "field", info.Name, "scheme", scheme)
	level.Debug(logger).Log("msg", "integrating", "dt", spec.Settings.Dt, "tmax", spec.Settings.TMax, "clock", spec.Settings.Clock)

	start := time.Now()
	traj, err := integrators.IntegrateContext(ctx, st, info.Field, spec.Settings, spec.Params)
	if err != nil {
		level.Error(logger).Log("msg", "integration failed", "err", err)
		return Run{}, fmt.Errorf("%s: %w", scheme, err)
	}
	elapsed := time.Since(start)

	run := Run{
		Scheme:       scheme,
		Trajectory:   traj,
		Elapsed:      elapsed,
		Evaluations:  (traj.Len() - 1) * scheme.Evaluations(),
		FirstInvalid: traj.FirstInvalid(),
		Metrics:      metrics.Evaluate(traj, spec.Settings.T0, spec.Settings.Dt, metrics.Default()...),
	}

	if run.FirstInvalid >= 0 {
		level.Warn(logger).Log("msg", "trajectory became non-finite", "step", run.FirstInvalid)
	}
	level.Info(logger).Log("msg", "integrated", "steps", traj.Len(), "evals", run.Evaluations, "elapsed", elapsed)

	return run, nil
}
