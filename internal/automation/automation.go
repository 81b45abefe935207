package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fixstep/internal/analysis"
	"github.com/san-kum/fixstep/internal/config"
	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/experiment"
)

var ErrUnknownSweepParam = errors.New("automation: unknown sweep parameter")

// Scenario is a scripted sequence of comparisons.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides
// whatever fields are set.
type ScenarioStep struct {
	Name    string         `yaml:"name"`
	Field   string         `yaml:"field"`
	Preset  string         `yaml:"preset"`
	Schemes []string       `yaml:"schemes"`
	Dt      float64        `yaml:"dt"`
	TMax    float64        `yaml:"tmax"`
	Params  *dynamo.Params `yaml:"params"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step to a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Field != "" {
		cfg.Field = s.Field
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Field, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for field %s", s.Preset, cfg.Field)
		}
		cfg = p
	}
	if len(s.Schemes) > 0 {
		cfg.Schemes = s.Schemes
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.TMax != 0 {
		cfg.TMax = s.TMax
	}
	if s.Params != nil {
		cfg.Params = *s.Params
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order. It stops at the first failing
// step and returns the comparisons completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, runner *experiment.Runner) ([]*experiment.Comparison, error) {
	results := make([]*experiment.Comparison, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		spec, err := experiment.FromConfig(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cmp, err := runner.Run(ctx, spec)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, cmp)
	}

	return results, nil
}

// ParameterSweep reruns a base configuration with one parameter stepped
// evenly from Min to Max. Param is one of a, b, c, dt.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds the comparison at one parameter value and the
// largest distance between any two of its schemes.
type SweepResult struct {
	Value         float64
	Comparison    *experiment.Comparison
	MaxDivergence float64
}

func (sw *ParameterSweep) apply(cfg *config.Config, v float64) error {
	switch sw.Param {
	case "a":
		cfg.Params.A = v
	case "b":
		cfg.Params.B = v
	case "c":
		cfg.Params.C = v
	case "dt":
		cfg.Dt = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSweepParam, sw.Param)
	}
	return nil
}

// Values lists the parameter values the sweep visits.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.NumSteps-1)
	vals := make([]float64, sw.NumSteps)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, runner *experiment.Runner) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base configuration")
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for _, v := range values {
		cfg := sweep.Base.Clone()
		if err := sweep.apply(cfg, v); err != nil {
			return nil, err
		}

		spec, err := experiment.FromConfig(cfg)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		cmp, err := runner.Run(ctx, spec)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		worst := 0.0
		for i := 0; i < len(cmp.Runs); i++ {
			for j := i + 1; j < len(cmp.Runs); j++ {
				d, _ := analysis.MaxDivergence(cmp.Runs[i].Trajectory, cmp.Runs[j].Trajectory)
				if d > worst || math.IsNaN(d) {
					worst = d
				}
			}
		}

		results = append(results, SweepResult{Value: v, Comparison: cmp, MaxDivergence: worst})
	}

	return results, nil
}
