package config

import (
	"sort"

	"github.com/san-kum/fixstep/internal/dynamo"
)

var lorenzStart = InitStateConfig{X: 1, Y: 1, Z: 1}

var Presets = map[string]map[string]*Config{
	"lorenz": {
		"reference": {
			Field: "lorenz", Dt: 0.02, TMax: 70,
			InitState: lorenzStart, Params: dynamo.Params{A: 10, B: 25, C: 8.0 / 3.0},
		},
		"classic": {
			Field: "lorenz", Dt: 0.01, TMax: 50,
			InitState: lorenzStart, Params: dynamo.Params{A: 10, B: 28, C: 8.0 / 3.0},
		},
		"short": {
			Field: "lorenz", Dt: 0.0001, TMax: 1,
			InitState: lorenzStart, Params: dynamo.Params{A: 10, B: 25, C: 8.0 / 3.0},
		},
		"coarse": {
			Field: "lorenz", Dt: 0.05, TMax: 70,
			InitState: lorenzStart, Params: dynamo.Params{A: 10, B: 25, C: 8.0 / 3.0},
		},
	},
	"rossler": {
		"spiral": {
			Field: "rossler", Dt: 0.01, TMax: 200,
			InitState: InitStateConfig{X: 1, Y: 1, Z: 1}, Params: dynamo.Params{A: 0.2, B: 0.2, C: 5.7},
			Projection: ProjectionConfig{X: 0, Y: 1},
		},
	},
	"decay": {
		"unit": {
			Field: "decay", Dt: 0.125, TMax: 1,
			InitState: InitStateConfig{X: 1}, Params: dynamo.Params{A: 1},
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled
// from DefaultConfig, or nil if it does not exist.
func GetPreset(field, preset string) *Config {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	p, ok := fieldPresets[preset]
	if !ok {
		return nil
	}

	cfg := p.Clone()
	def := DefaultConfig()
	if len(cfg.Schemes) == 0 {
		cfg.Schemes = def.Schemes
	}
	if cfg.Clock == "" {
		cfg.Clock = def.Clock
	}
	if cfg.Projection == (ProjectionConfig{}) {
		cfg.Projection = def.Projection
	}
	return cfg
}

func ListPresets(field string) []string {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
