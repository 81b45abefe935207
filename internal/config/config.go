package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
)

const (
	DefaultField = "lorenz"
	DefaultT0    = 0.0
	DefaultDt    = 0.02
	DefaultTMax  = 70.0
	DefaultA     = 10.0
	DefaultB     = 25.0
	DefaultC     = 8.0 / 3.0
)

type Config struct {
	Field      string           `yaml:"field"`
	Schemes    []string         `yaml:"schemes"`
	Clock      string           `yaml:"clock"`
	T0         float64          `yaml:"t0"`
	Dt         float64          `yaml:"dt"`
	TMax       float64          `yaml:"tmax"`
	InitState  InitStateConfig  `yaml:"init_state"`
	Params     dynamo.Params    `yaml:"params"`
	Projection ProjectionConfig `yaml:"projection"`
}

type InitStateConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// ProjectionConfig selects the two state channels handed to plots.
type ProjectionConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		Field:     DefaultField,
		Schemes:   []string{"euler", "midpoint", "rk4"},
		Clock:     dynamo.ClockAccumulate.String(),
		T0:        DefaultT0,
		Dt:        DefaultDt,
		TMax:      DefaultTMax,
		InitState: InitStateConfig{X: 1, Y: 1, Z: 1},
		Params:    dynamo.Params{A: DefaultA, B: DefaultB, C: DefaultC},
		Projection: ProjectionConfig{
			X: 0,
			Y: 2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Schemes = append([]string(nil), c.Schemes...)
	return &cp
}

func (c *Config) Initial() dynamo.State {
	return dynamo.State{c.InitState.X, c.InitState.Y, c.InitState.Z}
}

// Settings converts the integration fields of c.
func (c *Config) Settings() (dynamo.Settings, error) {
	clock, err := dynamo.ParseClock(c.Clock)
	if err != nil {
		return dynamo.Settings{}, err
	}
	s := dynamo.Settings{
		Initial: c.Initial(),
		T0:      c.T0,
		Dt:      c.Dt,
		TMax:    c.TMax,
		Clock:   clock,
	}
	return s, s.Validate()
}

func (c *Config) ParsedSchemes() ([]integrators.Scheme, error) {
	return integrators.ParseSchemes(c.Schemes)
}

func (c *Config) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("field must be set")
	}
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := c.ParsedSchemes(); err != nil {
		return err
	}
	if err := dynamo.CheckChannel(c.Projection.X); err != nil {
		return fmt.Errorf("projection x: %w", err)
	}
	if err := dynamo.CheckChannel(c.Projection.Y); err != nil {
		return fmt.Errorf("projection y: %w", err)
	}
	return nil
}
