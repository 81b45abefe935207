package dynamo

import (
	"fmt"
	"math"
)

// State is a point (x, y, z) of a three-variable system. It is a value
// type: arithmetic always yields a new State.
type State [3]float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	return State{s[0] + other[0], s[1] + other[1], s[2] + other[2]}
}

func (s State) Sub(other State) State {
	return State{s[0] - other[0], s[1] - other[1], s[2] - other[2]}
}

// Scale rounds each product before returning so callers that add the
// result cannot be compiled into a fused multiply-add.
func (s State) Scale(factor float64) State {
	return State{float64(s[0] * factor), float64(s[1] * factor), float64(s[2] * factor)}
}

func (s State) String() string {
	return fmt.Sprintf("(%g, %g, %g)", s[0], s[1], s[2])
}

// Params holds the scalar coefficients of a vector field.
type Params struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
}

// Field evaluates the derivative of the system at time t and state x.
type Field func(t float64, x State, p Params) State

// Stepper advances a state by one fixed step of size dt.
type Stepper interface {
	Step(f Field, x State, p Params, t, dt float64) State
}

// StepFunc adapts a plain function to the Stepper interface.
type StepFunc func(f Field, x State, p Params, t, dt float64) State

func (fn StepFunc) Step(f Field, x State, p Params, t, dt float64) State {
	return fn(f, x, p, t, dt)
}

// Clock selects how the integration loop advances time.
type Clock int

const (
	// ClockAccumulate adds dt to t after every step. Rounding drift in
	// the running sum can change the sample count by one near tmax.
	ClockAccumulate Clock = iota
	// ClockIndexed computes t = t0 + i*dt for step i.
	ClockIndexed
)

func (c Clock) String() string {
	switch c {
	case ClockAccumulate:
		return "accumulate"
	case ClockIndexed:
		return "indexed"
	default:
		return fmt.Sprintf("clock(%d)", int(c))
	}
}

func ParseClock(name string) (Clock, error) {
	switch name {
	case "", "accumulate":
		return ClockAccumulate, nil
	case "indexed":
		return ClockIndexed, nil
	default:
		return 0, fmt.Errorf("unknown clock: %s", name)
	}
}

// Settings describes one integration run.
type Settings struct {
	Initial State
	T0      float64
	Dt      float64
	TMax    float64
	Clock   Clock
}

// Validate reports the first violated precondition as a *SettingsError.
func (s Settings) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"t0", s.T0}, {"dt", s.Dt}, {"tmax", s.TMax}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return &SettingsError{Field: v.name, Value: v.value, Reason: "must be finite"}
		}
	}
	if s.Dt <= 0 {
		return &SettingsError{Field: "dt", Value: s.Dt, Reason: "must be positive"}
	}
	if s.TMax <= s.T0 {
		return &SettingsError{Field: "tmax", Value: s.TMax, Reason: fmt.Sprintf("must be greater than t0 (%g)", s.T0)}
	}
	// t += dt must move t on every step or the loop never reaches tmax.
	m := math.Max(math.Abs(s.T0), math.Abs(s.TMax))
	if s.Dt < math.Nextafter(m, math.Inf(1))-m {
		return &SettingsError{Field: "dt", Value: s.Dt, Reason: fmt.Sprintf("too small to advance time near %g", m)}
	}
	return nil
}

// Times returns the clock value of each of the first n samples, advanced
// the same way the integration loop advances t. Under ClockAccumulate
// these carry the running sum's rounding drift.
func (s Settings) Times(n int) []float64 {
	times := make([]float64, n)
	t := s.T0
	for i := range times {
		times[i] = t
		if s.Clock == ClockIndexed {
			t = s.T0 + float64(float64(i+1)*s.Dt)
		} else {
			t += s.Dt
		}
	}
	return times
}

// Trajectory is the sequence of sampled states of one run; element i is
// the state at t0 + i*dt.
type Trajectory []State

func (tr Trajectory) Len() int { return len(tr) }

// Final returns the last state, or the zero State for an empty trajectory.
func (tr Trajectory) Final() State {
	if len(tr) == 0 {
		return State{}
	}
	return tr[len(tr)-1]
}

// Column extracts channel i of every sample.
func (tr Trajectory) Column(i int) []float64 {
	col := make([]float64, len(tr))
	for k, s := range tr {
		col[k] = s[i]
	}
	return col
}

// Project extracts two channels as equal-length sequences.
func (tr Trajectory) Project(i, j int) ([]float64, []float64) {
	return tr.Column(i), tr.Column(j)
}

// FirstInvalid returns the index of the first non-finite sample, or -1.
func (tr Trajectory) FirstInvalid() int {
	for i, s := range tr {
		if !s.IsValid() {
			return i
		}
	}
	return -1
}
