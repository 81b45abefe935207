package integrators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/fixstep/internal/dynamo"
)

var ErrUnknownScheme = errors.New("integrators: unknown scheme")

// Scheme names one of the fixed-step update rules.
type Scheme int

const (
	Forward Scheme = iota
	Midpoint
	RK4
)

var schemeInfo = [...]struct {
	name  string
	title string
	evals int
	order int
}{
	Forward:  {"euler", "Euler Method", 1, 1},
	Midpoint: {"midpoint", "Midpoint Method", 2, 2},
	RK4:      {"rk4", "RK4 Method", 4, 4},
}

// Schemes lists every scheme in comparison order.
func Schemes() []Scheme {
	return []Scheme{Forward, Midpoint, RK4}
}

func (s Scheme) valid() bool {
	return s >= Forward && s <= RK4
}

func (s Scheme) String() string {
	if !s.valid() {
		return fmt.Sprintf("scheme(%d)", int(s))
	}
	return schemeInfo[s].name
}

// Title is the figure title used when plotting the scheme's trajectory.
func (s Scheme) Title() string {
	if !s.valid() {
		return s.String()
	}
	return schemeInfo[s].title
}

// Evaluations is the number of field evaluations per step.
func (s Scheme) Evaluations() int {
	if !s.valid() {
		return 0
	}
	return schemeInfo[s].evals
}

// Order is the global order of accuracy.
func (s Scheme) Order() int {
	if !s.valid() {
		return 0
	}
	return schemeInfo[s].order
}

// Stepper returns the update rule for s.
func (s Scheme) Stepper() (dynamo.Stepper, error) {
	switch s {
	case Forward:
		return NewEuler(), nil
	case Midpoint:
		return NewMidpoint(), nil
	case RK4:
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}
}

func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler", "forward":
		return Forward, nil
	case "midpoint":
		return Midpoint, nil
	case "rk4":
		return RK4, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownScheme, name)
	}
}

// ParseSchemes parses a list of names, rejecting duplicates. An empty
// list selects every scheme.
func ParseSchemes(names []string) ([]Scheme, error) {
	if len(names) == 0 {
		return Schemes(), nil
	}
	seen := make(map[Scheme]bool, len(names))
	out := make([]Scheme, 0, len(names))
	for _, n := range names {
		s, err := ParseScheme(n)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			return nil, fmt.Errorf("duplicate scheme: %s", s)
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func (s Scheme) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
