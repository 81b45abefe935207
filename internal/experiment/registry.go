package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/physics"
)

var ErrUnknownField = errors.New("experiment: unknown field")

// FieldInfo describes a registered vector field.
type FieldInfo struct {
	Name          string
	Description   string
	Field         dynamo.Field
	DefaultParams dynamo.Params
	DefaultState  dynamo.State
}

type Registry struct {
	fields map[string]FieldInfo
}

func NewRegistry() *Registry {
	r := &Registry{fields: make(map[string]FieldInfo)}

	r.Register(FieldInfo{
		Name: "lorenz", Description: "butterfly attractor (A=sigma, B=rho, C=beta)",
		Field: physics.Lorenz, DefaultParams: physics.ReferenceParams, DefaultState: physics.DefaultState,
	})
	r.Register(FieldInfo{
		Name: "rossler", Description: "spiral attractor (A=a, B=b, C=c)",
		Field: physics.Rossler, DefaultParams: physics.RosslerParams, DefaultState: physics.DefaultState,
	})
	r.Register(FieldInfo{
		Name: "decay", Description: "linear test equation dx/dt = -A*x",
		Field: physics.Decay, DefaultParams: physics.DecayParams, DefaultState: dynamo.State{1, 0, 0},
	})
	r.Register(FieldInfo{
		Name: "zero", Description: "identically zero derivative",
		Field: physics.Zero, DefaultState: physics.DefaultState,
	})

	return r
}

// Register adds or replaces a field.
func (r *Registry) Register(info FieldInfo) {
	r.fields[info.Name] = info
}

func (r *Registry) GetField(name string) (FieldInfo, error) {
	info, ok := r.fields[name]
	if !ok {
		return FieldInfo{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return info, nil
}

func (r *Registry) ListFields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
