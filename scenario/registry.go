package scenario

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particlesim/simevent"
)

// Registry resolves the integrator/event/emitter names a fixture
// references to concrete constructors, so a YAML document never needs
// to name a Go type directly.
type Registry struct {
	integrators map[string]func(params map[string]any) (simevent.Integrator, error)
	events      map[string]func(params map[string]any) (simevent.Event, error)
	emitters    map[string]func(typeName string, params map[string]any) (simevent.Emitter, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		integrators: make(map[string]func(params map[string]any) (simevent.Integrator, error)),
		events:      make(map[string]func(params map[string]any) (simevent.Event, error)),
		emitters:    make(map[string]func(typeName string, params map[string]any) (simevent.Emitter, error)),
	}
}

// RegisterIntegrator adds or replaces the constructor for name.
func (r *Registry) RegisterIntegrator(name string, ctor func(params map[string]any) (simevent.Integrator, error)) {
	r.integrators[name] = ctor
}

// RegisterEvent adds or replaces the constructor for name.
func (r *Registry) RegisterEvent(name string, ctor func(params map[string]any) (simevent.Event, error)) {
	r.events[name] = ctor
}

// RegisterEmitter adds or replaces the constructor for name.
func (r *Registry) RegisterEmitter(name string, ctor func(typeName string, params map[string]any) (simevent.Emitter, error)) {
	r.emitters[name] = ctor
}

// NewDefaultRegistry returns a registry seeded with the small built-in
// set: constant_offset/gravity integrators, a kill_after_age event, and
// a point_emitter, enough to express the scenarios in testdata/.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterIntegrator("constant_offset", func(params map[string]any) (simevent.Integrator, error) {
		attribute, err := stringParam(params, "attribute")
		if err != nil {
			return nil, err
		}
		velocity, err := vec3Param(params, "velocity")
		if err != nil {
			return nil, err
		}
		return constantOffsetIntegrator{attribute: attribute, velocity: velocity}, nil
	})

	r.RegisterIntegrator("gravity", func(params map[string]any) (simevent.Integrator, error) {
		gravity, err := vec3Param(params, "gravity")
		if err != nil {
			return nil, err
		}
		return gravityIntegrator{gravity: gravity}, nil
	})

	r.RegisterEvent("kill_after_age", func(params map[string]any) (simevent.Event, error) {
		age, err := floatParam(params, "age")
		if err != nil {
			return nil, err
		}
		return killAfterAgeEvent{age: float32(age)}, nil
	})

	r.RegisterEmitter("point_emitter", func(typeName string, params map[string]any) (simevent.Emitter, error) {
		position, err := vec3Param(params, "position")
		if err != nil {
			return nil, err
		}
		times, err := floatSliceParam(params, "times")
		if err != nil {
			return nil, err
		}
		return pointEmitter{typeName: typeName, position: position, times: times}, nil
	})

	return r
}

func stringParam(params map[string]any, name string) (string, error) {
	v, ok := params[name]
	if !ok {
		return "", fmt.Errorf("scenario: missing required param %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("scenario: param %q must be a string, got %T", name, v)
	}
	return s, nil
}

func floatParam(params map[string]any, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("scenario: missing required param %q", name)
	}
	return toFloat64(v, name)
}

func vec3Param(params map[string]any, name string) (mgl32.Vec3, error) {
	v, ok := params[name]
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("scenario: missing required param %q", name)
	}
	items, ok := v.([]any)
	if !ok || len(items) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("scenario: param %q must be a 3-element list", name)
	}
	var out mgl32.Vec3
	for i, item := range items {
		f, err := toFloat64(item, name)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func floatSliceParam(params map[string]any, name string) ([]float64, error) {
	v, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("scenario: missing required param %q", name)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("scenario: param %q must be a list", name)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat64(item, name)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func toFloat64(v any, name string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("scenario: param %q must be numeric, got %T", name, v)
	}
}
