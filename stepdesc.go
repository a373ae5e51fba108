package particlesim

import (
	"fmt"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/simevent"
)

// ParticleTypeDescription is one particle type's contribution to a
// step: its own declared attributes, the integrator advancing it, and
// the events that may intercept that advance.
type ParticleTypeDescription struct {
	Name       string
	Attributes attrs.Info
	Integrator simevent.Integrator
	Events     []simevent.Event
}

// StepDescription is an immutable plan for one step: duration, the
// participating particle types, and the emitters that may add to them.
// It is consumed by value for the duration of one step and never
// mutated (spec.md §3).
type StepDescription struct {
	Duration float64
	Types    []ParticleTypeDescription
	Emitters []simevent.Emitter

	// MaxEventsPerBlock overrides DefaultMaxEventsPerStep when positive.
	MaxEventsPerBlock int
}

func (d StepDescription) maxEventsPerBlock() int {
	if d.MaxEventsPerBlock > 0 {
		return d.MaxEventsPerBlock
	}
	return DefaultMaxEventsPerStep
}

// validate runs the configuration checks of spec.md §7.1 and, if they
// all pass, returns each type's full descriptor set: the always-present
// Kill State/Birth Time attributes unioned with the type's own and its
// events' declared attributes.
func (d StepDescription) validate() (map[string]attrs.Info, error) {
	if d.Duration <= 0 {
		return nil, fmt.Errorf("particlesim: step duration %v is not positive", d.Duration)
	}
	required := attrs.NewInfo([]string{attrs.KillStateAttr}, []string{attrs.BirthTimeAttr}, nil)

	infoByType := make(map[string]attrs.Info, len(d.Types))
	for _, t := range d.Types {
		if _, ok := infoByType[t.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTypeName, t.Name)
		}
		sources := append([]attrs.Info{required, t.Attributes}, eventAttributes(t.Events)...)
		merged, err := mergeAttributeSources(sources...)
		if err != nil {
			return nil, fmt.Errorf("particlesim: type %q: %w", t.Name, err)
		}
		infoByType[t.Name] = merged
	}
	return infoByType, nil
}

func eventAttributes(events []simevent.Event) []attrs.Info {
	out := make([]attrs.Info, len(events))
	for i, ev := range events {
		out[i] = ev.Attributes()
	}
	return out
}

// mergeAttributeSources unions every source's attributes, failing if
// the same name is declared under two different kinds anywhere in the
// set.
func mergeAttributeSources(sources ...attrs.Info) (attrs.Info, error) {
	const (
		kindByte = iota + 1
		kindFloat
		kindFloat3
	)
	kindOf := make(map[string]int)
	merged := attrs.NewInfo(nil, nil, nil)

	record := func(name string, kind int) error {
		if existing, ok := kindOf[name]; ok && existing != kind {
			if name == attrs.KillStateAttr || name == attrs.BirthTimeAttr {
				return fmt.Errorf("%w: %q", ErrMissingRequiredAttribute, name)
			}
			return fmt.Errorf("%w: %q", ErrUndeclaredAttributeKind, name)
		}
		kindOf[name] = kind
		return nil
	}

	for _, info := range sources {
		for _, n := range info.ByteAttributes() {
			if err := record(n, kindByte); err != nil {
				return attrs.Info{}, err
			}
		}
		for _, n := range info.FloatAttributes() {
			if err := record(n, kindFloat); err != nil {
				return attrs.Info{}, err
			}
		}
		for _, n := range info.Float3Attributes() {
			if err := record(n, kindFloat3); err != nil {
				return attrs.Info{}, err
			}
		}
		merged = merged.UnionWith(info)
	}
	return merged, nil
}
