package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/particlesim"
	"github.com/gekko3d/particlesim/attrs"
)

// Load reads the YAML fixture at path and builds the StepDescription it
// describes, resolving integrator/event/emitter names against
// registry.
func Load(path string, registry *Registry) (particlesim.StepDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return particlesim.StepDescription{}, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return particlesim.StepDescription{}, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}
	return Build(fixture, registry)
}

// Build turns an already-parsed fixture into a StepDescription.
func Build(fixture Fixture, registry *Registry) (particlesim.StepDescription, error) {
	desc := particlesim.StepDescription{
		Duration:          fixture.Duration,
		MaxEventsPerBlock: fixture.MaxEventsPerBlock,
	}

	for _, tf := range fixture.Types {
		td, err := buildType(tf, registry)
		if err != nil {
			return particlesim.StepDescription{}, fmt.Errorf("scenario: type %q: %w", tf.Name, err)
		}
		desc.Types = append(desc.Types, td)
	}

	for _, ef := range fixture.Emitters {
		ctor, ok := registry.emitters[ef.Name]
		if !ok {
			return particlesim.StepDescription{}, fmt.Errorf("scenario: unknown emitter %q", ef.Name)
		}
		emitter, err := ctor(ef.Type, ef.Params)
		if err != nil {
			return particlesim.StepDescription{}, fmt.Errorf("scenario: emitter %q: %w", ef.Name, err)
		}
		desc.Emitters = append(desc.Emitters, emitter)
	}

	return desc, nil
}

func buildType(tf typeFixture, registry *Registry) (particlesim.ParticleTypeDescription, error) {
	td := particlesim.ParticleTypeDescription{
		Name: tf.Name,
		Attributes: attrs.NewInfo(
			tf.Attributes.Byte,
			tf.Attributes.Float,
			tf.Attributes.Float3,
		),
	}

	if tf.Integrator.Name != "" {
		ctor, ok := registry.integrators[tf.Integrator.Name]
		if !ok {
			return particlesim.ParticleTypeDescription{}, fmt.Errorf("unknown integrator %q", tf.Integrator.Name)
		}
		integrator, err := ctor(tf.Integrator.Params)
		if err != nil {
			return particlesim.ParticleTypeDescription{}, fmt.Errorf("integrator %q: %w", tf.Integrator.Name, err)
		}
		td.Integrator = integrator
	}

	for _, ev := range tf.Events {
		ctor, ok := registry.events[ev.Name]
		if !ok {
			return particlesim.ParticleTypeDescription{}, fmt.Errorf("unknown event %q", ev.Name)
		}
		event, err := ctor(ev.Params)
		if err != nil {
			return particlesim.ParticleTypeDescription{}, fmt.Errorf("event %q: %w", ev.Name, err)
		}
		td.Events = append(td.Events, event)
	}

	return td, nil
}
