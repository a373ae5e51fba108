// Package scenario loads declarative YAML test fixtures into a
// particlesim.StepDescription, so integration tests read as data
// instead of nested Go literals (mirrors gekko's mod_presets.go
// declarative-preset idiom).
package scenario

// Fixture is the top-level shape of a scenario YAML document.
type Fixture struct {
	Duration          float64          `yaml:"duration"`
	MaxEventsPerBlock int              `yaml:"max_events_per_block"`
	Types             []typeFixture    `yaml:"types"`
	Emitters          []emitterFixture `yaml:"emitters"`
}

type attributesFixture struct {
	Byte   []string `yaml:"byte"`
	Float  []string `yaml:"float"`
	Float3 []string `yaml:"float3"`
}

type namedFixture struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type typeFixture struct {
	Name       string            `yaml:"name"`
	Attributes attributesFixture `yaml:"attributes"`
	Integrator namedFixture      `yaml:"integrator"`
	Events     []namedFixture    `yaml:"events"`
}

type emitterFixture struct {
	Type   string         `yaml:"type"`
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}
