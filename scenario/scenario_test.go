package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particlesim"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scenario"
)

func TestLoadFallingDustBuildsRunnableStepDescription(t *testing.T) {
	registry := scenario.NewDefaultRegistry()
	desc, err := scenario.Load("testdata/falling_dust.yaml", registry)
	require.NoError(t, err)

	require.Len(t, desc.Types, 1)
	assert.Equal(t, "Dust", desc.Types[0].Name)
	require.Len(t, desc.Emitters, 1)

	state := pstore.NewState()
	_, err = particlesim.Simulate(state, desc, nil)
	require.NoError(t, err)

	container := state.Container("Dust")
	require.NotNil(t, container)
	// The emitted particle reaches age 0.5 exactly at the step's
	// midpoint, is killed before the step ends, and the now-empty
	// block is released during compression.
	assert.Empty(t, container.ActiveBlocks())
}

func TestLoadUnknownIntegratorNameErrors(t *testing.T) {
	registry := scenario.NewDefaultRegistry()
	_, err := scenario.Load("testdata/unknown_integrator.yaml", registry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestBuildEmptyFixtureProducesEmptyStepDescription(t *testing.T) {
	registry := scenario.NewRegistry()
	fixture := scenario.Fixture{Duration: 1.0}

	desc, err := scenario.Build(fixture, registry)

	require.NoError(t, err)
	assert.Empty(t, desc.Types)
	assert.Empty(t, desc.Emitters)
}
