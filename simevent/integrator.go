package simevent

import (
	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scratch"
)

// Integrator computes per-particle displacement offsets over a duration
// for one particle type. The core is agnostic to the physics: it only
// requires that Integrate fully populate offsets for every attribute
// named by OffsetInfo (spec.md §4.3).
type Integrator interface {
	// OffsetInfo declares which float3 attributes this integrator
	// produces offsets for, typically a subset of the type's own
	// attributes (e.g. just "Position").
	OffsetInfo() attrs.Info

	// Integrate fills in.Offsets for every particle index named by
	// in.Particles.
	Integrate(in *IntegratorInterface)
}

// IntegratorInterface is the view an Integrator call sees.
type IntegratorInterface struct {
	Particles          pstore.ParticleSet
	RemainingDurations []float32
	Offsets            attrs.Arrays
	Arrays             *scratch.ArrayAllocator
}

// Block returns the block being integrated.
func (in *IntegratorInterface) Block() *pstore.Block { return in.Particles.Block() }
