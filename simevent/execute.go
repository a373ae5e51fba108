package simevent

import (
	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scratch"
)

// ExecuteInterface is the view one event's Execute call sees: the
// subset of particles for which it won this sub-step, their current
// absolute time, the shrunk attribute offsets, the event's own storage,
// and the allocators it may spawn particles or scratch through.
type ExecuteInterface struct {
	// Particles is the block-local index subset this event owns this
	// sub-step.
	Particles pstore.ParticleSet

	// EndTime and RemainingDurations let CurrentTime compute each
	// particle's absolute arrival time at this event, using the
	// already-shrunk remaining durations (spec.md §4.4 step 7).
	EndTime            float64
	RemainingDurations []float32

	// Offsets is the attribute_offsets view, addressed by block-local
	// index, already shrunk to what remains after this event fires.
	Offsets attrs.Arrays

	// Storage is this event's own per-particle auxiliary data, written
	// during the matching Filter call.
	Storage *EventStorage

	Allocator *pstore.ParticleAllocator
	Arrays    *scratch.ArrayAllocator
}

// Block returns the block being simulated.
func (e *ExecuteInterface) Block() *pstore.Block { return e.Particles.Block() }

// CurrentTime returns the absolute simulation time pindex reached this
// event.
func (e *ExecuteInterface) CurrentTime(pindex int) float64 {
	return e.EndTime - float64(e.RemainingDurations[pindex])
}

// Kill flags pindex for removal at the step driver's next deletion pass.
func (e *ExecuteInterface) Kill(pindex int) {
	e.Block().SliceAll().GetByte(attrs.KillStateAttr)[pindex] = 1
}
