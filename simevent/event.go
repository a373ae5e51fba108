package simevent

import "github.com/gekko3d/particlesim/attrs"

// Event is a host-supplied capability set: a predicate over time plus a
// mutation it performs when that predicate fires first. Declared in a
// particle type's event list, events are filtered in declared order and
// executed in declared order (spec.md §4.4, §5).
type Event interface {
	// Attributes returns the attributes this event contributes to its
	// type's descriptor set, unioned in by ensure_required_attributes_exist.
	Attributes() attrs.Info

	// StorageSize returns the number of auxiliary bytes this event writes
	// per triggered particle in Filter and reads back in Execute. Zero if
	// the event carries no per-particle state between the two calls.
	StorageSize() int

	// Filter inspects the current round's particles, offsets and
	// remaining durations and calls f.Trigger for every particle it
	// wishes to intercept.
	Filter(f *FilterInterface)

	// Execute mutates attributes for the subset of particles this event
	// won for this sub-step. It may kill particles or, via e.Allocator,
	// spawn new ones.
	Execute(e *ExecuteInterface)
}
