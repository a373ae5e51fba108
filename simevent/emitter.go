package simevent

import (
	"github.com/gekko3d/particlesim/pstore"
	"github.com/gekko3d/particlesim/scratch"
)

// Emitter produces new particles once per step, writing births through
// its particle allocator. Emitted particles must have every required
// attribute set, including an absolute "Birth Time" inside the step's
// span (spec.md §4.5 step 5).
type Emitter interface {
	Emit(e *EmitterInterface)
}

// EmitterInterface is the view an Emitter call sees.
type EmitterInterface struct {
	Allocator *pstore.ParticleAllocator
	Arrays    *scratch.ArrayAllocator
	Span      pstore.TimeSpan
}
