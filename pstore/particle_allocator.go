package pstore

// ParticleSlot names a contiguous run of rows newly claimed inside a
// block: [Start, Start+Length).
type ParticleSlot struct {
	Block  *Block
	Start  int
	Length int
}

// ParticleAllocator is a worker-owned sink that absorbs particle births.
// It keeps one partially filled block per particle type and allocates a
// fresh one from the type's container whenever the current sink is full
// or missing. It is single-thread-owned: concurrent workers must use
// distinct allocators (spec.md §4.2, §5).
//
// Grounded on simulate.cpp's ParticleAllocator.
type ParticleAllocator struct {
	state   *State
	sinks   map[string]*Block
	created []*Block
	born    int
}

// NewParticleAllocator returns an allocator that acquires blocks from
// state's containers.
func NewParticleAllocator(state *State) *ParticleAllocator {
	return &ParticleAllocator{state: state, sinks: make(map[string]*Block)}
}

// State returns the owning simulation state.
func (pa *ParticleAllocator) State() *State { return pa.state }

// Request returns n slots of typeName, possibly spanning several
// blocks, allocating new blocks from the type's container as needed.
// Newly created blocks are tracked in CreatedBlocks for the step driver
// to simulate from birth to step end.
func (pa *ParticleAllocator) Request(typeName string, n int) []ParticleSlot {
	if n <= 0 {
		return nil
	}
	var slots []ParticleSlot
	for n > 0 {
		sink := pa.sinks[typeName]
		if sink == nil || sink.IsFull() {
			container := pa.state.Container(typeName)
			if container == nil {
				invariant("ParticleAllocator.Request", "no container registered for type %q", typeName)
			}
			sink = container.NewBlock()
			pa.sinks[typeName] = sink
			pa.created = append(pa.created, sink)
		}
		room := sink.InactiveAmount()
		take := n
		if take > room {
			take = room
		}
		start := sink.ActiveAmount()
		sink.SetActiveAmount(start + take)
		slots = append(slots, ParticleSlot{Block: sink, Start: start, Length: take})
		pa.born += take
		n -= take
	}
	return slots
}

// CreatedBlocks returns every block this allocator acquired from a
// container, in acquisition order.
func (pa *ParticleAllocator) CreatedBlocks() []*Block { return pa.created }

// Born returns the total number of rows this allocator has handed out
// across every Request call.
func (pa *ParticleAllocator) Born() int { return pa.born }
