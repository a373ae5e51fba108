package pstore

import (
	"sort"

	"github.com/google/uuid"

	"github.com/gekko3d/particlesim/attrs"
)

// Block is a fixed-capacity slab of particles belonging to exactly one
// Container for its lifetime. Rows [0, ActiveAmount()) are active; rows
// [ActiveAmount(), Capacity()) hold undefined data that must not be
// read. Grounded on particles_container.hpp's ParticlesBlock.
type Block struct {
	id          uuid.UUID
	container   *Container
	arrays      attrs.ArraysCore
	activeCount int
}

func newBlock(container *Container) *Block {
	return &Block{
		id:        uuid.New(),
		container: container,
		arrays:    attrs.NewArraysCore(container.Info(), container.capacity),
	}
}

// ID returns a debug/tracing identity for this block.
func (b *Block) ID() uuid.UUID { return b.id }

// Container returns the owning container. The reference is non-owning:
// the block never outlives it.
func (b *Block) Container() *Container { return b.container }

// Capacity returns the block's fixed row capacity.
func (b *Block) Capacity() int { return b.container.capacity }

// ActiveAmount returns the number of active rows, in [0, Capacity()].
func (b *Block) ActiveAmount() int { return b.activeCount }

// InactiveAmount returns Capacity() - ActiveAmount().
func (b *Block) InactiveAmount() int { return b.Capacity() - b.activeCount }

// IsFull reports whether every row is active.
func (b *Block) IsFull() bool { return b.activeCount == b.Capacity() }

// IsEmpty reports whether no row is active.
func (b *Block) IsEmpty() bool { return b.activeCount == 0 }

// SetActiveAmount overwrites the active row count directly. Used by the
// deletion pass and by particle allocators claiming freshly written
// rows; callers are responsible for keeping it within [0, Capacity()].
func (b *Block) SetActiveAmount(n int) {
	if n < 0 || n > b.Capacity() {
		invariant("Block.SetActiveAmount", "active amount %d out of range [0, %d]", n, b.Capacity())
	}
	b.activeCount = n
}

// Clear resets the block to empty without touching its storage.
func (b *Block) Clear() { b.activeCount = 0 }

// SliceAll returns a view over every row, active or not.
func (b *Block) SliceAll() attrs.Arrays { return b.arrays.SliceAll() }

// SliceActive returns a view over [0, ActiveAmount()).
func (b *Block) SliceActive() attrs.Arrays { return b.arrays.Slice(0, b.activeCount) }

// Slice returns a view over [start, start+length).
func (b *Block) Slice(start, length int) attrs.Arrays { return b.arrays.Slice(start, length) }

// ArraysCore exposes the raw columnar storage, e.g. so the step driver
// can rebuild it on a descriptor-set change.
func (b *Block) ArraysCore() attrs.ArraysCore { return b.arrays }

func (b *Block) setArraysCore(core attrs.ArraysCore) { b.arrays = core }

// Move copies row old over row new across every attribute. ActiveAmount
// is unaffected; callers adjust it themselves.
func (b *Block) Move(oldIndex, newIndex int) {
	if oldIndex < 0 || oldIndex >= b.Capacity() || newIndex < 0 || newIndex >= b.Capacity() {
		invariant("Block.Move", "index out of range: old=%d new=%d capacity=%d", oldIndex, newIndex, b.Capacity())
	}
	b.arrays.Move(oldIndex, newIndex)
}

// MoveUntilFull transfers active rows from the end of `from` into the
// inactive tail of `to` until `to` is full or `from` is empty. Returns
// the number of rows transferred, which equals
// min(from.ActiveAmount(), to.Capacity()-to.ActiveAmount()).
func MoveUntilFull(from, to *Block) int {
	n := from.ActiveAmount()
	if room := to.InactiveAmount(); n > room {
		n = room
	}
	if n <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		srcIndex := from.ActiveAmount() - 1 - i
		dstIndex := to.ActiveAmount() + i
		// Move row-for-row directly between the two blocks' storage.
		copyRow(from, srcIndex, to, dstIndex)
	}
	from.SetActiveAmount(from.ActiveAmount() - n)
	to.SetActiveAmount(to.ActiveAmount() + n)
	return n
}

func copyRow(from *Block, srcIndex int, to *Block, dstIndex int) {
	src := from.arrays.SliceAll()
	dst := to.arrays.SliceAll()
	info := src.Info()
	for i := 0; i < info.ByteCount(); i++ {
		dst.GetByteByIndex(i)[dstIndex] = src.GetByteByIndex(i)[srcIndex]
	}
	for i := 0; i < info.FloatCount(); i++ {
		dst.GetFloatByIndex(i)[dstIndex] = src.GetFloatByIndex(i)[srcIndex]
	}
	for i := 0; i < info.Float3Count(); i++ {
		dst.GetFloat3ByIndex(i)[dstIndex] = src.GetFloat3ByIndex(i)[srcIndex]
	}
}

// Compress sorts blocks by ActiveAmount descending, then repeatedly
// pours the least-full block into the most-full one (excluding the
// most-full block itself) until at most one block is left partially
// full. It does not release empty blocks; callers do that afterward.
func Compress(blocks []*Block) {
	if len(blocks) <= 1 {
		return
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].ActiveAmount() > blocks[j].ActiveAmount()
	})

	fullest := 0
	emptiest := len(blocks) - 1
	for fullest < emptiest {
		if blocks[emptiest].IsEmpty() {
			emptiest--
			continue
		}
		if blocks[fullest].IsFull() {
			fullest++
			continue
		}
		MoveUntilFull(blocks[emptiest], blocks[fullest])
	}
}
