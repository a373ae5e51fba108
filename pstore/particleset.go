package pstore

// ParticleSet names a subset of a block's rows by block-local index. The
// identity of a particle, (block, local index), is stable only for the
// duration of one sub-step: compaction and deletion may reassign
// indices (spec.md §3).
type ParticleSet struct {
	block   *Block
	indices []int
}

// NewParticleSet wraps an explicit list of block-local row indices.
func NewParticleSet(block *Block, indices []int) ParticleSet {
	return ParticleSet{block: block, indices: indices}
}

// NewRangeParticleSet returns the particle set [start, start+length) of
// block, materialized as an explicit index list.
func NewRangeParticleSet(block *Block, start, length int) ParticleSet {
	indices := make([]int, length)
	for i := range indices {
		indices[i] = start + i
	}
	return ParticleSet{block: block, indices: indices}
}

// Block returns the block this set indexes into.
func (p ParticleSet) Block() *Block { return p.block }

// Size returns the number of particles in the set.
func (p ParticleSet) Size() int { return len(p.indices) }

// ParticleIndex returns the block-local row index at position i.
func (p ParticleSet) ParticleIndex(i int) int { return p.indices[i] }

// Indices returns the full block-local index list. Callers must not
// mutate the returned slice.
func (p ParticleSet) Indices() []int { return p.indices }
