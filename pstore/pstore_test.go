package pstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particlesim/attrs"
	"github.com/gekko3d/particlesim/pstore"
)

func testInfo() attrs.Info {
	return attrs.NewInfo([]string{attrs.KillStateAttr}, []string{attrs.BirthTimeAttr}, []string{"Position"})
}

func fillActive(b *pstore.Block, n int) {
	b.SetActiveAmount(n)
	pos := b.SliceAll().GetFloat3("Position")
	for i := 0; i < n; i++ {
		pos[i][0] = float32(i + 1)
	}
}

func TestBlockMoveCopiesEveryAttribute(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	b := c.NewBlock()
	fillActive(b, 3)

	b.Move(0, 2)

	pos := b.SliceAll().GetFloat3("Position")
	assert.Equal(t, float32(1), pos[2][0])
}

func TestBlockSetActiveAmountOutOfRangePanics(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	b := c.NewBlock()

	assert.Panics(t, func() {
		b.SetActiveAmount(5)
	})
}

func TestMoveUntilFullTransfersExactlyWhatFits(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	from := c.NewBlock()
	to := c.NewBlock()
	fillActive(from, 3)
	fillActive(to, 2)

	moved := pstore.MoveUntilFull(from, to)

	require.Equal(t, 2, moved)
	assert.Equal(t, 1, from.ActiveAmount())
	assert.Equal(t, 4, to.ActiveAmount())
	assert.True(t, to.IsFull())
}

func TestMoveUntilFullPreservesRowValues(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	from := c.NewBlock()
	to := c.NewBlock()
	fillActive(from, 2)
	fillActive(to, 0)

	pstore.MoveUntilFull(from, to)

	pos := to.SliceAll().GetFloat3("Position")
	// MoveUntilFull drains from's tail first, so row 1 (value 2) lands
	// before row 0 (value 1).
	assert.Equal(t, float32(2), pos[0][0])
	assert.Equal(t, float32(1), pos[1][0])
}

func TestCompressLeavesAtMostOnePartiallyFullBlock(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	a := c.NewBlock()
	b := c.NewBlock()
	d := c.NewBlock()
	fillActive(a, 1)
	fillActive(b, 1)
	fillActive(d, 1)

	blocks := []*pstore.Block{a, b, d}
	pstore.Compress(blocks)

	full, partial, empty := 0, 0, 0
	for _, blk := range blocks {
		switch {
		case blk.IsFull():
			full++
		case blk.IsEmpty():
			empty++
		default:
			partial++
		}
	}
	assert.LessOrEqual(t, partial, 1)
	assert.Equal(t, 0, full)
	assert.Equal(t, 2, empty)
}

func TestCompressNoopWhenAlreadyOptimal(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	a := c.NewBlock()
	b := c.NewBlock()
	partial := c.NewBlock()
	fillActive(a, 4)
	fillActive(b, 4)
	fillActive(partial, 2)

	blocks := []*pstore.Block{a, b, partial}
	pstore.Compress(blocks)

	assert.Equal(t, 4, a.ActiveAmount())
	assert.Equal(t, 4, b.ActiveAmount())
	assert.Equal(t, 2, partial.ActiveAmount())
}

func TestContainerReleaseNonEmptyBlockPanics(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(testInfo())
	b := c.NewBlock()
	fillActive(b, 1)

	assert.Panics(t, func() {
		c.ReleaseBlock(b)
	})
}

func TestContainerUpdateAttributesRetypesExistingBlocks(t *testing.T) {
	c := pstore.NewContainer(4)
	c.UpdateAttributes(attrs.NewInfo([]string{attrs.KillStateAttr}, []string{attrs.BirthTimeAttr}, []string{"Position"}))
	b := c.NewBlock()
	fillActive(b, 1)

	c.UpdateAttributes(attrs.NewInfo([]string{attrs.KillStateAttr}, []string{attrs.BirthTimeAttr}, []string{"Position", "Velocity"}))

	assert.True(t, b.SliceAll().Info().HasFloat3("Velocity"))
	pos := b.SliceAll().GetFloat3("Position")
	assert.Equal(t, float32(1), pos[0][0])
}

func TestStateEnsureContainerIsIdempotent(t *testing.T) {
	s := pstore.NewState()
	a := s.EnsureContainer("Dust", 16)
	b := s.EnsureContainer("Dust", 16)
	assert.Same(t, a, b)
}

func TestStateAdvanceToMovesClockForward(t *testing.T) {
	s := pstore.NewState()
	assert.Equal(t, 0.0, s.CurrentTime())
	s.AdvanceTo(1.5)
	assert.Equal(t, 1.5, s.CurrentTime())
}

func TestParticleAllocatorSpansMultipleBlocksOnOverflow(t *testing.T) {
	s := pstore.NewState()
	c := s.EnsureContainer("Dust", 4)
	c.UpdateAttributes(testInfo())
	alloc := pstore.NewParticleAllocator(s)

	slots := alloc.Request("Dust", 6)

	require.Len(t, slots, 2)
	assert.Equal(t, 4, slots[0].Length)
	assert.Equal(t, 2, slots[1].Length)
	assert.Equal(t, 2, len(alloc.CreatedBlocks()))
	assert.Equal(t, 6, alloc.Born())
}

func TestParticleAllocatorReusesPartialSinkAcrossRequests(t *testing.T) {
	s := pstore.NewState()
	c := s.EnsureContainer("Dust", 4)
	c.UpdateAttributes(testInfo())
	alloc := pstore.NewParticleAllocator(s)

	first := alloc.Request("Dust", 1)
	second := alloc.Request("Dust", 1)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Same(t, first[0].Block, second[0].Block)
	assert.Equal(t, 1, len(alloc.CreatedBlocks()))
}

func TestParticleAllocatorRequestOnUnknownTypePanics(t *testing.T) {
	s := pstore.NewState()
	alloc := pstore.NewParticleAllocator(s)

	assert.Panics(t, func() {
		alloc.Request("Ghost", 1)
	})
}

func TestParticleSetRangeIsBlockLocal(t *testing.T) {
	c := pstore.NewContainer(8)
	c.UpdateAttributes(testInfo())
	b := c.NewBlock()
	fillActive(b, 8)

	set := pstore.NewRangeParticleSet(b, 2, 3)

	require.Equal(t, 3, set.Size())
	assert.Equal(t, []int{2, 3, 4}, set.Indices())
	assert.Equal(t, 3, set.ParticleIndex(1))
}
