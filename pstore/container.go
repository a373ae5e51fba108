package pstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gekko3d/particlesim/attrs"
)

// Container owns every block for one particle type, plus the type's
// attribute descriptor set. Grounded on particles_container.hpp's
// ParticlesContainer.
//
// New/Release and attribute updates are serialized with a mutex per
// spec.md §5 ("block acquisition from a container must be serialized").
// Reading ActiveBlocks during a parallel region never races with that
// mutex because the step driver only mutates the container set in its
// serial phases.
type Container struct {
	id       uuid.UUID
	capacity int

	mu     sync.Mutex
	info   attrs.Info
	blocks map[*Block]struct{}
}

// NewContainer creates an empty container for one particle type with no
// attributes declared yet (the step driver fills them in via
// UpdateAttributes before first use).
func NewContainer(capacity int) *Container {
	return &Container{
		id:       uuid.New(),
		capacity: capacity,
		blocks:   make(map[*Block]struct{}),
	}
}

// ID returns a debug/tracing identity for this container.
func (c *Container) ID() uuid.UUID { return c.id }

// Info returns the container's current attribute descriptor set.
func (c *Container) Info() attrs.Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Capacity returns the fixed per-block row capacity.
func (c *Container) Capacity() int { return c.capacity }

// ActiveBlocks returns a snapshot slice of every block currently owned
// by the container.
func (c *Container) ActiveBlocks() []*Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Block, 0, len(c.blocks))
	for b := range c.blocks {
		out = append(out, b)
	}
	return out
}

// NewBlock allocates an empty block with the container's current
// attribute layout and registers it with the container.
func (c *Container) NewBlock() *Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := newBlock(c)
	c.blocks[b] = struct{}{}
	return b
}

// ReleaseBlock frees an empty block. It is a programmer error to release
// a block that still has active rows.
func (c *Container) ReleaseBlock(b *Block) {
	if !b.IsEmpty() {
		invariant("Container.ReleaseBlock", "block %s has %d active rows", b.ID(), b.ActiveAmount())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.blocks, b)
}

// UpdateAttributes atomically replaces the descriptor set for the
// container and every block it owns, preserving data for attributes
// present in both the old and new sets and zero-filling the rest (see
// attrs.Retype).
func (c *Container) UpdateAttributes(newInfo attrs.Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.info.Equal(newInfo) {
		return
	}
	c.info = newInfo
	for b := range c.blocks {
		b.setArraysCore(attrs.Retype(b.ArraysCore(), newInfo))
	}
}
