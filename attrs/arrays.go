package attrs

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/particlesim/internal/align"
)

// ArraysCore is the columnar storage for one block: one contiguous array
// per attribute, each sized to the block's capacity. Float3 arrays are
// 16-byte aligned so the event loop's vectorized add is always legal.
type ArraysCore struct {
	info     Info
	capacity int
	bytes    [][]byte
	floats   [][]float32
	float3s  [][]mgl32.Vec3
}

// NewArraysCore allocates fresh storage for every attribute in info,
// sized to capacity.
func NewArraysCore(info Info, capacity int) ArraysCore {
	core := ArraysCore{
		info:     info,
		capacity: capacity,
		bytes:    make([][]byte, info.ByteCount()),
		floats:   make([][]float32, info.FloatCount()),
		float3s:  make([][]mgl32.Vec3, info.Float3Count()),
	}
	for i := range core.bytes {
		core.bytes[i] = make([]byte, capacity)
	}
	for i := range core.floats {
		core.floats[i] = make([]float32, capacity)
	}
	for i := range core.float3s {
		core.float3s[i] = align.Vec3Slice(capacity)
	}
	return core
}

// Info returns the descriptor set this storage was built for.
func (c ArraysCore) Info() Info { return c.info }

// Capacity returns the fixed row capacity of this storage.
func (c ArraysCore) Capacity() int { return c.capacity }

// SliceAll returns a view over all capacity rows.
func (c ArraysCore) SliceAll() Arrays { return Arrays{core: c, length: c.capacity} }

// Slice returns a view over [start, start+length).
func (c ArraysCore) Slice(start, length int) Arrays {
	return c.SliceAll().Slice(start, length)
}

// Move copies row old over row new across every attribute array.
func (c ArraysCore) Move(oldIndex, newIndex int) {
	for _, col := range c.bytes {
		col[newIndex] = col[oldIndex]
	}
	for _, col := range c.floats {
		col[newIndex] = col[oldIndex]
	}
	for _, col := range c.float3s {
		col[newIndex] = col[oldIndex]
	}
}

// Arrays is a sub-slice view of an ArraysCore restricted to the first
// `length` rows starting at `offset`.
type Arrays struct {
	core   ArraysCore
	offset int
	length int
}

// Info returns the descriptor set backing this view.
func (a Arrays) Info() Info { return a.core.Info() }

// Len returns the number of rows this view covers.
func (a Arrays) Len() int { return a.length }

// Slice returns a sub-view of a, relative to a's own offset.
func (a Arrays) Slice(start, length int) Arrays {
	if start < 0 || length < 0 || start+length > a.length {
		panic("attrs: slice out of range")
	}
	return Arrays{core: a.core, offset: a.offset + start, length: length}
}

// GetByte returns the named byte attribute's backing array restricted to
// this view's window: Len() rows, starting at the view's offset.
func (a Arrays) GetByte(name string) []byte {
	i := a.core.info.IndexOfByte(name)
	if i < 0 {
		panic("attrs: unknown byte attribute " + name)
	}
	return a.core.bytes[i][a.offset : a.offset+a.length]
}

// GetFloat returns the windowed backing array for the named float
// attribute.
func (a Arrays) GetFloat(name string) []float32 {
	i := a.core.info.IndexOfFloat(name)
	if i < 0 {
		panic("attrs: unknown float attribute " + name)
	}
	return a.core.floats[i][a.offset : a.offset+a.length]
}

// GetFloat3 returns the windowed backing array for the named float3
// attribute.
func (a Arrays) GetFloat3(name string) []mgl32.Vec3 {
	i := a.core.info.IndexOfFloat3(name)
	if i < 0 {
		panic("attrs: unknown float3 attribute " + name)
	}
	return a.core.float3s[i][a.offset : a.offset+a.length]
}

// GetByteByIndex, GetFloatByIndex and GetFloat3ByIndex are the
// index-addressed equivalents of GetByte/GetFloat/GetFloat3, used by the
// event pipeline when it iterates attributes by position rather than by
// name.
func (a Arrays) GetByteByIndex(i int) []byte {
	return a.core.bytes[i][a.offset : a.offset+a.length]
}

func (a Arrays) GetFloatByIndex(i int) []float32 {
	return a.core.floats[i][a.offset : a.offset+a.length]
}

func (a Arrays) GetFloat3ByIndex(i int) []mgl32.Vec3 {
	return a.core.float3s[i][a.offset : a.offset+a.length]
}

// Move copies row old over row new across every attribute array, both
// indices relative to this view's window.
func (a Arrays) Move(oldIndex, newIndex int) {
	a.core.Move(a.offset+oldIndex, a.offset+newIndex)
}

// Retype rebuilds core to match newInfo, preserving data for attributes
// present in both the old and new descriptor sets and zero-filling
// attributes newly added. Attributes dropped from newInfo are discarded.
func Retype(core ArraysCore, newInfo Info) ArraysCore {
	next := NewArraysCore(newInfo, core.capacity)
	for _, name := range newInfo.ByteAttributes() {
		if core.info.HasByte(name) {
			copy(next.GetByteColumn(name), core.GetByteColumn(name))
		}
	}
	for _, name := range newInfo.FloatAttributes() {
		if core.info.HasFloat(name) {
			copy(next.GetFloatColumn(name), core.GetFloatColumn(name))
		}
	}
	for _, name := range newInfo.Float3Attributes() {
		if core.info.HasFloat3(name) {
			copy(next.GetFloat3Column(name), core.GetFloat3Column(name))
		}
	}
	return next
}

// GetByteColumn, GetFloatColumn and GetFloat3Column return the entire
// backing array (all `capacity` rows) for the named attribute.
func (c ArraysCore) GetByteColumn(name string) []byte {
	i := c.info.IndexOfByte(name)
	if i < 0 {
		panic("attrs: unknown byte attribute " + name)
	}
	return c.bytes[i]
}

func (c ArraysCore) GetFloatColumn(name string) []float32 {
	i := c.info.IndexOfFloat(name)
	if i < 0 {
		panic("attrs: unknown float attribute " + name)
	}
	return c.floats[i]
}

func (c ArraysCore) GetFloat3Column(name string) []mgl32.Vec3 {
	i := c.info.IndexOfFloat3(name)
	if i < 0 {
		panic("attrs: unknown float3 attribute " + name)
	}
	return c.float3s[i]
}
