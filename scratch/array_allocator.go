// Package scratch implements the per-worker scratch memory pool described
// in spec.md §4.2: block-sized buffers handed out by scoped acquisition so
// the event loop never allocates on the hot per-particle path.
package scratch

import "sync"

// ArrayAllocator is a thread-local pool of raw buffers, each sized to a
// block's capacity. It is not safe for concurrent use by multiple
// goroutines; the step driver creates one per worker (see step.go).
//
// Grounded on voxelrt's manager_brickpool.go pre-sized pooled buffers and
// particles_ecs.go's sync.Pool-backed scratch reuse.
type ArrayAllocator struct {
	capacity int

	bytePool  sync.Pool
	uintPool  sync.Pool
	floatPool sync.Pool
}

// NewArrayAllocator returns an allocator whose scoped buffers hold up to
// `capacity` elements.
func NewArrayAllocator(capacity int) *ArrayAllocator {
	a := &ArrayAllocator{capacity: capacity}
	a.bytePool.New = func() any {
		b := make([]byte, capacity)
		return &b
	}
	a.uintPool.New = func() any {
		b := make([]uint32, capacity)
		return &b
	}
	a.floatPool.New = func() any {
		b := make([]float32, capacity)
		return &b
	}
	return a
}

// Capacity returns the element capacity of buffers this allocator hands
// out.
func (a *ArrayAllocator) Capacity() int { return a.capacity }

// ByteHandle is a scoped byte buffer. Release returns it to the pool; the
// buffer must not be used after Release.
type ByteHandle struct {
	Bytes []byte
	pool  *sync.Pool
	ptr   *[]byte
}

// Release returns the buffer to the allocator's pool.
func (h ByteHandle) Release() {
	*h.ptr = (*h.ptr)[:cap(*h.ptr)]
	h.pool.Put(h.ptr)
}

// AllocateBytes returns a scoped buffer of n bytes (n <= Capacity() *
// maxElemSize, enforced by the caller's sizing). The slice is zeroed
// before use.
func (a *ArrayAllocator) AllocateBytes(n int) ByteHandle {
	ptr := a.bytePool.Get().(*[]byte)
	buf := *ptr
	if cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
		clear(buf)
	}
	*ptr = buf
	return ByteHandle{Bytes: buf, pool: &a.bytePool, ptr: ptr}
}

// UintHandle is a scoped []uint32 buffer used for index lists.
type UintHandle struct {
	Values []uint32
	pool   *sync.Pool
	ptr    *[]uint32
}

func (h UintHandle) Release() {
	*h.ptr = (*h.ptr)[:cap(*h.ptr)]
	h.pool.Put(h.ptr)
}

// AllocateUint returns a scoped []uint32 of length n, zeroed.
func (a *ArrayAllocator) AllocateUint(n int) UintHandle {
	ptr := a.uintPool.Get().(*[]uint32)
	buf := *ptr
	if cap(buf) < n {
		buf = make([]uint32, n)
	} else {
		buf = buf[:n]
		clear(buf)
	}
	*ptr = buf
	return UintHandle{Values: buf, pool: &a.uintPool, ptr: ptr}
}

// FloatHandle is a scoped []float32 buffer used for time factors and
// remaining durations bookkeeping.
type FloatHandle struct {
	Values []float32
	pool   *sync.Pool
	ptr    *[]float32
}

func (h FloatHandle) Release() {
	*h.ptr = (*h.ptr)[:cap(*h.ptr)]
	h.pool.Put(h.ptr)
}

// AllocateFloat returns a scoped []float32 of length n, zeroed.
func (a *ArrayAllocator) AllocateFloat(n int) FloatHandle {
	ptr := a.floatPool.Get().(*[]float32)
	buf := *ptr
	if cap(buf) < n {
		buf = make([]float32, n)
	} else {
		buf = buf[:n]
		clear(buf)
	}
	*ptr = buf
	return FloatHandle{Values: buf, pool: &a.floatPool, ptr: ptr}
}
