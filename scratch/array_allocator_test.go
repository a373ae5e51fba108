package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArrayAllocatorZeroesOnReacquire(t *testing.T) {
	a := NewArrayAllocator(8)

	h1 := a.AllocateUint(4)
	for i := range h1.Values {
		h1.Values[i] = uint32(i + 1)
	}
	h1.Release()

	h2 := a.AllocateUint(4)
	defer h2.Release()

	assert.Equal(t, []uint32{0, 0, 0, 0}, h2.Values)
}

func TestArrayAllocatorBytesSizedToRequest(t *testing.T) {
	a := NewArrayAllocator(4)

	h := a.AllocateBytes(4)
	defer h.Release()

	assert.Len(t, h.Bytes, 4)
}
