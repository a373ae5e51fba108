// Package align provides the one piece of unsafe-pointer arithmetic this
// module needs: allocating a []mgl32.Vec3 whose backing array starts on a
// 16-byte boundary, so the event loop's vectorized add can assume
// alignment instead of checking it on every call.
package align

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	boundary = 16
	elemSize = unsafe.Sizeof(mgl32.Vec3{})
)

// Vec3Slice allocates a []mgl32.Vec3 of length n backed by a byte buffer
// over-allocated just enough to guarantee a 16-byte aligned starting
// address, found by pointer arithmetic over the raw buffer.
func Vec3Slice(n int) []mgl32.Vec3 {
	if n <= 0 {
		return []mgl32.Vec3{}
	}
	raw := make([]byte, uintptr(n)*elemSize+boundary)
	base := uintptr(unsafe.Pointer(&raw[0]))
	offset := (boundary - base%boundary) % boundary
	start := unsafe.Pointer(&raw[offset])
	return unsafe.Slice((*mgl32.Vec3)(start), n)
}

// IsAligned reports whether the first element of vs starts on a 16-byte
// boundary. An empty slice is trivially aligned.
func IsAligned(vs []mgl32.Vec3) bool {
	if len(vs) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&vs[0]))%boundary == 0
}
