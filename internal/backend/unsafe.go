package backend

import "unsafe"

// memmove copies n bytes from "from" to "to".
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname memmove runtime.memmove
func memmove(to, from unsafe.Pointer, n uintptr)

// UnsafeRawCopy copies raw memory with no bounds checks.
//
// Contract: both src and dst must hold at least length elements
// (length * ElementSize bytes). Anything else is undefined behavior: the
// backend exists to measure the cost that safety checks add, so it does
// not pay for them.
type UnsafeRawCopy struct{}

// Name returns "unsafe".
func (UnsafeRawCopy) Name() string { return "unsafe" }

// Copy moves length*ElementSize bytes from src to dst. A non-positive
// length is a no-op.
func (UnsafeRawCopy) Copy(src, dst []Element, length int) error {
	if length <= 0 {
		return nil
	}
	rawCopy(src, dst, 0, length)
	return nil
}

// rawCopy moves elements [start, end) without checks.
func rawCopy(src, dst []Element, start, end int) {
	from := unsafe.Add(unsafe.Pointer(unsafe.SliceData(src)), start*ElementSize)
	to := unsafe.Add(unsafe.Pointer(unsafe.SliceData(dst)), start*ElementSize)
	memmove(to, from, uintptr((end-start)*ElementSize))
}
