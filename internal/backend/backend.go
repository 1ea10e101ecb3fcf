// Package backend provides the copy strategies the harness compares.
//
// Every Backend implements the same operation, copy the first length
// elements of src into dst, through a different execution mechanism:
//   - SequentialLoop: element-by-element assignment (baseline)
//   - BulkCopy: the built-in copy
//   - UnsafeRawCopy: runtime.memmove on raw pointers, no bounds checks
//   - SingleThreadedJob: the loop as a deferred job on one worker
//   - ParallelShardedJob: contiguous shards spread over a worker pool
//   - ParallelGoroutines: one goroutine per shard via errgroup
//   - CollectCopy: iterator collect into a fresh slice, then copy
//   - ReflectCopy: untyped reflect.Copy
//
// All of them guarantee dst[i] == src[i] for i < length on success.
// Verify checks that postcondition independently of timing.
package backend

import (
	"errors"
	"fmt"
	"unsafe"
)

// Element is the type copied by every backend.
type Element = int64

// ElementSize is the size of one Element in bytes.
const ElementSize = int(unsafe.Sizeof(Element(0)))

// ErrNoCopy is returned by None.Copy.
var ErrNoCopy = errors.New("backend: none does not copy")

// Backend copies length elements from src to dst.
//
// Implementations are stateless between calls. Job backends hold a
// reference to long-lived worker infrastructure owned by the caller.
type Backend interface {
	// Name identifies the backend in reports and configuration.
	Name() string

	// Copy performs the copy. Checked backends return a *BoundsError when
	// length does not fit either slice.
	Copy(src, dst []Element, length int) error
}

// BoundsError reports a copy length that exceeds a buffer.
type BoundsError struct {
	Length int
	Src    int
	Dst    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("backend: length %d out of bounds (src=%d dst=%d)", e.Length, e.Src, e.Dst)
}

func checkBounds(src, dst []Element, length int) error {
	if length < 0 || length > len(src) || length > len(dst) {
		return &BoundsError{Length: length, Src: len(src), Dst: len(dst)}
	}
	return nil
}

// MismatchError reports the first index where dst differs from src.
type MismatchError struct {
	Index int
	Want  Element
	Got   Element
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("backend: dst[%d] = %d, want %d", e.Index, e.Got, e.Want)
}

// Verify checks dst[i] == src[i] for every i < length.
func Verify(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		if dst[i] != src[i] {
			return &MismatchError{Index: i, Want: src[i], Got: dst[i]}
		}
	}
	return nil
}

// None is the backend for scenarios that do not copy, such as host
// lifecycle timings and baselines.
type None struct{}

// Name returns "none".
func (None) Name() string { return "none" }

// Copy always fails with ErrNoCopy.
func (None) Copy([]Element, []Element, int) error { return ErrNoCopy }
