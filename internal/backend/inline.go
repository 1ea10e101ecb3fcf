package backend

import (
	"reflect"
	"slices"
)

// SequentialLoop assigns element by element. Always correct, O(n), and
// the reference every other backend is compared against.
type SequentialLoop struct{}

// Name returns "loop".
func (SequentialLoop) Name() string { return "loop" }

// Copy assigns dst[i] = src[i] for i < length.
func (SequentialLoop) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		dst[i] = src[i]
	}
	return nil
}

// BulkCopy delegates to the built-in copy (a memmove after one bounds
// check).
type BulkCopy struct{}

// Name returns "bulk".
func (BulkCopy) Name() string { return "bulk" }

// Copy copies src[:length] into dst.
func (BulkCopy) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	copy(dst[:length], src[:length])
	return nil
}

// CollectCopy materializes src through an iterator into a new slice and
// copies that into dst. It allocates length elements per call.
type CollectCopy struct{}

// Name returns "collect".
func (CollectCopy) Name() string { return "collect" }

// Copy collects src[:length] and copies the result into dst.
func (CollectCopy) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	tmp := slices.Collect(slices.Values(src[:length]))
	copy(dst, tmp)
	return nil
}

// ReflectCopy copies through reflect.Copy, the untyped block copy.
type ReflectCopy struct{}

// Name returns "reflect".
func (ReflectCopy) Name() string { return "reflect" }

// Copy copies src[:length] into dst via reflection.
func (ReflectCopy) Copy(src, dst []Element, length int) error {
	if err := checkBounds(src, dst, length); err != nil {
		return err
	}
	reflect.Copy(reflect.ValueOf(dst[:length]), reflect.ValueOf(src[:length]))
	return nil
}
