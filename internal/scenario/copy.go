package scenario

import (
	"fmt"

	"github.com/randomizedcoder/copybench/internal/backend"
)

// Copy times a backend copying length elements between two buffers that
// SetUp allocates and CleanUp releases.
//
// The source holds a non-trivial pattern and the destination starts
// filled with a sentinel, so Verify fails for a backend that skips
// elements.
type Copy struct {
	// Label is the scenario name.
	Label string

	// BufferLength overrides the allocated buffer size. Zero allocates
	// exactly length elements; a smaller value makes checked backends fail
	// with a bounds error.
	BufferLength int
}

// NewCopy creates a Copy scenario with exact-size buffers.
func NewCopy(name string) *Copy {
	return &Copy{Label: name}
}

// Name returns the scenario label.
func (c *Copy) Name() string { return c.Label }

// SetUp allocates the source and destination buffers.
func (c *Copy) SetUp(b backend.Backend, length int) (Instance, error) {
	if length < 0 {
		return nil, fmt.Errorf("negative length %d", length)
	}
	size := length
	if c.BufferLength > 0 {
		size = c.BufferLength
	}

	src := make([]backend.Element, size)
	dst := make([]backend.Element, size)
	for i := range src {
		src[i] = backend.Element(i) ^ 0x5DEECE66D
		dst[i] = -1
	}
	return &copyInstance{backend: b, src: src, dst: dst, length: length}, nil
}

type copyInstance struct {
	backend  backend.Backend
	src, dst []backend.Element
	length   int
}

func (c *copyInstance) Execute() error {
	return c.backend.Copy(c.src, c.dst, c.length)
}

func (c *copyInstance) Verify() error {
	return backend.Verify(c.src, c.dst, c.length)
}

func (c *copyInstance) CleanUp() error {
	c.src, c.dst = nil, nil
	return nil
}
