// Package host models the object-lifecycle system the lifecycle scenarios
// time.
//
// The harness treats Create, Destroy and Instantiate as opaque timed
// operations. Registry is an in-memory Host so those scenarios can run
// without an embedding application.
package host

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrUnknownHandle is returned for a handle that is not live.
	ErrUnknownHandle = errors.New("host: unknown handle")

	// ErrEmptyKind is returned by Create for an empty kind.
	ErrEmptyKind = errors.New("host: empty kind")
)

// Kind names a type of host object.
type Kind string

// Handle identifies a live host object. The zero Handle is never issued.
type Handle uint64

// Host creates and destroys objects.
//
// Implementations must be safe for concurrent use.
type Host interface {
	Create(kind Kind) (Handle, error)
	Destroy(h Handle) error
	Instantiate(h Handle) (Handle, error)
}

type object struct {
	kind    Kind
	payload []byte
}

// Registry is an in-memory Host.
//
// Every object carries a payload of PayloadSize bytes so creation and
// instantiation pay for an allocation the way a real object would.
type Registry struct {
	payloadSize int
	next        atomic.Uint64

	mu      sync.RWMutex
	objects map[Handle]*object
}

// DefaultPayloadSize is the payload of a Registry object.
const DefaultPayloadSize = 64

// NewRegistry creates an empty Registry. A non-positive payloadSize uses
// DefaultPayloadSize.
func NewRegistry(payloadSize int) *Registry {
	if payloadSize <= 0 {
		payloadSize = DefaultPayloadSize
	}
	return &Registry{
		payloadSize: payloadSize,
		objects:     make(map[Handle]*object),
	}
}

// Create allocates a new object of kind.
func (r *Registry) Create(kind Kind) (Handle, error) {
	if kind == "" {
		return 0, ErrEmptyKind
	}
	return r.insert(&object{kind: kind, payload: make([]byte, r.payloadSize)}), nil
}

// Destroy releases the object behind h.
func (r *Registry) Destroy(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.objects[h]; !ok {
		return fmt.Errorf("%w: destroy %d", ErrUnknownHandle, h)
	}
	delete(r.objects, h)
	return nil
}

// Instantiate clones the object behind h into a new object.
func (r *Registry) Instantiate(h Handle) (Handle, error) {
	r.mu.RLock()
	proto, ok := r.objects[h]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: instantiate %d", ErrUnknownHandle, h)
	}

	clone := &object{kind: proto.kind, payload: make([]byte, len(proto.payload))}
	copy(clone.payload, proto.payload)
	return r.insert(clone), nil
}

// Kind returns the kind of the object behind h.
func (r *Registry) Kind(h Handle) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.objects[h]
	if !ok {
		return "", false
	}
	return o.kind, true
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

func (r *Registry) insert(o *object) Handle {
	h := Handle(r.next.Add(1))
	r.mu.Lock()
	r.objects[h] = o
	r.mu.Unlock()
	return h
}
