package host

import (
	"errors"
	"fmt"

	"github.com/randomizedcoder/copybench/internal/backend"
	"github.com/randomizedcoder/copybench/internal/scenario"
)

// ErrExhausted is returned by the destroy scenario when an iteration has
// no pre-created object left.
var ErrExhausted = errors.New("host: no objects left to destroy")

// The lifecycle scenarios ignore the backend. Everything created during a
// measurement is destroyed in CleanUp, so a live-object leak shows up as a
// cleanup failure.

// NewScenario times Create. Created objects are destroyed in CleanUp.
func NewScenario(h Host, kind Kind) scenario.Scenario {
	return scenario.New("host/new", func(backend.Backend, int) (scenario.Instance, error) {
		var created []Handle
		return scenario.Hooks{
			OnExecute: func() error {
				id, err := h.Create(kind)
				if err != nil {
					return err
				}
				created = append(created, id)
				return nil
			},
			OnCleanUp: func() error { return destroyAll(h, created) },
		}, nil
	})
}

// DestroyScenario times Destroy. SetUp creates length objects, so length
// must be at least the iteration count.
func DestroyScenario(h Host, kind Kind) scenario.Scenario {
	return scenario.New("host/destroy", func(_ backend.Backend, length int) (scenario.Instance, error) {
		pending := make([]Handle, 0, length)
		for i := 0; i < length; i++ {
			id, err := h.Create(kind)
			if err != nil {
				return nil, errors.Join(err, destroyAll(h, pending))
			}
			pending = append(pending, id)
		}

		return scenario.Hooks{
			OnExecute: func() error {
				if len(pending) == 0 {
					return ErrExhausted
				}
				id := pending[len(pending)-1]
				pending = pending[:len(pending)-1]
				return h.Destroy(id)
			},
			OnCleanUp: func() error { return destroyAll(h, pending) },
		}, nil
	})
}

// NewDestroyScenario times a Create immediately followed by Destroy.
func NewDestroyScenario(h Host, kind Kind) scenario.Scenario {
	return scenario.New("host/new-destroy", func(backend.Backend, int) (scenario.Instance, error) {
		return scenario.Hooks{
			OnExecute: func() error {
				id, err := h.Create(kind)
				if err != nil {
					return err
				}
				return h.Destroy(id)
			},
		}, nil
	})
}

// InstantiateScenario times Instantiate from a prototype created in SetUp.
func InstantiateScenario(h Host, kind Kind) scenario.Scenario {
	return scenario.New("host/instantiate", func(backend.Backend, int) (scenario.Instance, error) {
		proto, err := h.Create(kind)
		if err != nil {
			return nil, err
		}

		var clones []Handle
		return scenario.Hooks{
			OnExecute: func() error {
				id, err := h.Instantiate(proto)
				if err != nil {
					return err
				}
				clones = append(clones, id)
				return nil
			},
			OnCleanUp: func() error {
				return errors.Join(destroyAll(h, clones), h.Destroy(proto))
			},
		}, nil
	})
}

// destroyAll destroys every handle, reporting how many failed.
func destroyAll(h Host, ids []Handle) error {
	var errs []error
	for _, id := range ids {
		if err := h.Destroy(id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d objects not destroyed: %w", len(errs), len(ids), errors.Join(errs...))
	}
	return nil
}
