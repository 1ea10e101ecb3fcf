// Package scenario defines the unit of work the harness times.
//
// A Scenario prepares an Instance for one measurement. The Instance's
// Execute is the only timed call; SetUp, Verify and CleanUp run outside
// the timer, and CleanUp runs on every exit path.
package scenario

import (
	"errors"
	"fmt"

	"github.com/randomizedcoder/copybench/internal/backend"
)

var (
	// ErrSetupFailed matches errors from a failing SetUp.
	ErrSetupFailed = errors.New("scenario: setup failed")

	// ErrExecutionFailed matches errors from a failing Execute or Verify.
	ErrExecutionFailed = errors.New("scenario: execution failed")

	// ErrResourceCleanupFailed matches errors from a failing CleanUp.
	ErrResourceCleanupFailed = errors.New("scenario: resource cleanup failed")
)

// Scenario is a named, parameterized unit of work.
type Scenario interface {
	// Name identifies the scenario in reports.
	Name() string

	// SetUp acquires the resources for one measurement.
	SetUp(b backend.Backend, length int) (Instance, error)
}

// Instance is the per-measurement state returned by SetUp.
type Instance interface {
	// Execute performs one timed iteration.
	Execute() error

	// CleanUp releases everything SetUp acquired.
	CleanUp() error
}

// Verifier is implemented by Instances that can check their result
// after the timed iterations.
type Verifier interface {
	Verify() error
}

// SetupError wraps a SetUp failure.
type SetupError struct {
	Backend string
	Cause   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed on %s: %v", e.Backend, e.Cause)
}

func (e *SetupError) Unwrap() error { return e.Cause }

func (e *SetupError) Is(target error) bool { return target == ErrSetupFailed }

// ExecutionError wraps an Execute or Verify failure.
type ExecutionError struct {
	Backend string
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed on %s: %v", e.Backend, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

func (e *ExecutionError) Is(target error) bool { return target == ErrExecutionFailed }

// CleanupError wraps a CleanUp failure.
type CleanupError struct {
	Backend string
	Cause   error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("resource cleanup failed on %s: %v", e.Backend, e.Cause)
}

func (e *CleanupError) Unwrap() error { return e.Cause }

func (e *CleanupError) Is(target error) bool { return target == ErrResourceCleanupFailed }

// Hooks builds an Instance from closures. Nil hooks are no-ops.
type Hooks struct {
	OnExecute func() error
	OnVerify  func() error
	OnCleanUp func() error
}

// Execute calls OnExecute.
func (h Hooks) Execute() error {
	if h.OnExecute == nil {
		return nil
	}
	return h.OnExecute()
}

// Verify calls OnVerify.
func (h Hooks) Verify() error {
	if h.OnVerify == nil {
		return nil
	}
	return h.OnVerify()
}

// CleanUp calls OnCleanUp.
func (h Hooks) CleanUp() error {
	if h.OnCleanUp == nil {
		return nil
	}
	return h.OnCleanUp()
}

type funcScenario struct {
	name  string
	setUp func(b backend.Backend, length int) (Instance, error)
}

func (f funcScenario) Name() string { return f.name }

func (f funcScenario) SetUp(b backend.Backend, length int) (Instance, error) {
	return f.setUp(b, length)
}

// New creates a Scenario from a SetUp function.
func New(name string, setUp func(b backend.Backend, length int) (Instance, error)) Scenario {
	return funcScenario{name: name, setUp: setUp}
}

// Func creates a Scenario that only executes fn, with no resources.
func Func(name string, fn func() error) Scenario {
	return New(name, func(backend.Backend, int) (Instance, error) {
		return Hooks{OnExecute: fn}, nil
	})
}
