package cancel

import "context"

// ContextCanceler follows a context.Context, typically one wired to
// SIGINT/SIGTERM, so an interrupted run still reports what it measured.
//
// Done is a non-blocking select on ctx.Done().
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewContext derives a cancellable context from parent.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancelCause(parent)
	return &ContextCanceler{ctx: ctx, cancel: cancel}
}

func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel cancels with ErrStopped as the cause.
func (c *ContextCanceler) Cancel() {
	c.cancel(ErrStopped)
}

// Cause returns the cancellation cause: ErrStopped after Cancel, or the
// parent's cause (context.Canceled for a signal) when it ended first.
func (c *ContextCanceler) Cause() error {
	if !c.Done() {
		return nil
	}
	return context.Cause(c.ctx)
}

// Context returns the underlying context.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
