package output

import (
	"context"

	"rds/internal/entity"
)

// Handler receives lifecycle notifications for one job run. A runner
// calls these on every registered handler; a handler that only cares
// about a subset of the lifecycle can no-op the rest.
type Handler interface {
	// OnJobStart fires once, right before the interpreter or container
	// is launched.
	OnJobStart(ctx context.Context, job entity.Job) error

	// OnJobProgress fires for every stdout/stderr line produced while
	// the job runs. Either line may be empty if only one stream
	// produced output on a given read.
	OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error

	// OnJobCompletion fires once, after the process has exited, with
	// its raw return code (before the ERROR/CRITICAL demotion rule a
	// runner applies on top of it).
	OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error
}

// HandlerChain fans a single notification out to every registered
// Handler, continuing past individual handler errors so that, e.g., a
// Redis outage never blocks a file write.
type HandlerChain struct {
	handlers []Handler
}

// NewHandlerChain builds a chain over the given handlers, in the order
// they should be notified.
func NewHandlerChain(handlers ...Handler) *HandlerChain {
	return &HandlerChain{handlers: handlers}
}

// Add appends a handler to the chain.
func (c *HandlerChain) Add(h Handler) {
	c.handlers = append(c.handlers, h)
}

func (c *HandlerChain) OnJobStart(ctx context.Context, job entity.Job) error {
	var firstErr error
	for _, h := range c.handlers {
		if err := h.OnJobStart(ctx, job); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *HandlerChain) OnJobProgress(ctx context.Context, job entity.Job, stdoutLine, stderrLine string) error {
	var firstErr error
	for _, h := range c.handlers {
		if err := h.OnJobProgress(ctx, job, stdoutLine, stderrLine); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *HandlerChain) OnJobCompletion(ctx context.Context, job entity.Job, returnCode int) error {
	var firstErr error
	for _, h := range c.handlers {
		if err := h.OnJobCompletion(ctx, job, returnCode); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
