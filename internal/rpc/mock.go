package rpc

import (
	"context"
	"fmt"
)

// MockTransport dispatches in-process, bypassing the filesystem
// entirely. Used for tests and for a Data Scientist co-located with
// the Data Owner in one process ("mock server mode").
type MockTransport struct {
	router *Router
}

// NewMockTransport binds a MockTransport to router. Requests sent
// through it are dispatched synchronously against router, with no
// serialization round-trip.
func NewMockTransport(router *Router) *MockTransport {
	return &MockTransport{router: router}
}

var _ Transport = (*MockTransport)(nil)

// Send dispatches req directly against the bound router.
func (m *MockTransport) Send(ctx context.Context, req Request) (Response, error) {
	if m.router == nil {
		return Response{}, fmt.Errorf("rpc: mock transport has no router bound")
	}
	return m.router.Dispatch(ctx, req), nil
}

// Serve is a no-op for MockTransport: dispatch already happens inline
// in Send against the bound router. It blocks until ctx is cancelled
// so callers can treat it uniformly with FSTransport.Serve.
func (m *MockTransport) Serve(ctx context.Context, router *Router) error {
	m.router = router
	<-ctx.Done()
	return ctx.Err()
}
