package rpc

import "context"

// Handler processes one Request and produces a Response. Endpoint
// handlers are registered against a Router, not a raw Transport.
type Handler func(ctx context.Context, req Request) Response

// Transport is the synchronous request/response boundary between a
// Data Scientist's client and a Data Owner's server. Send blocks until
// a matching Response arrives or ctx is cancelled.
type Transport interface {
	// Send delivers req to the endpoint's owner and blocks for the
	// correlated Response.
	Send(ctx context.Context, req Request) (Response, error)

	// Serve starts dispatching inbound requests to router until ctx is
	// cancelled. Serve blocks; callers typically run it in a goroutine.
	Serve(ctx context.Context, router *Router) error
}
