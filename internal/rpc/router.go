package rpc

import (
	"context"
	"fmt"
)

// Router dispatches a Request to the Handler registered for its
// Endpoint. Endpoints are namespaced by kind, e.g.
// rds/<kind>/create|get_one|get_all|update|delete, plus rds/health.
type Router struct {
	handlers map[Endpoint]Handler
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{handlers: map[Endpoint]Handler{}}
}

// Handle registers h for endpoint, overwriting any previous handler.
func (r *Router) Handle(endpoint Endpoint, h Handler) {
	r.handlers[endpoint] = h
}

// Dispatch looks up req.Endpoint and invokes its handler, or returns a
// 404 Response if no handler is registered.
func (r *Router) Dispatch(ctx context.Context, req Request) Response {
	h, ok := r.handlers[req.Endpoint]
	if !ok {
		return Response{
			RequestID: req.ID,
			Status:    StatusNotFound,
			Error:     fmt.Sprintf("no handler registered for endpoint %q", req.Endpoint),
		}
	}
	return h(ctx, req)
}
