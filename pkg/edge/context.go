package edge

import (
	"context"

	"github.com/veldt-dev/veldt/pkg/assets"
)

type contextKey int

const requestContextKey contextKey = 0

// RequestContext carries everything a component or server function
// needs from the current request: the buffered request parts, the
// response overrides, and the asset resolver for the environment the
// worker runs in.
type RequestContext struct {
	Request  *RequestParts
	Response *ResponseOptions
	Resolver assets.Resolver

	ctx context.Context
}

// NewRequestContext creates a RequestContext wrapping ctx.
func NewRequestContext(ctx context.Context, req *RequestParts, resolver assets.Resolver) *RequestContext {
	rc := &RequestContext{
		Request:  req,
		Response: NewResponseOptions(),
		Resolver: resolver,
	}
	rc.ctx = context.WithValue(ctx, requestContextKey, rc)
	return rc
}

// Context returns the underlying context. Loaders and server
// functions receive this and can recover the RequestContext with
// FromContext.
func (rc *RequestContext) Context() context.Context {
	return rc.ctx
}

// FromContext extracts the RequestContext stored in ctx, or nil when
// ctx did not originate from a request handler.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey).(*RequestContext)
	return rc
}
