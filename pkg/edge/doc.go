// Package edge is the worker-side runtime: it adapts incoming HTTP
// requests into render contexts, carries response overrides decided
// during rendering back onto the wire, and mounts page routes plus
// static asset routes onto a chi router.
//
// Rendering happens before the response status is known, so handlers
// accumulate status and header decisions on a ResponseOptions and
// apply them when the first byte is written. Streaming modes commit
// the shell early; once it has flushed, later overrides are lost.
package edge
