// Package serverfn implements server functions: typed functions that
// live on the worker and are callable from hydrated clients over
// HTTP. Each function registers under a name and an encoding; the
// handler dispatches on the last path segment of the request URL,
// decodes the argument per the encoding, runs the function, and
// encodes the result.
//
// Plain HTML form posts are supported without any client script: when
// the request does not accept application/json, wasm, or websocket
// responses, the handler answers with a redirect back to the Referer
// so the browser reloads the page the form came from.
package serverfn
