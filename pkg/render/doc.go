// Package render turns vdom trees into HTML on the server.
//
// The Renderer handles a single tree; PageData and RenderPage produce
// a complete document including the hydration bootstrap for the client
// WASM bundle. StreamRenderer adds the four SSR modes: out-of-order,
// in-order, async, and partially blocked. Suspense marks a subtree
// whose content is loaded asynchronously while a fallback is shown.
package render
