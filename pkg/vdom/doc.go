// Package vdom defines the virtual DOM used by Veldt components.
//
// Components build *VNode trees with the element constructors (Div,
// Span, Button, ...) and attribute helpers (Class, ID, OnClick, ...).
// The same tree is rendered to HTML on the server by pkg/render and
// mounted in the browser by the WASM client during hydration.
package vdom
