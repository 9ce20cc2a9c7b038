package render

import (
	"context"
	"sync"

	"github.com/veldt-dev/veldt/pkg/vdom"
)

// boundaryProp is the VNode prop carrying the *Boundary for a suspense
// wrapper element. It is internal (leading underscore props are never
// rendered as attributes).
const boundaryProp = "_suspense"

// Loader produces the deferred content of a suspense boundary.
type Loader func(ctx context.Context) (*vdom.VNode, error)

// Boundary is an async region of the page. While its Loader runs, the
// Fallback is rendered in place; how the resolved content reaches the
// browser depends on the SSR mode.
type Boundary struct {
	Fallback *vdom.VNode
	Load     Loader

	// Blocking boundaries are resolved before the shell is flushed in
	// ModePartiallyBlocked.
	Blocking bool

	id string

	mu       sync.Mutex
	resolved bool
	content  *vdom.VNode
	err      error
}

// SuspenseOption configures a suspense boundary.
type SuspenseOption func(*Boundary)

// Block marks the boundary as blocking: in ModePartiallyBlocked its
// content is rendered into the shell instead of being streamed later.
func Block() SuspenseOption {
	return func(b *Boundary) { b.Blocking = true }
}

// Suspense wraps asynchronously loaded content. The returned node
// renders as a div carrying a boundary marker; the renderer fills in
// either the fallback or the loaded content depending on mode.
func Suspense(fallback *vdom.VNode, load Loader, opts ...SuspenseOption) *vdom.VNode {
	b := &Boundary{
		Fallback: fallback,
		Load:     load,
	}
	for _, opt := range opts {
		opt(b)
	}
	return &vdom.VNode{
		Kind:  vdom.KindElement,
		Tag:   "div",
		Props: vdom.Props{boundaryProp: b},
	}
}

// resolve runs the loader once and caches the result.
func (b *Boundary) resolve(ctx context.Context) (*vdom.VNode, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resolved {
		return b.content, b.err
	}
	b.content, b.err = b.Load(ctx)
	b.resolved = true
	return b.content, b.err
}

// isResolved reports whether the loader has completed.
func (b *Boundary) isResolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolved
}

// boundaryOf extracts the suspense boundary from a node, if any.
func boundaryOf(node *vdom.VNode) *Boundary {
	if node == nil || node.Props == nil {
		return nil
	}
	b, _ := node.Props[boundaryProp].(*Boundary)
	return b
}

// collectBoundaries walks the tree depth-first and returns every
// suspense boundary, expanding components along the way. Component
// output is memoized on the node so the later render pass sees the
// same expansion.
func collectBoundaries(node *vdom.VNode, out []*Boundary) []*Boundary {
	if node == nil {
		return out
	}
	if b := boundaryOf(node); b != nil {
		out = append(out, b)
		// The boundary's subtree is produced by its loader; the
		// fallback cannot contain further boundaries.
		return out
	}
	if node.Kind == vdom.KindComponent && node.Comp != nil {
		if node.Expanded == nil {
			node.Expanded = node.Comp.Render()
		}
		return collectBoundaries(node.Expanded, out)
	}
	for _, child := range node.Children {
		out = collectBoundaries(child, out)
	}
	return out
}
