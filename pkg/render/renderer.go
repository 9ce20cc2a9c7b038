package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/veldt-dev/veldt/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// ResolveBoundaries makes the renderer run suspense loaders inline
	// (blocking) instead of rendering fallbacks. Used by the in-order
	// and async streaming paths.
	ResolveBoundaries bool
}

// Renderer handles server-side rendering of VNode trees to HTML.
type Renderer struct {
	config     RendererConfig
	ctx        context.Context
	hidCounter uint32
	susCounter uint32
	handlers   map[string]any

	// onBoundary, when set, is called after each suspense boundary is
	// written. The streaming renderer uses it to flush.
	onBoundary func()
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{
		config:   config,
		ctx:      context.Background(),
		handlers: make(map[string]any),
	}
}

// WithContext sets the context passed to suspense loaders.
func (r *Renderer) WithContext(ctx context.Context) *Renderer {
	r.ctx = ctx
	return r
}

// RenderToString renders a VNode tree to a complete HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// Handlers returns the handler registry collected during rendering.
// The map keys are in the format "hid_eventname" (e.g., "h1_onclick").
// The WASM client uses the same assignment order to reattach handlers.
func (r *Renderer) Handlers() map[string]any {
	return r.handlers
}

// Reset resets the renderer state for reuse.
// This clears the HID counter and handler registry.
func (r *Renderer) Reset() {
	r.hidCounter = 0
	r.susCounter = 0
	r.handlers = make(map[string]any)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderFragment(w, node, depth)
	case vdom.KindComponent:
		return r.renderComponent(w, node, depth)
	case vdom.KindRaw:
		return r.renderRaw(w, node)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	if b := boundaryOf(node); b != nil {
		return r.renderBoundary(w, node, b, depth)
	}

	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	// Opening tag
	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	// Interactive elements carry a hydration ID so the client bundle
	// can reattach their handlers after mounting.
	if node.IsInteractive() {
		hid := r.nextHID()
		node.HID = hid
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, hid); err != nil {
			return err
		}
		r.registerHandlers(hid, node)
	}

	// Self-closing check for void elements
	if vdom.IsVoidElement(tag) {
		if _, err := w.Write([]byte{'>'}); err != nil {
			return err
		}
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if rawHTML, ok := node.Props["dangerouslySetInnerHTML"].(string); ok {
		if _, err := w.Write([]byte(rawHTML)); err != nil {
			return err
		}
	} else {
		hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}

		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	// Closing tag
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}

	return nil
}

// renderBoundary renders a suspense wrapper. Resolved boundaries (and
// boundaries in resolve-inline mode) render their loaded content;
// otherwise the fallback is rendered with a pending marker so a later
// streamed fragment can replace it.
func (r *Renderer) renderBoundary(w io.Writer, node *vdom.VNode, b *Boundary, depth int) error {
	if r.onBoundary != nil {
		defer r.onBoundary()
	}

	if b.id == "" {
		r.susCounter++
		b.id = fmt.Sprintf("s%d", r.susCounter)
	}

	if r.config.ResolveBoundaries && !b.isResolved() {
		if _, err := b.resolve(r.ctx); err != nil {
			return fmt.Errorf("suspense %s: %w", b.id, err)
		}
	}

	if b.isResolved() {
		content, err := b.resolve(r.ctx)
		if err != nil {
			return fmt.Errorf("suspense %s: %w", b.id, err)
		}
		if _, err := fmt.Fprintf(w, `<div data-suspense="%s">`, escapeAttr(b.id)); err != nil {
			return err
		}
		if err := r.renderNode(w, content, depth+1); err != nil {
			return err
		}
		_, err = w.Write([]byte("</div>"))
		return err
	}

	if _, err := fmt.Fprintf(w, `<div data-suspense="%s" data-suspense-pending>`, escapeAttr(b.id)); err != nil {
		return err
	}
	if err := r.renderNode(w, b.Fallback, depth+1); err != nil {
		return err
	}
	_, err := w.Write([]byte("</div>"))
	return err
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode) error {
	escaped := escapeHTML(node.Text)
	_, err := w.Write([]byte(escaped))
	return err
}

// renderFragment renders a fragment's children without a wrapper element.
func (r *Renderer) renderFragment(w io.Writer, node *vdom.VNode, depth int) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderComponent renders a component by rendering its output VNode.
// The expansion is memoized on the node so boundary collection and the
// render pass agree on what was produced.
func (r *Renderer) renderComponent(w io.Writer, node *vdom.VNode, depth int) error {
	if node.Comp == nil {
		return nil
	}
	if node.Expanded == nil {
		node.Expanded = node.Comp.Render()
	}
	return r.renderNode(w, node.Expanded, depth)
}

// renderRaw renders raw HTML without escaping.
func (r *Renderer) renderRaw(w io.Writer, node *vdom.VNode) error {
	_, err := w.Write([]byte(node.Text))
	return err
}

// renderAttributes renders all attributes for an element.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if node.Props == nil {
		return nil
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		// Skip internal props
		if strings.HasPrefix(key, "_") {
			continue
		}

		// Skip event handlers (they're registered, not rendered as attributes)
		if strings.HasPrefix(key, "on") && isEventHandler(value) {
			continue
		}

		switch key {
		case "className":
			key = "class"
		case "htmlFor":
			key = "for"
		case "dangerouslySetInnerHTML":
			// Handled separately in renderElement
			continue
		case "key":
			// Key is internal, not rendered
			continue
		}

		// Boolean attributes
		if isBooleanAttr(key) {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		strValue := attrToString(value)
		if strValue != "" {
			escaped := escapeAttr(strValue)
			if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escaped); err != nil {
				return err
			}
		}
	}

	// Event marker attributes for client-side binding
	for _, key := range keys {
		if strings.HasPrefix(key, "on") && isEventHandler(node.Props[key]) {
			eventName := strings.ToLower(key[2:]) // onclick -> click
			if _, err := fmt.Fprintf(w, ` data-on-%s="true"`, eventName); err != nil {
				return err
			}
		}
	}

	return nil
}

// nextHID generates the next sequential hydration ID.
func (r *Renderer) nextHID() string {
	r.hidCounter++
	return fmt.Sprintf("h%d", r.hidCounter)
}

// registerHandlers stores handler references for the given HID.
func (r *Renderer) registerHandlers(hid string, node *vdom.VNode) {
	for key, value := range node.Props {
		if strings.HasPrefix(key, "on") && isEventHandler(value) {
			r.handlers[hid+"_"+key] = value
		}
	}
}

// isEventHandler returns true if the value looks like an event handler.
func isEventHandler(value any) bool {
	if value == nil {
		return false
	}
	switch value.(type) {
	case func():
		return true
	case func(any):
		return true
	case vdom.EventHandler:
		return true
	default:
		return strings.HasPrefix(fmt.Sprintf("%T", value), "func")
	}
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.Write([]byte(r.config.Indent))
	}
}
