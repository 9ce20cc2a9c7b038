package vdom

// event creates an EventHandler for the given event name.
func event(name string, handler any) EventHandler {
	return EventHandler{Event: name, Handler: handler}
}

// Mouse events

// OnClick attaches a click handler.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnDblClick attaches a dblclick handler.
func OnDblClick(handler any) EventHandler { return event("dblclick", handler) }

// OnMouseEnter attaches a mouseenter handler.
func OnMouseEnter(handler any) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave attaches a mouseleave handler.
func OnMouseLeave(handler any) EventHandler { return event("mouseleave", handler) }

// Keyboard events

// OnKeyDown attaches a keydown handler.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnKeyUp attaches a keyup handler.
func OnKeyUp(handler any) EventHandler { return event("keyup", handler) }

// Form events

// OnInput attaches an input handler.
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange attaches a change handler.
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnSubmit attaches a submit handler.
func OnSubmit(handler any) EventHandler { return event("submit", handler) }

// OnFocus attaches a focus handler.
func OnFocus(handler any) EventHandler { return event("focus", handler) }

// OnBlur attaches a blur handler.
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// On attaches a handler for an arbitrary event name.
func On(name string, handler any) EventHandler { return event(name, handler) }
