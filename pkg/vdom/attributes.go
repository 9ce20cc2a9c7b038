package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with a Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Key sets the reconciliation key.
func Key(key string) Attr { return attr("key", key) }

// Data creates a data-* attribute.
// Example: Data("id", "123") becomes data-id="123".
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Link attributes

// Href sets the href attribute.
func Href(href string) Attr { return attr("href", href) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// As sets the as attribute (preload hints).
func As(as string) Attr { return attr("as", as) }

// CrossOrigin sets the crossorigin attribute.
func CrossOrigin(value string) Attr { return attr("crossorigin", value) }

// Media and script attributes

// Src sets the src attribute.
func Src(src string) Attr { return attr("src", src) }

// Alt sets the alt attribute.
func Alt(alt string) Attr { return attr("alt", alt) }

// Type_ sets the type attribute (named to avoid the Go keyword-ish collision).
func Type_(t string) Attr { return attr("type", t) }

// Defer_ sets the defer attribute.
func Defer_() Attr { return attr("defer", true) }

// Async sets the async attribute.
func Async() Attr { return attr("async", true) }

// Document metadata

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Charset sets the charset attribute.
func Charset(cs string) Attr { return attr("charset", cs) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// Form attributes

// Value sets the value attribute.
func Value(value any) Attr { return attr("value", value) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr { return attr("placeholder", p) }

// For sets the for attribute.
func For(id string) Attr { return attr("for", id) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Checked sets the checked attribute.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Required sets the required attribute.
func Required(required bool) Attr { return attr("required", required) }

// Method sets the method attribute.
func Method(method string) Attr { return attr("method", method) }

// Action sets the action attribute.
func Action(action string) Attr { return attr("action", action) }

// Accessibility

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }
