//go:build js && wasm

// The client bundle. The hydration bootstrap instantiates it once the
// server-rendered document is parsed; it then takes over the
// interactive elements marked during SSR.
package main

import (
	"syscall/js"

	_ "github.com/veldt-dev/veldt-example/app"
)

func main() {
	document := js.Global().Get("document")

	// Wire every SSR-marked interactive element to refresh the
	// counter over the get_count server function.
	buttons := document.Call("querySelectorAll", "[data-hid]")
	for i := 0; i < buttons.Get("length").Int(); i++ {
		attachCounter(document, buttons.Index(i))
	}

	// Park forever; handlers keep the program alive.
	select {}
}

func attachCounter(document, el js.Value) {
	form := el.Get("form")
	if form.IsNull() {
		return
	}
	handler := js.FuncOf(func(this js.Value, args []js.Value) any {
		args[0].Call("preventDefault")
		action := form.Get("action").String()
		go callAndRefresh(document, action)
		return nil
	})
	form.Call("addEventListener", "submit", handler)
}

func callAndRefresh(document js.Value, action string) {
	fetch := js.Global().Get("fetch")
	opts := js.Global().Get("Object").New()
	opts.Set("method", "POST")
	headers := js.Global().Get("Object").New()
	headers.Set("Accept", "application/json")
	opts.Set("headers", headers)

	promise := fetch.Invoke(action, opts)
	promise.Call("then", js.FuncOf(func(this js.Value, args []js.Value) any {
		return args[0].Call("text")
	})).Call("then", js.FuncOf(func(this js.Value, args []js.Value) any {
		value := document.Call("getElementById", "count-value")
		if !value.IsNull() {
			value.Set("textContent", args[0].String())
		}
		return nil
	}))
}
