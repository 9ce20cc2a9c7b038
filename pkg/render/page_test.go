package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

func renderPage(t *testing.T, page PageData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, page); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	return buf.String()
}

func TestRenderPageDocument(t *testing.T) {
	out := renderPage(t, PageData{
		Body:  vdom.Div(vdom.Text("content")),
		Title: "My <Page>",
	})

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		"<title>My &lt;Page&gt;</title>",
		"<body>\n<div>content</div></body>\n</html>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPageLang(t *testing.T) {
	out := renderPage(t, PageData{Body: vdom.Div(), Lang: "de"})
	if !strings.Contains(out, `<html lang="de">`) {
		t.Errorf("lang not applied:\n%s", out)
	}
}

func TestRenderPageHead(t *testing.T) {
	out := renderPage(t, PageData{
		Body: vdom.Div(),
		Meta: []MetaTag{
			{Name: "description", Content: "a demo"},
			{Property: "og:title", Content: "Demo"},
		},
		Links: []LinkTag{
			{Rel: "icon", Href: "/favicon.ico", Type: "image/x-icon"},
		},
		StyleSheets: []string{"/pkg/style.css"},
		Styles:      []string{"body{margin:0}"},
	})

	for _, want := range []string{
		`<meta name="description" content="a demo">`,
		`<meta property="og:title" content="Demo">`,
		`<link rel="icon" href="/favicon.ico" type="image/x-icon">`,
		`<link rel="stylesheet" href="/pkg/style.css">`,
		`<style>body{margin:0}</style>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("head missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPageHydrationBootstrap(t *testing.T) {
	t.Run("passthrough resolver", func(t *testing.T) {
		out := renderPage(t, PageData{
			Body:       vdom.Div(),
			OutputName: "app",
			Resolver:   assets.NewPassthroughResolver("/pkg"),
		})
		for _, want := range []string{
			`<link rel="modulepreload" href="/pkg/veldt.js">`,
			`<link rel="preload" href="/pkg/app.wasm" as="fetch" type="application/wasm" crossorigin="">`,
			`<script src="/pkg/wasm_exec.js"></script>`,
			`import { hydrate } from '/pkg/veldt.js'; hydrate('/pkg/app.wasm');`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("bootstrap missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("manifest resolver", func(t *testing.T) {
		m := assets.NewManifest()
		m.Set("app.wasm", "app.12ab34cd.wasm")
		m.Set("veldt.js", "veldt.deadbeef.js")

		out := renderPage(t, PageData{
			Body:       vdom.Div(),
			OutputName: "app",
			Resolver:   assets.NewResolver(m, "/pkg"),
		})
		if !strings.Contains(out, "/pkg/app.12ab34cd.wasm") {
			t.Errorf("fingerprinted wasm URL missing:\n%s", out)
		}
		if !strings.Contains(out, "/pkg/veldt.deadbeef.js") {
			t.Errorf("fingerprinted bootstrap URL missing:\n%s", out)
		}
		// wasm_exec.js is never fingerprinted.
		if !strings.Contains(out, `<script src="/pkg/wasm_exec.js"></script>`) {
			t.Errorf("wasm_exec script missing:\n%s", out)
		}
	})

	t.Run("no resolver disables bootstrap", func(t *testing.T) {
		out := renderPage(t, PageData{Body: vdom.Div(), OutputName: "app"})
		if strings.Contains(out, "hydrate") {
			t.Errorf("bootstrap emitted without a resolver:\n%s", out)
		}
	})

	t.Run("no output name disables bootstrap", func(t *testing.T) {
		out := renderPage(t, PageData{
			Body:     vdom.Div(),
			Resolver: assets.NewPassthroughResolver("/pkg"),
		})
		if strings.Contains(out, "hydrate") {
			t.Errorf("bootstrap emitted without an output name:\n%s", out)
		}
	})
}
