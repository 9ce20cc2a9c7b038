package render

import (
	"fmt"
	"io"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// OutputName is the base name of the client WASM bundle
	// (e.g. "example" for example.wasm).
	OutputName string

	// Resolver maps logical asset names to their served URLs. In
	// development this is a passthrough; in production it applies the
	// fingerprint manifest. Nil disables the hydration bootstrap.
	Resolver assets.Resolver
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string // rel attribute
	Href        string // href attribute
	Type        string // type attribute
	Sizes       string // sizes attribute
	CrossOrigin string // crossorigin attribute
	Media       string // media attribute
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderDocumentOpen(w, page); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}

	return r.renderDocumentClose(w)
}

// renderDocumentOpen writes everything up to and including <body>.
func (r *Renderer) renderDocumentOpen(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	_, err := w.Write([]byte("<body>\n"))
	return err
}

// renderDocumentClose closes body and html.
func (r *Renderer) renderDocumentClose(w io.Writer) error {
	_, err := w.Write([]byte("</body>\n</html>\n"))
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}

	if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
		return err
	}

	if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := r.renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		if err := r.renderLinkTag(w, link); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	if err := r.renderHydrationBootstrap(w, page); err != nil {
		return err
	}

	_, err := w.Write([]byte("</head>\n"))
	return err
}

// renderHydrationBootstrap emits the preload hints and module script
// that load the client WASM bundle and call its hydrate entry. The
// asset URLs go through the resolver so development (plain names) and
// production (fingerprinted names) serve the same markup logic.
func (r *Renderer) renderHydrationBootstrap(w io.Writer, page PageData) error {
	if page.Resolver == nil || page.OutputName == "" {
		return nil
	}

	wasmURL := page.Resolver.Asset(page.OutputName + ".wasm")
	execURL := page.Resolver.Asset("wasm_exec.js")
	bootURL := page.Resolver.Asset("veldt.js")

	if _, err := fmt.Fprintf(w, `  <link rel="modulepreload" href="%s">`+"\n", escapeAttr(bootURL)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `  <link rel="preload" href="%s" as="fetch" type="application/wasm" crossorigin="">`+"\n", escapeAttr(wasmURL)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `  <script src="%s"></script>`+"\n", escapeAttr(execURL)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w,
		`  <script type="module">import { hydrate } from '%s'; hydrate('%s');</script>`+"\n",
		escapeAttr(bootURL), escapeAttr(wasmURL))
	return err
}

// renderMetaTag renders a meta element.
func (r *Renderer) renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := w.Write([]byte("  <meta")); err != nil {
		return err
	}

	if meta.Charset != "" {
		if _, err := fmt.Fprintf(w, ` charset="%s"`, escapeAttr(meta.Charset)); err != nil {
			return err
		}
	}

	if meta.Name != "" {
		if _, err := fmt.Fprintf(w, ` name="%s"`, escapeAttr(meta.Name)); err != nil {
			return err
		}
	}

	if meta.Property != "" {
		if _, err := fmt.Fprintf(w, ` property="%s"`, escapeAttr(meta.Property)); err != nil {
			return err
		}
	}

	if meta.HTTPEquiv != "" {
		if _, err := fmt.Fprintf(w, ` http-equiv="%s"`, escapeAttr(meta.HTTPEquiv)); err != nil {
			return err
		}
	}

	if meta.Content != "" {
		if _, err := fmt.Fprintf(w, ` content="%s"`, escapeAttr(meta.Content)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte(">\n"))
	return err
}

// renderLinkTag renders a link element.
func (r *Renderer) renderLinkTag(w io.Writer, link LinkTag) error {
	if _, err := w.Write([]byte("  <link")); err != nil {
		return err
	}

	if link.Rel != "" {
		if _, err := fmt.Fprintf(w, ` rel="%s"`, escapeAttr(link.Rel)); err != nil {
			return err
		}
	}

	if link.Href != "" {
		if _, err := fmt.Fprintf(w, ` href="%s"`, escapeAttr(link.Href)); err != nil {
			return err
		}
	}

	if link.Type != "" {
		if _, err := fmt.Fprintf(w, ` type="%s"`, escapeAttr(link.Type)); err != nil {
			return err
		}
	}

	if link.Sizes != "" {
		if _, err := fmt.Fprintf(w, ` sizes="%s"`, escapeAttr(link.Sizes)); err != nil {
			return err
		}
	}

	if link.CrossOrigin != "" {
		if _, err := fmt.Fprintf(w, ` crossorigin="%s"`, escapeAttr(link.CrossOrigin)); err != nil {
			return err
		}
	}

	if link.Media != "" {
		if _, err := fmt.Fprintf(w, ` media="%s"`, escapeAttr(link.Media)); err != nil {
			return err
		}
	}

	_, err := w.Write([]byte(">\n"))
	return err
}
