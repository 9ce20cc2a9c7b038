package assets

import "strings"

// Resolver maps a logical asset name to the URL it should be served
// from. Implementations differ between development (no fingerprints)
// and production (manifest-backed fingerprints).
type Resolver interface {
	// Asset resolves a logical name like "app.css" or "example.wasm"
	// to a URL path like "/pkg/app.f3a91c02.css".
	Asset(source string) string
}

// manifestResolver resolves through a Manifest and prefixes the
// result with the public mount path.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a production resolver backed by a manifest.
// prefix is the URL path assets are mounted under, e.g. "/pkg".
func NewResolver(manifest *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: manifest,
		prefix:   strings.TrimSuffix(prefix, "/"),
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + "/" + strings.TrimPrefix(r.manifest.Resolve(source), "/")
}

// passthroughResolver returns logical names unchanged apart from the
// mount prefix. The dev server serves unfingerprinted files straight
// from the build directory, so no manifest is involved.
type passthroughResolver struct {
	prefix string
}

// NewPassthroughResolver creates a development resolver that performs
// no fingerprint lookup.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthroughResolver{prefix: strings.TrimSuffix(prefix, "/")}
}

func (r *passthroughResolver) Asset(source string) string {
	return r.prefix + "/" + strings.TrimPrefix(source, "/")
}
