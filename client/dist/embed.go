package clientdist

import _ "embed"

// VeldtJS is the hydration bootstrap module. The build stages it into
// the bundle directory as "veldt.js"; the rendered page preloads it
// and calls its hydrate() export once the document arrives.
//
//go:embed veldt.js
var VeldtJS []byte
