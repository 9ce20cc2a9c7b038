// Package assets provides runtime resolution of fingerprinted asset paths.
//
// The production build writes a manifest.json mapping logical asset
// names to their fingerprinted (content-hashed) versions:
//
//	{
//	  "example.wasm": "example.a1b2c3d4.wasm",
//	  "veldt.js": "veldt.e5f6a7b8.js"
//	}
//
// Deployed workers load that manifest and resolve logical names
// through it; the development server skips fingerprinting entirely and
// uses a passthrough resolver. Keeping both behind the same Resolver
// interface is what reconciles asset URLs between the two
// environments: components always ask for the logical name.
package assets

import (
	"encoding/json"
	"os"
	"sync"
)

// Manifest holds the mapping from logical asset names to fingerprinted
// names. It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Load reads a manifest.json file and returns a Manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes manifest JSON ({"logical": "fingerprinted"}).
func Parse(data []byte) (*Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for the given logical name.
// Unknown names are returned unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has returns true if the manifest contains the given logical name.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry. The builder uses this while hashing.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of all entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}

// MarshalJSON encodes the manifest as its entry map.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return json.Marshal(m.entries)
}
