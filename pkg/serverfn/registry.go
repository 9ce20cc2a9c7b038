package serverfn

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Payload is the raw argument material extracted from a request.
type Payload struct {
	// Data is the request body for POST encodings, or the raw query
	// string for GET encodings.
	Data []byte

	// ContentType is the request's Content-Type header.
	ContentType string
}

// callFunc runs a registered function against a decoded payload and
// returns the encoded result.
type callFunc func(ctx context.Context, payload Payload) ([]byte, error)

type registration struct {
	name     string
	encoding Encoding
	call     callFunc
}

// Registry holds registered server functions keyed by name.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]*registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]*registration)}
}

// Default is the process-wide registry that package-level Register
// uses. Applications that want isolation can construct their own.
var Default = NewRegistry()

// RegisterOn adds a typed server function to reg. The argument is
// decoded from the request per enc and the result encoded the same
// way. Registering the same name twice is a programming error and
// returns one.
func RegisterOn[A, R any](reg *Registry, name string, enc Encoding, fn func(ctx context.Context, arg A) (R, error)) error {
	call := func(ctx context.Context, payload Payload) ([]byte, error) {
		var arg A
		if err := decodeArg(enc, payload, &arg); err != nil {
			return nil, fmt.Errorf("decode argument for %s: %w", name, err)
		}
		result, err := fn(ctx, arg)
		if err != nil {
			return nil, err
		}
		return encodeResult(enc, result)
	}
	return reg.add(name, enc, call)
}

// Register adds a typed server function to the default registry.
func Register[A, R any](name string, enc Encoding, fn func(ctx context.Context, arg A) (R, error)) error {
	return RegisterOn(Default, name, enc, fn)
}

// MustRegister is Register that panics on a duplicate name. Intended
// for package init blocks.
func MustRegister[A, R any](name string, enc Encoding, fn func(ctx context.Context, arg A) (R, error)) {
	if err := Register(name, enc, fn); err != nil {
		panic(err)
	}
}

func (r *Registry) add(name string, enc Encoding, call callFunc) error {
	if name == "" {
		return fmt.Errorf("server function name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fns[name]; exists {
		return fmt.Errorf("server function %q already registered", name)
	}
	r.fns[name] = &registration{name: name, encoding: enc, call: call}
	return nil
}

// Lookup returns the registration for name, if any.
func (r *Registry) lookup(name string) (*registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.fns[name]
	return reg, ok
}

// Names returns the registered function names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	return names
}

func encodeResult(enc Encoding, result any) ([]byte, error) {
	switch enc {
	case EncodingCbor, EncodingGetCbor:
		return cbor.Marshal(result)
	default:
		return json.Marshal(result)
	}
}
