package edge

import (
	"sort"

	"github.com/veldt-dev/veldt/pkg/render"
)

// RouteListing describes one page route the worker should serve:
// its path pattern, the SSR mode used to render it, and the HTTP
// methods it accepts.
type RouteListing struct {
	Path    string
	Mode    render.Mode
	Methods []string
}

// GenerateRouteList canonicalizes the application's declared routes
// into the list the router mounts. Empty paths become "/", paths in
// excluded are dropped, and an application with no routes at all still
// serves GET on the root.
func GenerateRouteList(routes []RouteListing, excluded []string) []RouteListing {
	skip := make(map[string]bool, len(excluded))
	for _, path := range excluded {
		skip[path] = true
	}

	var out []RouteListing
	for _, route := range routes {
		if route.Path == "" {
			route.Path = "/"
		}
		if skip[route.Path] {
			continue
		}
		if len(route.Methods) == 0 {
			route.Methods = []string{"GET"}
		}
		out = append(out, route)
	}

	if len(out) == 0 {
		return []RouteListing{{Path: "/", Mode: render.ModeOutOfOrder, Methods: []string{"GET"}}}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
