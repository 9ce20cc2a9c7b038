package edge

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/render"
)

// Env selects the asset resolution strategy the worker runs with.
type Env string

const (
	// EnvDev serves unfingerprinted assets straight from the build
	// output.
	EnvDev Env = "dev"
	// EnvProd resolves assets through the deploy manifest.
	EnvProd Env = "prod"
)

// Options configures an App.
type Options struct {
	// OutputName is the base name of the client bundle, e.g. "example"
	// for example.wasm.
	OutputName string

	// Env selects dev or prod asset resolution.
	Env Env

	// PkgPrefix is the URL path assets are mounted under.
	// Defaults to "/pkg".
	PkgPrefix string

	// ExcludedRoutes are page paths that should not be mounted even
	// when the application declares them. Static asset paths that
	// would otherwise shadow a page go here.
	ExcludedRoutes []string
}

// Page produces the page data for one request. It runs once per
// request, before any bytes are written, and may record response
// overrides on the RequestContext.
type Page func(rc *RequestContext) *render.PageData

// App ties an application's routes to the worker's HTTP surface.
type App struct {
	opts     Options
	resolver assets.Resolver
	logger   *slog.Logger
	routes   []RouteListing
	pages    map[string]Page
}

// NewApp creates an App. manifest may be nil in development; the app
// then falls back to passthrough asset resolution regardless of Env.
func NewApp(opts Options, manifest *assets.Manifest, logger *slog.Logger) *App {
	if opts.PkgPrefix == "" {
		opts.PkgPrefix = "/pkg"
	}
	if logger == nil {
		logger = slog.Default()
	}

	var resolver assets.Resolver
	if opts.Env == EnvProd && manifest != nil {
		resolver = assets.NewResolver(manifest, opts.PkgPrefix)
	} else {
		resolver = assets.NewPassthroughResolver(opts.PkgPrefix)
	}

	return &App{
		opts:     opts,
		resolver: resolver,
		logger:   logger,
		pages:    make(map[string]Page),
	}
}

// Resolver returns the asset resolver the app was built with.
func (a *App) Resolver() assets.Resolver {
	return a.resolver
}

// Route registers a page route. An empty path is canonicalized to "/".
func (a *App) Route(listing RouteListing, page Page) {
	if listing.Path == "" {
		listing.Path = "/"
	}
	a.routes = append(a.routes, listing)
	a.pages[listing.Path] = page
}

// Mount attaches every registered route to r. Routes named in
// ExcludedRoutes are skipped.
func (a *App) Mount(r chi.Router) {
	for _, listing := range GenerateRouteList(a.routes, a.opts.ExcludedRoutes) {
		page, ok := a.pages[listing.Path]
		if !ok {
			continue
		}
		handler := a.pageHandler(listing, page)
		for _, method := range listing.Methods {
			r.Method(method, listing.Path, handler)
		}
		a.logger.Debug("mounted route",
			"path", listing.Path,
			"mode", listing.Mode.String(),
			"methods", listing.Methods)
	}
}
