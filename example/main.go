// The example worker serves the demo site: three SSR pages, the demo
// server functions, fingerprinted static assets, and a metrics
// endpoint.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/edge"
	"github.com/veldt-dev/veldt/pkg/middleware"
	"github.com/veldt-dev/veldt/pkg/render"
	"github.com/veldt-dev/veldt/pkg/serverfn"
	"github.com/veldt-dev/veldt/pkg/sitekv"

	"github.com/veldt-dev/veldt-example/app"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	env := edge.EnvDev
	var manifest *assets.Manifest
	if os.Getenv("VELDT_ENV") == "prod" {
		env = edge.EnvProd
		m, err := assets.Load("dist/manifest.json")
		if err != nil {
			logger.Error("failed to load asset manifest", "error", err)
			os.Exit(1)
		}
		manifest = m
	}

	site := edge.NewApp(edge.Options{
		OutputName:     "example",
		Env:            env,
		ExcludedRoutes: []string{"/favicon.ico"},
	}, manifest, logger)

	site.Route(edge.RouteListing{Path: "/", Mode: render.ModeOutOfOrder}, app.Home)
	site.Route(edge.RouteListing{Path: "/blog", Mode: render.ModeInOrder}, app.BlogIndex)
	site.Route(edge.RouteListing{Path: "/blog/{slug}", Mode: render.ModeAsync}, app.BlogPost)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Prometheus())
	r.Use(middleware.OpenTelemetry())

	site.Mount(r)
	r.Method(http.MethodGet, "/api/{name}", serverfn.Default.Handler(logger))
	r.Method(http.MethodPost, "/api/{name}", serverfn.Default.Handler(logger))
	r.Handle("/pkg/*", http.StripPrefix("/pkg",
		sitekv.NewHandler(sitekv.NewDirStore("dist/pkg"), manifest, logger)))
	r.Handle("/metrics", promhttp.Handler())

	addr := os.Getenv("VELDT_ADDR")
	if addr == "" {
		addr = "localhost:3001"
	}
	logger.Info("worker listening", "addr", addr, "env", string(env))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}
