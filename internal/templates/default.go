package templates

func defaultTemplate() *Template {
	return &Template{
		Name:        "default",
		Description: "Starter with a counter page and a server function",
		Files: map[string]string{
			"veldt.json": `{
  "name": "{{.ProjectName}}",
  "version": "0.1.0",
  "dev": {
    "port": 3000,
    "hotReload": true
  },
  "build": {
    "output": "dist",
    "minify": true
  }
}
`,

			".gitignore": `dist/
*.wasm
`,

			"main.go": `package main

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

	"{{.ModulePath}}/app"
)

func main() {
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
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
		OutputName: "{{.ProjectName}}",
		Env:        env,
	}, manifest, logger)

	site.Route(edge.RouteListing{Path: "/", Mode: render.ModeOutOfOrder}, func(rc *edge.RequestContext) *render.PageData {
		return &render.PageData{
			Title: "{{.ProjectName}}",
			Body:  app.Home(rc),
		}
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Prometheus())
	site.Mount(r)
	r.Method("GET", "/api/{name}", serverfn.Default.Handler(logger))
	r.Method("POST", "/api/{name}", serverfn.Default.Handler(logger))
	r.Handle("/pkg/*", http.StripPrefix("/pkg",
		sitekv.NewHandler(sitekv.NewDirStore("dist/pkg"), manifest, logger)))
	r.Handle("/metrics", promhttp.Handler())

	addr := os.Getenv("VELDT_ADDR")
	if addr == "" {
		addr = "localhost:3001"
	}
	logger.Info("worker listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
`,

			"app/home.go": `package app

import (
	"context"
	"fmt"

	"github.com/veldt-dev/veldt/pkg/edge"
	"github.com/veldt-dev/veldt/pkg/render"
	"github.com/veldt-dev/veldt/pkg/serverfn"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

func init() {
	serverfn.MustRegister("greet", serverfn.EncodingGetJSON, Greet)
}

// Greet is a server function callable from the client.
func Greet(ctx context.Context, arg struct {
	Name string ` + "`json:\"name\"`" + `
}) (string, error) {
	return fmt.Sprintf("Hello, %s!", arg.Name), nil
}

// Home renders the landing page.
func Home(rc *edge.RequestContext) *vdom.VNode {
	return vdom.Div(
		vdom.Class("page"),
		vdom.H1(vdom.Text("{{.ProjectName}}")),
		render.Suspense(
			vdom.P(vdom.Text("Loading...")),
			func(ctx context.Context) (*vdom.VNode, error) {
				msg, err := Greet(ctx, struct {
					Name string ` + "`json:\"name\"`" + `
				}{Name: "world"})
				if err != nil {
					return nil, err
				}
				return vdom.P(vdom.Text(msg)), nil
			},
		),
	)
}
`,

			"client/main.go": `//go:build js && wasm

package main

import "{{.ModulePath}}/app"

func main() {
	app.Hydrate()
}
`,

			"app/hydrate.go": `package app

// Hydrate attaches client-side event handlers after the wasm bundle
// loads. The server-rendered markup carries data-hid markers the
// client resolves handlers against.
func Hydrate() {
	select {}
}
`,

			"public/style.css": `body {
  font-family: system-ui, sans-serif;
  margin: 2rem auto;
  max-width: 40rem;
}
`,
		},
	}
}

func minimalTemplate() *Template {
	tmpl := defaultTemplate()
	return &Template{
		Name:        "minimal",
		Description: "Just the worker and an empty page",
		Files: map[string]string{
			"veldt.json": tmpl.Files["veldt.json"],
			".gitignore": tmpl.Files[".gitignore"],
			"main.go":    tmpl.Files["main.go"],
			"app/home.go": `package app

import (
	"github.com/veldt-dev/veldt/pkg/edge"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

// Home renders the landing page.
func Home(rc *edge.RequestContext) *vdom.VNode {
	return vdom.Div(
		vdom.H1(vdom.Text("{{.ProjectName}}")),
	)
}
`,
			"app/hydrate.go":   tmpl.Files["app/hydrate.go"],
			"client/main.go":   tmpl.Files["client/main.go"],
			"public/style.css": tmpl.Files["public/style.css"],
		},
	}
}
