package edge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/veldt-dev/veldt/pkg/assets"
	"github.com/veldt-dev/veldt/pkg/render"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testApp(opts Options) *App {
	return NewApp(opts, nil, testLogger())
}

func TestAppServesPage(t *testing.T) {
	app := testApp(Options{OutputName: "app"})
	app.Route(RouteListing{Path: "/", Mode: render.ModeOutOfOrder}, func(rc *RequestContext) *render.PageData {
		return &render.PageData{
			Title: "Home",
			Body:  vdom.Div(vdom.Text("welcome")),
		}
	})

	r := chi.NewRouter()
	app.Mount(r)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<title>Home</title>") {
		t.Errorf("title missing:\n%s", body)
	}
	if !strings.Contains(body, "<div>welcome</div>") {
		t.Errorf("body content missing:\n%s", body)
	}
	// Out-of-order pages ship the swap helper even with no boundaries
	// on this particular render.
	if !strings.Contains(body, "window.__veldt_swap") {
		t.Errorf("swap helper missing:\n%s", body)
	}
}

func TestAppStreamsSuspense(t *testing.T) {
	app := testApp(Options{OutputName: "app"})
	app.Route(RouteListing{Path: "/", Mode: render.ModeOutOfOrder}, func(rc *RequestContext) *render.PageData {
		return &render.PageData{
			Body: vdom.Div(
				render.Suspense(vdom.Text("loading"), func(ctx context.Context) (*vdom.VNode, error) {
					return vdom.P(vdom.Text("resolved")), nil
				}),
			),
		}
	})

	r := chi.NewRouter()
	app.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `data-suspense-pending>loading</div>`) {
		t.Errorf("fallback missing from shell:\n%s", body)
	}
	if !strings.Contains(body, `data-suspense-for="s1"><p>resolved</p></template>`) {
		t.Errorf("streamed fragment missing:\n%s", body)
	}
}

func TestAppAsyncAppliesOverrides(t *testing.T) {
	app := testApp(Options{OutputName: "app"})
	app.Route(RouteListing{Path: "/missing", Mode: render.ModeAsync}, func(rc *RequestContext) *render.PageData {
		rc.Response.SetStatus(http.StatusNotFound)
		rc.Response.InsertHeader("Cache-Control", "no-store")
		return &render.PageData{
			Title: "Not Found",
			Body:  vdom.Div(vdom.Text("no such page")),
		}
	})

	r := chi.NewRouter()
	app.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if !strings.Contains(rr.Body.String(), "no such page") {
		t.Errorf("body missing content:\n%s", rr.Body.String())
	}
}

func TestAppAsyncRedirectFromLoader(t *testing.T) {
	app := testApp(Options{OutputName: "app"})
	app.Route(RouteListing{Path: "/private", Mode: render.ModeAsync}, func(rc *RequestContext) *render.PageData {
		return &render.PageData{
			Body: vdom.Div(
				render.Suspense(vdom.Text("checking"), func(ctx context.Context) (*vdom.VNode, error) {
					Redirect(FromContext(ctx), "/login")
					return vdom.Text(""), nil
				}),
			),
		}
	})

	r := chi.NewRouter()
	app.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))

	if rr.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}
}

func TestAppNilPageData(t *testing.T) {
	app := testApp(Options{})
	app.Route(RouteListing{Path: "/broken"}, func(rc *RequestContext) *render.PageData {
		return nil
	})

	r := chi.NewRouter()
	app.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/broken", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestAppExcludedRoutesNotMounted(t *testing.T) {
	app := testApp(Options{ExcludedRoutes: []string{"/favicon.ico"}})
	page := func(rc *RequestContext) *render.PageData {
		return &render.PageData{Body: vdom.Div()}
	}
	app.Route(RouteListing{Path: "/"}, page)
	app.Route(RouteListing{Path: "/favicon.ico"}, page)

	r := chi.NewRouter()
	app.Mount(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("excluded route status = %d, want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("root status = %d, want 200", rr.Code)
	}
}

func TestAppRouteMethods(t *testing.T) {
	app := testApp(Options{})
	app.Route(RouteListing{Path: "/form", Methods: []string{"GET", "POST"}}, func(rc *RequestContext) *render.PageData {
		return &render.PageData{Body: vdom.Div(vdom.Text(rc.Request.Method))}
	})

	r := chi.NewRouter()
	app.Mount(r)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(method, "/form", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s /form status = %d, want 200", method, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/form", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /form status = %d, want 405", rr.Code)
	}
}

func TestNewAppResolvers(t *testing.T) {
	t.Run("prod with manifest", func(t *testing.T) {
		m := assets.NewManifest()
		m.Set("style.css", "style.11223344.css")
		app := NewApp(Options{Env: EnvProd}, m, testLogger())
		if got := app.Resolver().Asset("style.css"); got != "/pkg/style.11223344.css" {
			t.Errorf("Asset = %q, want fingerprinted path", got)
		}
	})

	t.Run("prod without manifest falls back to passthrough", func(t *testing.T) {
		app := NewApp(Options{Env: EnvProd}, nil, testLogger())
		if got := app.Resolver().Asset("style.css"); got != "/pkg/style.css" {
			t.Errorf("Asset = %q, want passthrough path", got)
		}
	})

	t.Run("dev ignores manifest", func(t *testing.T) {
		m := assets.NewManifest()
		m.Set("style.css", "style.11223344.css")
		app := NewApp(Options{Env: EnvDev, PkgPrefix: "/static"}, m, testLogger())
		if got := app.Resolver().Asset("style.css"); got != "/static/style.css" {
			t.Errorf("Asset = %q, want /static/style.css", got)
		}
	})
}
