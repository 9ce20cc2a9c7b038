// Package dev implements the development server: it builds and runs
// the application as a child process, proxies browser traffic to it,
// watches the source tree, and pushes reload messages to connected
// browsers over a WebSocket.
package dev

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veldt-dev/veldt/internal/build"
	"github.com/veldt-dev/veldt/internal/config"
	"github.com/veldt-dev/veldt/internal/errors"
)

// Server is the development server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	reload *ReloadServer

	appPort int
	app     *exec.Cmd
}

// NewServer creates a dev server for the project at cfg.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		logger: logger,
		reload: NewReloadServer(),
		// App process listens one port above the proxy.
		appPort: cfg.Dev.Port + 1,
	}
}

// Run builds the app, starts it, and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(ctx); err != nil {
		// First build must succeed; afterwards build errors go to the
		// browser overlay instead.
		return err
	}
	if err := s.startApp(ctx); err != nil {
		return err
	}
	defer s.stopApp()

	watcher, err := s.startWatcher(ctx)
	if err != nil {
		return errors.New("E141").Wrap(err)
	}
	defer watcher.Close()

	router := chi.NewRouter()
	router.Get(reloadPath, s.reload.HandleWebSocket)
	router.Handle("/pkg/*", http.StripPrefix("/pkg", http.FileServer(http.Dir(s.config.PkgPath()))))
	router.NotFound(s.proxyHandler())

	srv := &http.Server{
		Addr:    s.config.DevAddress(),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dev server listening", "url", s.config.DevURL())
	err = srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if isAddrInUse(err) {
		return errors.New("E140").
			WithDetail("Port " + strconv.Itoa(s.config.Dev.Port) + " is already in use").
			WithSuggestion("Stop the other process or change dev.port in veldt.json")
	}
	return err
}

// startWatcher begins watching and handling source changes.
func (s *Server) startWatcher(ctx context.Context) (*Watcher, error) {
	var dirs []string
	for _, d := range s.config.Dev.Watch {
		abs := filepath.Join(s.config.Dir(), d)
		if _, err := os.Stat(abs); err == nil {
			dirs = append(dirs, abs)
		}
	}
	ignore := append([]string{s.config.Build.Output, ".git", "node_modules"}, s.config.Dev.Ignore...)

	watcher, err := NewWatcher(dirs, ignore)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			select {
			case change, ok := <-watcher.Changes:
				if !ok {
					return
				}
				s.handleChange(ctx, change)
			case <-ctx.Done():
				return
			}
		}
	}()
	return watcher, nil
}

// handleChange rebuilds or hot-swaps depending on what changed.
func (s *Server) handleChange(ctx context.Context, change Change) {
	switch change.Kind {
	case ChangeGo:
		s.logger.Info("source changed, rebuilding", "files", len(change.Files))
		if err := s.rebuild(ctx); err != nil {
			s.logger.Error("rebuild failed", "error", err)
			s.reload.NotifyError(buildErrorText(err))
			return
		}
		s.stopApp()
		if err := s.startApp(ctx); err != nil {
			s.logger.Error("app restart failed", "error", err)
			s.reload.NotifyError(err.Error())
			return
		}
		s.reload.ClearError()
		s.reload.NotifyReload()

	case ChangeCSS, ChangeAsset:
		s.reload.NotifyChange(change)
	}
}

// rebuild runs the two-pass build without fingerprinting.
func (s *Server) rebuild(ctx context.Context) error {
	builder := build.New(s.config, build.Options{
		Fingerprint: false,
		Target:      config.TargetNative,
		OnProgress: func(step string) {
			s.logger.Debug("build", "step", step)
		},
	})
	_, err := builder.Build(ctx)
	return err
}

// startApp launches the compiled worker binary as a child process.
func (s *Server) startApp(ctx context.Context) error {
	binary := filepath.Join(s.config.OutputPath(), "worker")
	cmd := exec.CommandContext(ctx, binary)
	cmd.Dir = s.config.Dir()
	cmd.Env = append(os.Environ(),
		"VELDT_ENV=dev",
		"VELDT_ADDR="+net.JoinHostPort(s.config.Dev.Host, strconv.Itoa(s.appPort)),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return errors.New("E142").Wrap(err)
	}
	s.app = cmd

	return s.waitForApp()
}

// waitForApp polls until the app accepts connections.
func (s *Server) waitForApp() error {
	addr := net.JoinHostPort(s.config.Dev.Host, strconv.Itoa(s.appPort))
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 250*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("E142").
		WithDetail("App did not start listening on " + addr + " within 10s")
}

func (s *Server) stopApp() {
	if s.app == nil || s.app.Process == nil {
		return
	}
	s.app.Process.Kill()
	s.app.Wait()
	s.app = nil
}

// proxyHandler forwards requests to the app process and injects the
// hot reload client into HTML responses.
func (s *Server) proxyHandler() http.HandlerFunc {
	target := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(s.config.Dev.Host, strconv.Itoa(s.appPort)),
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ModifyResponse = injectReloadScript
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.logger.Warn("proxy error", "path", r.URL.Path, "error", err)
		http.Error(w, "app is restarting, retry shortly", http.StatusBadGateway)
	}

	return proxy.ServeHTTP
}

// injectReloadScript splices the reload client before </body> in HTML
// responses. Streaming responses pass through untouched.
func injectReloadScript(resp *http.Response) error {
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil
	}
	// A streamed body has no Content-Length; injecting would force
	// full buffering and kill the stream.
	if resp.ContentLength < 0 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	injected := bytes.Replace(body, []byte("</body>"), []byte(DevClientScript+"</body>"), 1)
	resp.Body = io.NopCloser(bytes.NewReader(injected))
	resp.ContentLength = int64(len(injected))
	resp.Header.Set("Content-Length", strconv.Itoa(len(injected)))
	return nil
}

func buildErrorText(err error) string {
	var ve *errors.VeldtError
	if stderrors.As(err, &ve) && ve.Detail != "" {
		return fmt.Sprintf("%s\n\n%s", ve.Message, ve.Detail)
	}
	return err.Error()
}

func isAddrInUse(err error) bool {
	return err != nil && strings.Contains(err.Error(), "address already in use")
}
