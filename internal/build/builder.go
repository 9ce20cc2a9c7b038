// Package build implements the two-pass production build: the client
// pass compiles the application to js/wasm and stages the browser
// assets, the worker pass compiles the server binary. Outputs are
// fingerprinted and recorded in manifest.json so the worker can
// resolve logical asset names at runtime.
package build

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	clientdist "github.com/veldt-dev/veldt/client/dist"
	"github.com/veldt-dev/veldt/internal/config"
	"github.com/veldt-dev/veldt/internal/errors"
	"github.com/veldt-dev/veldt/pkg/assets"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Worker is the path to the compiled server binary.
	Worker string

	// PkgDir is the directory holding the fingerprinted client
	// assets.
	PkgDir string

	// Manifest maps logical asset names to fingerprinted names.
	Manifest *assets.Manifest

	// WasmSize is the size of the client bundle in bytes.
	WasmSize int64
}

// Options configures the builder.
type Options struct {
	// Minify strips debug symbols (-ldflags="-s -w").
	Minify bool

	// LDFlags are linker flags for go build.
	LDFlags string

	// Tags are build tags.
	Tags []string

	// Target overrides build.target from the config. The dev server
	// sets it to native so the worker can run as a child process.
	Target string

	// Fingerprint controls content hashing of outputs. The dev
	// server builds without it.
	Fingerprint bool

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder handles production builds.
type Builder struct {
	config  *config.Config
	options Options
}

// New creates a new builder. Config build settings fill in options
// left at their zero values.
func New(cfg *config.Config, options Options) *Builder {
	if !options.Minify && cfg.Build.Minify {
		options.Minify = true
	}
	if options.LDFlags == "" {
		options.LDFlags = cfg.Build.LDFlags
	}
	if len(options.Tags) == 0 {
		options.Tags = cfg.Build.Tags
	}
	if options.Target == "" {
		options.Target = cfg.Build.Target
	}

	return &Builder{
		config:  cfg,
		options: options,
	}
}

// Build runs both passes and writes the manifest.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		Manifest: assets.NewManifest(),
	}

	outputDir := b.config.OutputPath()
	pkgDir := b.config.PkgPath()

	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("E121").Wrap(err)
	}
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return nil, errors.New("E121").Wrap(err)
	}

	b.progress("Compiling client (js/wasm)...")
	wasmPath, err := b.buildClient(ctx, pkgDir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(wasmPath); err == nil {
		result.WasmSize = info.Size()
	}

	b.progress("Staging wasm runtime...")
	if err := b.copyWasmExec(pkgDir); err != nil {
		return nil, err
	}

	b.progress("Staging hydration bootstrap...")
	if err := b.copyBootstrap(pkgDir); err != nil {
		return nil, err
	}

	b.progress("Compiling worker...")
	workerPath := filepath.Join(outputDir, b.workerOutput())
	if err := b.buildWorker(ctx, workerPath); err != nil {
		return nil, err
	}
	result.Worker = workerPath

	b.progress("Copying static assets...")
	if err := b.copyStatic(pkgDir); err != nil {
		return nil, err
	}

	if b.options.Fingerprint {
		b.progress("Fingerprinting assets...")
		if err := fingerprintDir(pkgDir, result.Manifest); err != nil {
			return nil, errors.New("E123").Wrap(err)
		}
	}

	b.progress("Writing manifest...")
	if err := b.writeManifest(result.Manifest); err != nil {
		return nil, errors.New("E124").Wrap(err)
	}

	result.Duration = time.Since(start)
	result.PkgDir = pkgDir

	return result, nil
}

// buildClient compiles the client package for js/wasm.
func (b *Builder) buildClient(ctx context.Context, pkgDir string) (string, error) {
	output := filepath.Join(pkgDir, b.config.Site.OutputName+".wasm")

	args := []string{"build", "-o", output}
	args = append(args, b.commonBuildArgs()...)
	args = append(args, "./client")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Dir()
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.New("E120").
			WithDetail(stderr.String()).
			Wrap(err)
	}
	return output, nil
}

// buildWorker compiles the server. The native target produces a host
// binary; the worker-wasm target produces a js/wasm module for
// runtimes that execute the server as WebAssembly.
func (b *Builder) buildWorker(ctx context.Context, output string) error {
	args := []string{"build", "-o", output}
	args = append(args, b.commonBuildArgs()...)
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Dir()
	cmd.Env = append(os.Environ(), b.workerEnv()...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.New("E121").
			WithDetail(stderr.String()).
			Wrap(err)
	}
	return nil
}

// workerOutput returns the worker artifact name for the build target.
func (b *Builder) workerOutput() string {
	if b.options.Target == config.TargetWorkerWasm {
		return "worker.wasm"
	}
	return "worker"
}

// workerEnv returns the extra environment for the worker compile.
func (b *Builder) workerEnv() []string {
	if b.options.Target == config.TargetWorkerWasm {
		return []string{"GOOS=js", "GOARCH=wasm"}
	}
	return []string{"CGO_ENABLED=0"}
}

func (b *Builder) commonBuildArgs() []string {
	var args []string

	ldflags := b.options.LDFlags
	if b.options.Minify {
		ldflags = strings.TrimSpace(ldflags + " -s -w")
	}
	if ldflags != "" {
		args = append(args, "-ldflags", ldflags)
	}
	if len(b.options.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.options.Tags, ","))
	}
	args = append(args, "-trimpath")
	return args
}

// copyWasmExec stages the Go wasm runtime shim from GOROOT.
func (b *Builder) copyWasmExec(pkgDir string) error {
	goroot, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return errors.New("E122").Wrap(err)
	}
	root := strings.TrimSpace(string(goroot))

	// The shim moved from misc/wasm to lib/wasm in Go 1.24.
	candidates := []string{
		filepath.Join(root, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(root, "misc", "wasm", "wasm_exec.js"),
	}
	for _, src := range candidates {
		if _, err := os.Stat(src); err == nil {
			return copyFile(src, filepath.Join(pkgDir, "wasm_exec.js"))
		}
	}
	return errors.New("E122").
		WithDetail("Looked in " + strings.Join(candidates, " and "))
}

// copyBootstrap stages the hydration bootstrap module. A project-local
// client/dist/veldt.js overrides the one shipped with the toolchain.
func (b *Builder) copyBootstrap(pkgDir string) error {
	local := filepath.Join(b.config.Dir(), "client", "dist", "veldt.js")
	dst := filepath.Join(pkgDir, "veldt.js")

	if _, err := os.Stat(local); err == nil {
		return copyFile(local, dst)
	}
	return os.WriteFile(dst, clientdist.VeldtJS, 0o644)
}

// copyStatic copies the public directory into the bundle directory.
func (b *Builder) copyStatic(pkgDir string) error {
	srcDir := b.config.PublicPath()
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(pkgDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return copyFile(path, dst)
	})
}

// fingerprintDir renames every file in dir to its hashed name and
// records the mapping. wasm_exec.js keeps its name: the bootstrap
// loads it by logical name before the manifest is available.
func fingerprintDir(dir string, manifest *assets.Manifest) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if key == "wasm_exec.js" {
			return nil
		}

		sum, err := assets.HashFile(path)
		if err != nil {
			return err
		}
		hashed := assets.HashedName(key, sum)
		if err := os.Rename(path, filepath.Join(dir, filepath.FromSlash(hashed))); err != nil {
			return err
		}
		manifest.Set(key, hashed)
		return nil
	})
}

// writeManifest writes manifest.json to the output directory.
func (b *Builder) writeManifest(manifest *assets.Manifest) error {
	data, err := manifest.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(b.config.ManifestPath(), append(data, '\n'), 0o644)
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// copyFile copies a file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
