package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/veldt-dev/veldt/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Build.Output != DefaultOutput {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, DefaultOutput)
	}
	if cfg.Site.PkgPrefix != DefaultPkgPrefix {
		t.Errorf("Site.PkgPrefix = %q, want %q", cfg.Site.PkgPrefix, DefaultPkgPrefix)
	}
	if !cfg.Dev.HotReload {
		t.Error("HotReload should default to true")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "name": "myapp",
  "dev": {"port": 8080},
  "deploy": {"bucket": "myapp-site", "region": "eu-west-1"}
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "myapp" {
		t.Errorf("Name = %q, want myapp", cfg.Name)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want 8080", cfg.Dev.Port)
	}
	if cfg.Deploy.Bucket != "myapp-site" {
		t.Errorf("Deploy.Bucket = %q", cfg.Deploy.Bucket)
	}
	// Unset fields fall back to defaults.
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want default", cfg.Dev.Host)
	}
	// The project name doubles as the bundle name.
	if cfg.Site.OutputName != "myapp" {
		t.Errorf("Site.OutputName = %q, want myapp", cfg.Site.OutputName)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Load of empty dir succeeded")
	}
	var ve *errors.VeldtError
	if !stderrors.As(err, &ve) || ve.Code != "E100" {
		t.Errorf("err = %v, want E100", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{broken")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load of invalid JSON succeeded")
	}
	var ve *errors.VeldtError
	if !stderrors.As(err, &ve) || ve.Code != "E101" {
		t.Errorf("err = %v, want E101", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "roundtrip"

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("Name = %q, want roundtrip", loaded.Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.Name = "x"; c.applyDefaults() }, false},
		{"port too large", func(c *Config) { c.Name = "x"; c.applyDefaults(); c.Dev.Port = 70000 }, true},
		{"negative port", func(c *Config) { c.Name = "x"; c.applyDefaults(); c.Dev.Port = -1 }, true},
		{"no output name", func(c *Config) {}, true},
		{"worker-wasm target", func(c *Config) { c.Name = "x"; c.applyDefaults(); c.Build.Target = TargetWorkerWasm }, false},
		{"unknown target", func(c *Config) { c.Name = "x"; c.applyDefaults(); c.Build.Target = "wasm" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	if got := cfg.DevAddress(); got != "localhost:3000" {
		t.Errorf("DevAddress = %q, want localhost:3000", got)
	}
	if got := cfg.DevURL(); got != "http://localhost:3000" {
		t.Errorf("DevURL = %q", got)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"name": "x"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.OutputPath(); got != filepath.Join(dir, "dist") {
		t.Errorf("OutputPath = %q", got)
	}
	if got := cfg.PkgPath(); got != filepath.Join(dir, "dist", "pkg") {
		t.Errorf("PkgPath = %q", got)
	}
	if got := cfg.ManifestPath(); got != filepath.Join(dir, "dist", "manifest.json") {
		t.Errorf("ManifestPath = %q", got)
	}
	if got := cfg.PublicPath(); got != filepath.Join(dir, "public") {
		t.Errorf("PublicPath = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"name": "x"}`)

	nested := filepath.Join(root, "app", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	// The temp dir may live behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("root = %q, want %q", got, root)
	}
}

func TestFindProjectRootMissing(t *testing.T) {
	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("FindProjectRoot succeeded with no veldt.json anywhere")
	}
}
