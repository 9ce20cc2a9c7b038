package build

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/veldt-dev/veldt/internal/config"
	"github.com/veldt-dev/veldt/pkg/assets"
)

func TestFingerprintDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"app.wasm":     "wasm bytes",
		"veldt.js":     "bootstrap",
		"style.css":    "body{}",
		"wasm_exec.js": "go shim",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	manifest := assets.NewManifest()
	if err := fingerprintDir(dir, manifest); err != nil {
		t.Fatalf("fingerprintDir: %v", err)
	}

	for _, name := range []string{"app.wasm", "veldt.js", "style.css"} {
		hashed := manifest.Resolve(name)
		if hashed == name {
			t.Errorf("%s was not fingerprinted", name)
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, hashed))
		if err != nil {
			t.Errorf("hashed file %s missing: %v", hashed, err)
			continue
		}
		if string(data) != files[name] {
			t.Errorf("%s content = %q, want %q", hashed, data, files[name])
		}
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("original %s still present", name)
		}
	}

	// The shim loads before the manifest exists, so it keeps its name.
	if manifest.Has("wasm_exec.js") {
		t.Error("wasm_exec.js should not be in the manifest")
	}
	if _, err := os.Stat(filepath.Join(dir, "wasm_exec.js")); err != nil {
		t.Errorf("wasm_exec.js was renamed: %v", err)
	}
}

func TestFingerprintDirNested(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "fonts")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "mono.woff2"), []byte("font"), 0o644); err != nil {
		t.Fatal(err)
	}

	manifest := assets.NewManifest()
	if err := fingerprintDir(dir, manifest); err != nil {
		t.Fatalf("fingerprintDir: %v", err)
	}

	hashed := manifest.Resolve("fonts/mono.woff2")
	if hashed == "fonts/mono.woff2" {
		t.Fatal("nested asset not fingerprinted")
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(hashed))); err != nil {
		t.Errorf("hashed nested file missing: %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "out", "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("dst content = %q", data)
	}
}

func TestWorkerTarget(t *testing.T) {
	tests := []struct {
		name       string
		cfgTarget  string
		optTarget  string
		wantOutput string
		wantEnv    []string
	}{
		{"native default", "", "", "worker", []string{"CGO_ENABLED=0"}},
		{"native explicit", config.TargetNative, "", "worker", []string{"CGO_ENABLED=0"}},
		{"worker-wasm from config", config.TargetWorkerWasm, "", "worker.wasm", []string{"GOOS=js", "GOARCH=wasm"}},
		{"option overrides config", config.TargetWorkerWasm, config.TargetNative, "worker", []string{"CGO_ENABLED=0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Name = "app"
			cfg.Build.Target = tt.cfgTarget

			b := New(cfg, Options{Target: tt.optTarget})
			if got := b.workerOutput(); got != tt.wantOutput {
				t.Errorf("workerOutput = %q, want %q", got, tt.wantOutput)
			}
			if got := b.workerEnv(); !reflect.DeepEqual(got, tt.wantEnv) {
				t.Errorf("workerEnv = %v, want %v", got, tt.wantEnv)
			}
		})
	}
}
