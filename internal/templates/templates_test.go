package templates

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	for _, name := range []string{"default", "minimal"} {
		tmpl, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if tmpl.Name != name {
			t.Errorf("Name = %q, want %q", tmpl.Name, name)
		}
		if len(tmpl.Files) == 0 {
			t.Errorf("template %q has no files", name)
		}
	}

	if _, err := Get("nonexistent"); err == nil {
		t.Error("Get of unknown template succeeded")
	}
}

func TestList(t *testing.T) {
	names := List()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "default" || names[1] != "minimal" {
		t.Errorf("List = %v, want [default minimal]", names)
	}
}

func TestCreate(t *testing.T) {
	tmpl, err := Get("default")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	cfg := Config{
		ProjectName: "demo",
		ModulePath:  "example.com/demo",
		Description: "a demo site",
	}
	if err := tmpl.Create(dir, cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Every declared file lands on disk with the variables expanded.
	for rel := range tmpl.Files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing %s: %v", rel, err)
			continue
		}
		if strings.Contains(string(data), "{{.ProjectName}}") {
			t.Errorf("%s contains unexpanded template syntax", rel)
		}
	}

	veldtJSON, err := os.ReadFile(filepath.Join(dir, "veldt.json"))
	if err != nil {
		t.Fatalf("veldt.json missing: %v", err)
	}
	if !strings.Contains(string(veldtJSON), `"demo"`) {
		t.Errorf("veldt.json does not name the project:\n%s", veldtJSON)
	}

	mainGo, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatalf("main.go missing: %v", err)
	}
	if !strings.Contains(string(mainGo), "example.com/demo") {
		t.Errorf("main.go does not import the module path:\n%s", mainGo)
	}
}

func TestCreateMinimal(t *testing.T) {
	tmpl, err := Get("minimal")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := tmpl.Create(dir, Config{ProjectName: "tiny", ModulePath: "example.com/tiny"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "veldt.json")); err != nil {
		t.Errorf("veldt.json missing: %v", err)
	}
}
