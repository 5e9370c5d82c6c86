package project

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "reforge.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const goodManifest = `
[package]
name = "demo"

[interact]
backend = "json"
args = ["src/a.rf", "src/b.rf"]
`

func TestLoadFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, goodManifest)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name = %q", m.Config.Package.Name)
	}
	if m.Config.Interact.Backend != "json" {
		t.Fatalf("backend = %q", m.Config.Interact.Backend)
	}

	want := []string{
		filepath.Join(root, "src", "a.rf"),
		filepath.Join(root, "src", "b.rf"),
	}
	if got := m.InteractArgs(); !slices.Equal(got, want) {
		t.Fatalf("InteractArgs = %v, want %v", got, want)
	}
}

func TestLoadAbsent(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("found a manifest in an empty tree")
	}
}

func TestLoadRejectsMissingPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\n")

	_, ok, err := Load(dir)
	if !ok {
		t.Fatal("manifest file not found")
	}
	if err == nil {
		t.Fatal("manifest without a package name parsed")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "not toml ][")

	if _, _, err := Load(dir); err == nil {
		t.Fatal("malformed manifest parsed")
	}
}
