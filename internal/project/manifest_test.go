package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/modules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lowerjs.yaml"), "module:\n  format: amd\n")
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v", path, ok, err)
	}
	if path != filepath.Join(root, "lowerjs.yaml") {
		t.Errorf("found %s", path)
	}
	dir, ok, err := FindRoot(nested)
	if err != nil || !ok || dir != root {
		t.Errorf("FindRoot = %q, %v, %v", dir, ok, err)
	}

	writeFile(t, filepath.Join(root, "lowerjs.toml"), "")
	if path, _, _ := Find(root); filepath.Base(path) != "lowerjs.toml" {
		t.Errorf("toml should win over yaml, got %s", path)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lowerjs.toml")
	writeFile(t, path, `
[module]
format = "amd"
strict = true
lazy = ["lodash", "react"]
module_id = "app"

[build]
out_dir = "out"
jobs = 4
cache = true
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := ModuleSection{
		Format: "amd",
		Config: modules.Config{
			Strict:     true,
			StrictMode: true,
			Lazy:       modules.LazyList("lodash", "react"),
			ModuleID:   "app",
		},
	}
	if diff := cmp.Diff(want, m.Module); diff != "" {
		t.Errorf("[module] mismatch (-want +got):\n%s", diff)
	}
	if m.Build.Jobs != 4 || !m.Build.Cache || m.OutDir() != filepath.Join(filepath.Dir(path), "out") {
		t.Errorf("unexpected [build] %+v (out dir %s)", m.Build, m.OutDir())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lowerjs.yml")
	writeFile(t, path, `
module:
  strict_mode: false
  lazy: true
  no_interop: true
build:
  resolve: true
`)
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := m.Module.Config
	if cfg.StrictMode || !cfg.Lazy.All || !cfg.NoInterop {
		t.Errorf("unexpected config %+v", cfg)
	}
	if m.Module.Format != "commonjs" || m.Build.OutDir != "dist" || !m.Build.Resolve {
		t.Errorf("defaults not kept: %+v", m)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, file, content, want string
	}{
		{"unknown toml key", "lowerjs.toml", "[module]\nlazzy = true\n", "unknown keys"},
		{"unknown yaml key", "lowerjs.yaml", "build:\n  outdir: x\n", "field outdir not found"},
		{"bad format", "lowerjs.toml", "[module]\nformat = \"umd\"\n", "unknown format"},
		{"bad lazy", "lowerjs.toml", "[module]\nlazy = 3\n", "lazy"},
		{"negative jobs", "lowerjs.yaml", "build:\n  jobs: -1\n", "jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
	path := filepath.Join(t.TempDir(), "lowerjs.toml")
	writeFile(t, path, "[module]\nnope = 1\n")
	if _, err := Load(path); !errors.Is(err, ErrUnknownKeys) {
		t.Errorf("expected ErrUnknownKeys, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	m := Default()
	m.Module.Format = "amd"
	var b strings.Builder
	if err := m.Encode(&b); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[module]", `format = "amd"`, "strict_mode = true", "[build]"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("encoded manifest missing %q:\n%s", want, b.String())
		}
	}
}

func TestDigest(t *testing.T) {
	a, b := HashBytes([]byte("a")), HashBytes([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Error("Combine ignores order")
	}
	if Combine(a, b) != Combine(a, b) || Combine(a).IsZero() {
		t.Error("Combine is not deterministic")
	}
	if len(a.String()) != 64 {
		t.Errorf("hex digest %q", a.String())
	}
}
