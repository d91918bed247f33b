package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lowerjs/internal/modules"
)

// execute runs the CLI with fresh flag values and captured output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestBuildFileToStdout(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.mjs": "import { x } from \"./b\";\nexport const y = x + 1;\n",
	})
	stdout, stderr, err := execute(t, "build", "--ui=off", filepath.Join(root, "a.mjs"))
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	for _, want := range []string{`"use strict";`, `require("./b")`, "exports.y"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output lacks %q:\n%s", want, stdout)
		}
	}
}

func TestBuildDirWithManifest(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"lowerjs.toml": "[module]\nformat = \"amd\"\n\n[build]\nout_dir = \"out\"\n",
		"src/a.js":     "export default 1;\n",
		"src/b.mjs":    "import a from \"./a\";\nexport const b = a;\n",
	})
	_, stderr, err := execute(t, "build", "--ui=off", "--quiet", root)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	for _, name := range []string{"out/src/a.js", "out/src/b.js"} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "define(") {
			t.Errorf("%s is not an AMD module:\n%s", name, data)
		}
	}
}

func TestBuildReportsSyntaxErrors(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"ok.js":  "export const a = 1;\n",
		"bad.js": "export const = ;\n",
	})
	_, stderr, err := execute(t, "build", "--ui=off", "--color=off", root)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "bad.js:1:") || !strings.Contains(stderr, "ERROR SYN") {
		t.Errorf("stderr:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(root, "dist", "ok.js")); err != nil {
		t.Errorf("the valid file was not written: %v", err)
	}

	_, stderr, _ = execute(t, "--diag-format=short", "build", "--ui=off", "--quiet", root)
	if lines := strings.Split(strings.TrimSpace(stderr), "\n"); !strings.HasPrefix(lines[0], "error SYN") || !strings.Contains(lines[0], "bad.js:1:") {
		t.Errorf("short diagnostics:\n%s", stderr)
	}
}

func TestConfigAppliesFlags(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"lowerjs.yaml": "module:\n  strict_mode: false\nbuild:\n  jobs: 3\n",
	})
	stdout, stderr, err := execute(t, "config", "--output=json", "--format=amd", "--lazy=a, b", "--strict", root)
	if err != nil {
		t.Fatalf("config: %v\n%s", err, stderr)
	}
	var got struct {
		Format string         `json:"format"`
		Module modules.Config `json:"module"`
		Build  struct {
			Jobs int
		} `json:"build"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("%v\n%s", err, stdout)
	}
	if got.Format != "amd" || !got.Module.Strict || got.Module.StrictMode || got.Build.Jobs != 3 {
		t.Errorf("config = %+v", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.Module.Lazy.List); diff != "" {
		t.Errorf("lazy (-want +got):\n%s", diff)
	}
}

func TestParseLazy(t *testing.T) {
	tests := []struct {
		in   string
		want modules.Lazy
	}{
		{"true", modules.Lazy{All: true}},
		{"false", modules.Lazy{}},
		{"", modules.Lazy{}},
		{"lib, ./x", modules.LazyList("lib", "./x")},
		{",", modules.LazyList()},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseLazy(tt.in)); diff != "" {
			t.Errorf("parseLazy(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseJSONFeedsBuild(t *testing.T) {
	root := writeFiles(t, map[string]string{"m.js": "export function f() { return 1; }\n"})
	tree, stderr, err := execute(t, "parse", "--format=json", filepath.Join(root, "m.js"))
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, stderr)
	}
	jsonPath := filepath.Join(root, "m.js.json")
	if err := os.WriteFile(jsonPath, []byte(tree), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, err := execute(t, "build", "--from-json", jsonPath)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "exports.f = f") && !strings.Contains(stdout, "function f()") {
		t.Errorf("output:\n%s", stdout)
	}
}

func TestBuildTrace(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.js": "export const a = 1;\n"})
	_, stderr, err := execute(t, "--trace=-", "--trace-format=ndjson", "build", filepath.Join(root, "a.js"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var ev struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		if ev.Kind == "begin" {
			names = append(names, ev.Name)
		}
	}
	if len(names) == 0 || names[0] != "build" {
		t.Errorf("span names = %v", names)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format=json", "--hash")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "lowerjs" || payload.GitCommit == "" || payload.BuildDate != "" {
		t.Errorf("payload = %+v", payload)
	}
	if _, _, err := execute(t, "version", "--format=xml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestCacheCommands(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.js": "export const a = 1;\n"})
	db := filepath.Join(t.TempDir(), "cache.db")
	if _, stderr, err := execute(t, "build", "--cache", "--cache-path", db, filepath.Join(root, "a.js")); err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	stdout, _, err := execute(t, "cache", "stats", "--cache-path", db)
	if err != nil || stdout != "1 entries\n" {
		t.Fatalf("stats = %q, %v", stdout, err)
	}
	if _, _, err := execute(t, "cache", "clear", "--cache-path", db); err != nil {
		t.Fatal(err)
	}
	if stdout, _, _ = execute(t, "cache", "stats", "--cache-path", db); stdout != "0 entries\n" {
		t.Errorf("after clear: %q", stdout)
	}
}

func TestBuildProfiles(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.js": "export const a = 1;\n"})
	cpu := filepath.Join(t.TempDir(), "cpu.out")
	if _, stderr, err := execute(t, "--cpu-profile", cpu, "build", filepath.Join(root, "a.js")); err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	if st, err := os.Stat(cpu); err != nil || st.Size() == 0 {
		t.Errorf("cpu profile: %v", err)
	}
}

func TestParseProgressView(t *testing.T) {
	tests := map[string]progressView{
		"":       progressAuto,
		"Auto":   progressAuto,
		"on":     progressAlways,
		"always": progressAlways,
		" off ":  progressNever,
		"never":  progressNever,
	}
	for in, want := range tests {
		got, err := parseProgressView(in)
		if err != nil || got != want {
			t.Errorf("parseProgressView(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseProgressView("sometimes"); err == nil {
		t.Errorf("parseProgressView accepted an unknown mode")
	}
}

func TestBuildProgressViewAuto(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.js": "export const a = 1;\n",
		"b.js": "export const b = 2;\n",
	})
	_, stderr, err := execute(t, "build", root)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "lowered 2 of 2 files") {
		t.Errorf("captured output should build without the progress view, stderr:\n%s", stderr)
	}

	_, _, err = execute(t, "build", "--ui=sometimes", root)
	if err == nil || !strings.Contains(err.Error(), "invalid --ui value") {
		t.Errorf("build --ui=sometimes: %v", err)
	}
}
