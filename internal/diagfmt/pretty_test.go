package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"lowerjs/internal/diag"
	"lowerjs/internal/source"
)

func oneDiag(path, content string, start, end uint32) (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(content))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SynExpectExpression, source.Span{File: id, Start: start, End: end}, "Expected expression").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "declaration starts here")
	bag.Add(d)
	return fs, bag
}

func TestPrettyCaret(t *testing.T) {
	fs, bag := oneDiag("src/main.js", "// head\nlet x = ;\n// tail\n", 16, 17)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	want := `src/main.js:2:9: ERROR SYN2004: Expected expression
1 | // head
2 | let x = ;
  |         ^
3 | // tail
  note: src/main.js:1:1: declaration starts here
1 | // head
  | ^~~
`
	if got := buf.String(); got != want {
		t.Errorf("Pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	content := "let s = \"日本\" + ;\n"
	at := uint32(strings.Index(content, ";"))
	fs, bag := oneDiag("wide.js", content, at, at+1)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	// the two CJK runes take four columns but six bytes
	caret := strings.Index(lines[2], "^")
	source := strings.Index(lines[1], "let")
	if got := caret - source; got != 17 {
		t.Errorf("caret at column %d, want 17:\n%s", got, buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := oneDiag("a.js", "let x = ;", 8, 9)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output has escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape codes")
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		base string
		path string
		want string
	}{
		{PathModeRelative, "/home/user/project", "/home/user/project/src/a.js", "src/a.js"},
		{PathModeRelative, "/elsewhere/deep", "/home/a.js", "/home/a.js"},
		{PathModeBasename, "", "/home/user/project/src/a.js", "a.js"},
		{PathModeAuto, "", "src/a.js", "src/a.js"},
		{PathModeAuto, "", "/very/long/absolute/path/to/some/nested/directory/file.js", "file.js"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
			t.Errorf("formatPath(%q, %d) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	fs, bag := oneDiag("a.js", "let x = ;", 8, 9)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2004" || d.Severity != "ERROR" || d.Location.StartCol != 9 || len(d.Notes) != 1 {
		t.Errorf("diagnostic %+v", d)
	}

	empty := BuildOutput(nil, fs, JSONOpts{})
	if empty.Diagnostics == nil || empty.Count != 0 {
		t.Errorf("empty output %+v", empty)
	}
}
