package diag

import (
	"testing"

	"lowerjs/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("testdata/sample.js", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SynUnsupported,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: 99, Start: 0, End: 0}, Msg: "dropped: unknown file"},
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 testdata/sample.js:1:1 first line second\n" +
		"note SYN2001 testdata/sample.js:2:1 note line\n" +
		"warning SYN2012 testdata/sample.js:2:1 another"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	bag := NewBag(2)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 0, End: 1}

	r.Report(SynUnexpectedToken, SevError, sp, "x", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "x", nil)
	r.Report(SynUnsupported, SevWarning, sp, "y", nil)
	r.Report(SynExpectSemicolon, SevError, sp, "z", nil)

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected bag to report errors")
	}
	bag.Sort()
	if got := bag.Items()[0].Severity; got != SevError {
		t.Fatalf("errors must sort before warnings on the same span, got %s", got)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:       "LEX1004",
		SynUnexpectedToken: "SYN2001",
		IOLoadFileError:    "IO4001",
		ProjBadManifest:    "PRJ5001",
		UnknownCode:        "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: got %s, want %s", code, got, want)
		}
	}
}
