package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamTracerPhaseLevel(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf, Format: FormatNDJSON})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)
	ctx, build := Start(ctx, ScopeDriver, "build")
	_, lower := Start(ctx, ScopePass, "lower")
	lower.WithExtra("file", "a.js").End("")
	_, mod := Start(ctx, ScopeModule, "module:a.js")
	mod.End("")
	build.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), buf.String())
	}
	var events []jsonEvent
	for _, line := range lines {
		var ev jsonEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	if events[1].Name != "lower" || events[1].ParentID != events[0].SpanID {
		t.Errorf("lower span not nested under build: %+v", events[1])
	}
	if events[2].Kind != "end" || events[2].Extra["file"] != "a.js" || events[2].Extra["dur"] == "" {
		t.Errorf("unexpected end event %+v", events[2])
	}
	if events[3].Detail != "ok" || events[3].Seq <= events[0].Seq {
		t.Errorf("unexpected build end %+v", events[3])
	}
}

func TestNopWhenOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr != Nop || tr.Enabled() {
		t.Fatalf("expected Nop, got %T", tr)
	}
	s := Begin(tr, ScopeDriver, "build", 0)
	if s.ID() != 0 || s.End("") != 0 {
		t.Errorf("span on Nop should be inert")
	}
	if FromContext(context.Background()) != Nop {
		t.Errorf("empty context should carry Nop")
	}
}

func TestRingKeepsMostRecent(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeModule, Name: name})
	}
	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("snapshot = %q, want cde", got)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Errorf("dump wrote %d lines", n)
	}
}

func TestErrorLevelUsesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "parse", 0).End("")
	if buf.Len() != 0 {
		t.Errorf("error level wrote events eagerly: %q", buf.String())
	}
	if r := RingOf(tr); r == nil || len(r.Snapshot()) != 2 {
		t.Errorf("ring did not record the span")
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatal(err)
	}
	Point(WithTracer(context.Background(), tr), ScopeModule, "cache", "hit")
	if !strings.Contains(buf.String(), "• cache (hit)") {
		t.Errorf("stream output %q", buf.String())
	}
	if r := RingOf(tr); r == nil || len(r.Snapshot()) != 1 {
		t.Errorf("ring missed the event")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "phase", "Detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
	if got := formatFor(FormatAuto, "out/trace.ndjson"); got != FormatNDJSON {
		t.Errorf("auto format for .ndjson = %v", got)
	}
	if got := formatFor(FormatAuto, "-"); got != FormatText {
		t.Errorf("auto format for stderr = %v", got)
	}
}
