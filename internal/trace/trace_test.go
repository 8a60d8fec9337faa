package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"off", LevelOff, false},
		{"ERROR", LevelError, false},
		{"phase", LevelPhase, false},
		{"section", LevelSection, false},
		{"detail", LevelSection, false},
		{"debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeSection) {
		t.Errorf("phase level should not emit section scope")
	}
	if !LevelSection.ShouldEmit(ScopeSection) || LevelSection.ShouldEmit(ScopeHost) {
		t.Errorf("section level boundaries wrong")
	}
	if !LevelDebug.ShouldEmit(ScopeHost) {
		t.Errorf("debug should emit everything")
	}
	if LevelOff.ShouldEmit(ScopeCommand) || LevelError.ShouldEmit(ScopeCommand) {
		t.Errorf("off and error levels should not stream")
	}
}

func TestStreamTracer_Text(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePhase, "segment", 0)
	inner := Begin(tr, ScopeSection, "compile @init", span.ID())
	inner.End("")
	span.WithExtra("blocks", "2").WithExtra("bytes", "40").End("ok")

	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected begin and end only, got:\n%s", out)
	}
	if !strings.Contains(out, "→ segment") || !strings.Contains(out, "← segment (ok) {blocks=2, bytes=40}") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if inner.ID() != 0 {
		t.Errorf("filtered span should be inert")
	}
}

func TestStreamTracer_Chrome(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	Begin(tr, ScopeCommand, "run", 0).End("")
	Point(tr, ScopeHost, "printf", "hello", 0)
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[2]["ph"] != "i" {
		t.Errorf("unexpected phases: %v", doc.TraceEvents)
	}
	Begin(tr, ScopeCommand, "late", 0)
	if !strings.HasSuffix(buf.String(), "]}\n") {
		t.Errorf("events written after close")
	}
}

func TestRingTracer_Wraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(r, ScopeCommand, name, "", 0)
	}
	events := r.Snapshot()
	if len(events) != 3 || events[0].Name != "b" || events[2].Name != "d" {
		t.Errorf("unexpected snapshot %+v", events)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 || !strings.Contains(buf.String(), `"name":"d"`) {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}

func TestNew_ErrorLevelRecordsInRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	ring, ok := tr.(*RingTracer)
	if !ok {
		t.Fatalf("expected ring tracer, got %T", tr)
	}
	Begin(tr, ScopeHost, "printf", 0).End("")
	if len(ring.Snapshot()) != 2 {
		t.Errorf("error level ring should record all scopes")
	}
}

func TestNew_Off(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Errorf("expected disabled tracer, got %v, %v", tr, err)
	}
}

func TestMultiTracer_Ring(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("expected multi tracer with ring, got %T", tr)
	}
	Begin(tr, ScopePhase, "segment", 0).End("")
	if len(m.Ring().Snapshot()) != 2 || strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("events not fanned out")
	}
}

func TestContextPropagation(t *testing.T) {
	r := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != r {
		t.Fatalf("tracer not attached")
	}
	ctx, outer := Start(ctx, ScopePhase, "outer")
	_, inner := Start(ctx, ScopeSection, "inner")
	inner.End("")
	outer.End("")

	events := r.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].Name != "inner" || events[1].ParentID != outer.ID() {
		t.Errorf("inner span not parented: %+v", events[1])
	}
	if FromContext(context.Background()) != Nop {
		t.Errorf("empty context should yield Nop")
	}
}

func TestHeartbeat_NilSafe(t *testing.T) {
	var h *Heartbeat
	h.Stop()
	if StartHeartbeat(Nop, 0) != nil {
		t.Errorf("disabled tracer should not start a heartbeat")
	}
	hb := StartHeartbeat(NewRingTracer(4, LevelDebug), 1000000)
	hb.Stop()
	hb.Stop()
}
