package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"easel/internal/pipeline"
)

func TestProgressModel_Events(t *testing.T) {
	events := make(chan pipeline.Event)
	m := newProgressModel("check", []string{"a.eel", "b.eel"}, events)

	m.Update(eventMsg{File: "a.eel", Status: pipeline.StatusWorking})
	if got := m.percent(); got != 0.25 {
		t.Errorf("percent = %v, want 0.25", got)
	}
	m.Update(eventMsg{File: "a.eel", Status: pipeline.StatusDone})
	m.Update(eventMsg{File: "b.eel", Status: pipeline.StatusError})
	m.Update(eventMsg{File: "unknown.eel", Status: pipeline.StatusError})
	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}
	finished, failed := m.counts()
	if finished != 2 || failed != 1 {
		t.Errorf("counts = %d/%d, want 2/1", finished, failed)
	}

	view := m.View()
	for _, want := range []string{"check (2/2, 1 failed)", "ok", "error", "a.eel", "b.eel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("doneMsg should finish the model")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("doneMsg should quit the program")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: ") {
		t.Errorf("finished view:\n%s", m.View())
	}
}

func TestListenForEvent_Closed(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := newProgressModel("check", []string{"a.eel"}, events)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Error("closed channel should yield doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.eel", 20, "short.eel"},
		{"a/very/long/path.eel", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"日本語.eel", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
