package observ

import (
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTimer_Report(t *testing.T) {
	timer := NewTimer()
	end := timer.Track("segment")
	end("2 blocks")
	end("ignored")
	compile := timer.Track("compile @init")
	compile("")
	timer.Track("still running")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 finished phases, got %d", len(report.Phases))
	}
	if timer.Len() != 3 {
		t.Errorf("Len() = %d, want 3", timer.Len())
	}
	share := report.Phases[0].Share + report.Phases[1].Share
	if report.TotalMS > 0 && (share < 99.9 || share > 100.1) {
		t.Errorf("shares add up to %f", share)
	}
	if report.Phases[0].Note != "2 blocks" {
		t.Errorf("note lost: %+v", report.Phases[0])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total smaller than a phase: %+v", report)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Errorf("empty timer should report no phases")
	}
}

func TestTimer_SummaryAlignsWideNames(t *testing.T) {
	timer := NewTimer()
	timer.Track("exec @début")("")
	timer.Track("exec @日本")("")

	lines := strings.Split(strings.TrimSuffix(timer.Summary(), "\n"), "\n")
	if len(lines) != 4 || lines[0] != "timings:" {
		t.Fatalf("unexpected summary:\n%s", timer.Summary())
	}
	want := runewidth.StringWidth(lines[1])
	for _, line := range lines[2:] {
		if got := runewidth.StringWidth(line); got != want {
			t.Errorf("line %q is %d cells wide, want %d", line, got, want)
		}
	}
	if !strings.Contains(lines[3], "total") {
		t.Errorf("missing total line: %q", lines[3])
	}
}

func TestTimer_NilTrack(t *testing.T) {
	var timer *Timer
	timer.Track("x")("ok")
	if timer.Len() != 0 || timer.Report().Phases != nil {
		t.Error("nil timer recorded a phase")
	}
}

func TestTimer_Concurrent(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Track("check")("")
		}()
	}
	wg.Wait()
	if timer.Len() != 16 {
		t.Errorf("expected 16 phases, got %d", timer.Len())
	}
}
