// Package observ measures the wall time of loader phases for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
	open  bool
}

// Timer collects phases in the order they were started. Safe for
// concurrent use; a nil Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Track starts a phase and returns the function that ends it. Only the
// first call of the returned function counts.
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now(), open: true})
	t.mu.Unlock()

	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		p := &t.phases[idx]
		if !p.open {
			return
		}
		p.open = false
		p.dur = time.Since(p.start)
		p.note = note
	}
}

// Len returns the number of started phases.
func (t *Timer) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.phases)
}

// PhaseReport is one finished phase. Share is its part of the total in
// percent.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Share      float64 `json:"share"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists finished phases; phases still running are left out.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var report Report
	var total time.Duration
	for _, p := range t.phases {
		if p.open {
			continue
		}
		total += p.dur
		report.Phases = append(report.Phases, PhaseReport{
			Name:       p.name,
			DurationMS: millis(p.dur),
			Note:       p.note,
		})
	}
	report.TotalMS = millis(total)
	if report.TotalMS > 0 {
		for i := range report.Phases {
			report.Phases[i].Share = 100 * report.Phases[i].DurationMS / report.TotalMS
		}
	}
	return report
}

// Summary renders the report as a table. Names are padded by display width
// so non-ASCII section names line up.
func (t *Timer) Summary() string {
	report := t.Report()
	width := runewidth.StringWidth("total")
	for _, p := range report.Phases {
		width = max(width, runewidth.StringWidth(p.Name))
	}

	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %s %9.3f ms %5.1f%%", runewidth.FillRight(p.Name, width), p.DurationMS, p.Share)
		if p.Note != "" {
			sb.WriteString("  (" + p.Note + ")")
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %s %9.3f ms %5.1f%%\n", runewidth.FillRight("total", width), report.TotalMS, 100.0)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
