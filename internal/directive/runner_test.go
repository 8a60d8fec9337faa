package directive

import (
	"bytes"
	"strings"
	"testing"
)

func newTestRunner(config RunnerConfig) (*Registry[*fakeHandle], *Runner[*fakeHandle], *[]int) {
	r := NewRegistry[*fakeHandle](3)
	var order []int
	runner := NewRunner(r, func(h *fakeHandle, _ Entry) {
		order = append(order, h.id)
	}, config)
	return r, runner, &order
}

func TestRunner_ExecMissing(t *testing.T) {
	_, runner, order := newTestRunner(RunnerConfig{})

	if runner.ExecIndex(0) {
		t.Errorf("ExecIndex on empty registry should fail")
	}
	if runner.ExecName("@code") {
		t.Errorf("ExecName on empty registry should fail")
	}
	if len(*order) != 0 || runner.Executions() != 0 {
		t.Errorf("failed lookups must not execute anything")
	}
}

func TestRunner_ExecIndexAndName(t *testing.T) {
	r, runner, order := newTestRunner(RunnerConfig{})
	r.Add(Entry{Section: "@code"}, &fakeHandle{id: 10})
	r.Add(Entry{Section: "@numpty", Decl: 1}, &fakeHandle{id: 20})

	if !runner.ExecIndex(0) {
		t.Fatalf("ExecIndex(0) failed")
	}
	if !runner.ExecName("@numpty") {
		t.Fatalf("ExecName(@numpty) failed")
	}
	if got := *order; len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("execution order = %v", got)
	}
	if runner.Executions() != 2 {
		t.Errorf("expected exactly one execution per call, got %d", runner.Executions())
	}
}

func TestRunner_Run_Empty(t *testing.T) {
	var buf bytes.Buffer
	_, runner, _ := newTestRunner(RunnerConfig{Output: &buf})

	result := runner.Run()
	if result.Total != 0 || result.Executed != 0 || result.Skipped != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if !strings.Contains(buf.String(), "Section execution summary") {
		t.Errorf("expected summary in output, got: %s", buf.String())
	}
}

func TestRunner_Run_FilterShadowRepeat(t *testing.T) {
	var buf bytes.Buffer
	r, runner, order := newTestRunner(RunnerConfig{
		Filter: []string{"@a", "@b"},
		Output: &buf,
		Repeat: 2,
	})
	r.Add(Entry{Section: "@a", SourceFile: "x.eel"}, &fakeHandle{id: 1})
	r.Add(Entry{Section: "@b", Decl: 1, SourceFile: "x.eel"}, &fakeHandle{id: 2})
	r.Add(Entry{Section: "@a", SourceFile: "x.eel"}, &fakeHandle{id: 3})
	r.Add(Entry{Section: "@c", Decl: 2, SourceFile: "x.eel"}, &fakeHandle{id: 4})

	result := runner.Run()
	if result.Total != 4 || result.Executed != 2 || result.Skipped != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	want := []int{2, 2, 3, 3}
	got := *order
	if len(got) != len(want) {
		t.Fatalf("executions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("executions = %v, want %v", got, want)
			break
		}
	}

	output := buf.String()
	if !strings.Contains(output, "x.eel#0 (@a) ... SKIPPED") {
		t.Errorf("shadowed entry should be skipped, got: %s", output)
	}
	if !strings.Contains(output, "x.eel#2 (@c) ... SKIPPED") {
		t.Errorf("filtered entry should be skipped, got: %s", output)
	}
	if !strings.Contains(output, "x.eel#3 (@a) ... ok") {
		t.Errorf("expected ok line, got: %s", output)
	}
}

func TestRunner_NilOutput(t *testing.T) {
	r, runner, order := newTestRunner(RunnerConfig{})
	r.Add(Entry{Section: "@a"}, &fakeHandle{id: 1})
	if res := runner.Run(); res.Executed != 1 || len(*order) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}
