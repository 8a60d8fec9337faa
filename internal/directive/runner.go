package directive

import (
	"fmt"
	"io"
)

// RunnerConfig configures section execution.
type RunnerConfig struct {
	// Filter limits Run to specific sections (empty = all).
	Filter []string

	// Output is where to write execution status; nil disables it.
	Output io.Writer

	// Repeat runs every selected entry this many times (<= 0 means once).
	Repeat int
}

// RunResult contains the outcome of Run.
type RunResult struct {
	Total    int
	Executed int
	Skipped  int
}

// Runner dispatches execution requests to registry entries.
type Runner[H any] struct {
	config   RunnerConfig
	registry *Registry[H]
	exec     func(H, Entry)
	runs     int
}

// NewRunner creates a runner that invokes exec for each execution.
func NewRunner[H any](registry *Registry[H], exec func(H, Entry), config RunnerConfig) *Runner[H] {
	return &Runner[H]{
		config:   config,
		registry: registry,
		exec:     exec,
	}
}

// ExecIndex executes the handle at slot i. It reports false, without
// executing anything, when the slot does not exist.
func (r *Runner[H]) ExecIndex(i int) bool {
	h, e, ok := r.registry.ByIndex(i)
	if !ok {
		return false
	}
	r.invoke(h, e)
	return true
}

// ExecName executes the latest handle compiled for section.
func (r *Runner[H]) ExecName(section string) bool {
	h, e, ok := r.registry.ByName(section)
	if !ok {
		return false
	}
	r.invoke(h, e)
	return true
}

// Executions counts handle invocations so far.
func (r *Runner[H]) Executions() int { return r.runs }

func (r *Runner[H]) invoke(h H, e Entry) {
	r.runs++
	r.exec(h, e)
}

// Run executes every entry in slot order, skipping those filtered out or
// shadowed by a later occurrence of the same section.
func (r *Runner[H]) Run() RunResult {
	allowed := make(map[string]bool, len(r.config.Filter))
	for _, name := range r.config.Filter {
		allowed[name] = true
	}
	shadowed := make(map[int]bool)
	for _, e := range r.registry.Shadowed() {
		shadowed[e.Slot] = true
	}
	repeat := max(r.config.Repeat, 1)

	entries := r.registry.Entries()
	result := RunResult{Total: len(entries)}
	for i := range entries {
		e := &entries[i]
		if (len(allowed) > 0 && !allowed[e.Section]) || shadowed[e.Slot] {
			r.printf("Running section: %s (%s) ... SKIPPED\n", e.Location(), e.Section)
			result.Skipped++
			continue
		}
		for range repeat {
			r.ExecIndex(e.Slot)
		}
		r.printf("Running section: %s (%s) ... ok\n", e.Location(), e.Section)
		result.Executed++
	}

	r.printf("\nSection execution summary: %d total, %d executed, %d skipped\n",
		result.Total, result.Executed, result.Skipped)
	return result
}

func (r *Runner[H]) printf(format string, args ...any) {
	if r.config.Output != nil {
		fmt.Fprintf(r.config.Output, format, args...)
	}
}
