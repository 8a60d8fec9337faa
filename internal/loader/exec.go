package loader

import (
	"easel/internal/directive"
	"easel/internal/trace"
	"easel/internal/vm"
)

// ExecIndex runs the entry keyed i: the section declared at position i, or
// a reopening keyed past the declaration set. It reports false when nothing
// compiled under i.
func (l *Loader) ExecIndex(i int) bool {
	return l.runner.ExecIndex(i)
}

// ExecName runs the latest compiled occurrence of section.
func (l *Loader) ExecName(section string) bool {
	return l.runner.ExecName(section)
}

// Executions counts handles run through ExecIndex and ExecName.
func (l *Loader) Executions() int { return l.runner.Executions() }

// Run executes every reachable entry with the given runner settings.
func (l *Loader) Run(cfg directive.RunnerConfig) directive.RunResult {
	return directive.NewRunner(l.registry, l.execute, cfg).Run()
}

func (l *Loader) execute(h *vm.Handle, e directive.Entry) {
	span := trace.Begin(l.tracer, trace.ScopeSection, "exec "+e.Section, 0)
	l.machine.Execute(h)
	span.WithExtra("slot", e.Location()).End("")
}
