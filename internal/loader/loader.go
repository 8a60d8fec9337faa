package loader

import (
	"io"
	"os"

	"easel/internal/directive"
	"easel/internal/source"
	"easel/internal/trace"
	"easel/internal/vm"
)

// Machine is the part of the VM the loader drives.
type Machine interface {
	Compile(src string, lineOffset int, flags vm.Flags) (*vm.Handle, error)
	Execute(h *vm.Handle)
	Free(h *vm.Handle) error
	RefreshStrings()
	RegisterVar(name string) *float64
	RegisterFunc(name string, minArgs int, fn vm.HostFunc)
	SetContext(ctx any)
}

// Options configures a Loader. Only Sections is required.
type Options struct {
	// Sections is the declaration set, e.g. {"@init", "@block"}.
	Sections []string
	// Filename is compiled by CompileConfigured.
	Filename string
	// Context is forwarded to host functions.
	Context any
	// Output receives printf output; nil selects os.Stdout.
	Output io.Writer
	// VM is the machine to compile into; nil creates a private one.
	VM *vm.VM
	// Tracer receives exec spans; compile spans use the tracer of the
	// context passed to the compile call.
	Tracer trace.Tracer
}

// Loader owns a VM, its compiled sections and their handles.
type Loader struct {
	sections []string
	filename string
	output   io.Writer
	tracer   trace.Tracer

	vm       *vm.VM
	machine  Machine
	registry *directive.Registry[*vm.Handle]
	runner   *directive.Runner[*vm.Handle]
	files    *source.FileSet
}

// New creates a loader and registers printf on its VM.
func New(opts Options) *Loader {
	m := opts.VM
	if m == nil {
		m = vm.New(vm.Options{})
	}
	l := newLoader(opts, m)
	l.vm = m
	return l
}

func newLoader(opts Options, m Machine) *Loader {
	l := &Loader{
		sections: append([]string(nil), opts.Sections...),
		filename: opts.Filename,
		output:   opts.Output,
		tracer:   opts.Tracer,
		machine:  m,
		registry: directive.NewRegistry[*vm.Handle](len(opts.Sections)),
		files:    source.NewFileSet(),
	}
	if l.output == nil {
		l.output = os.Stdout
	}
	if l.tracer == nil {
		l.tracer = trace.Nop
	}
	l.runner = directive.NewRunner(l.registry, l.execute, directive.RunnerConfig{})
	if opts.Context != nil {
		m.SetContext(opts.Context)
	}
	m.RegisterFunc("printf", 1, l.printf)
	return l
}

// VM returns the machine the loader compiles into. It is nil for loaders
// built around another Machine.
func (l *Loader) VM() *vm.VM { return l.vm }

// Sections returns a copy of the declaration set.
func (l *Loader) Sections() []string { return append([]string(nil), l.sections...) }

// Filename returns the configured script path.
func (l *Loader) Filename() string { return l.filename }

// Files returns the scripts loaded so far.
func (l *Loader) Files() *source.FileSet { return l.files }

// RegisterVar exposes a named variable to every section.
func (l *Loader) RegisterVar(name string) *float64 { return l.machine.RegisterVar(name) }

// RegisterFunc exposes a host function to sections compiled afterwards.
func (l *Loader) RegisterFunc(name string, minArgs int, fn vm.HostFunc) {
	l.machine.RegisterFunc(name, minArgs, fn)
}

// SetContext replaces the value handed to host functions.
func (l *Loader) SetContext(ctx any) { l.machine.SetContext(ctx) }

// Len returns the number of compiled entries, reopened sections included.
func (l *Loader) Len() int { return l.registry.Len() }

// Entries lists compiled entries in slot order.
func (l *Loader) Entries() []directive.Entry { return l.registry.Entries() }

// Shadowed lists entries hidden from ExecName by a later reopen.
func (l *Loader) Shadowed() []directive.Entry { return l.registry.Shadowed() }

// Close frees every handle exactly once. Further calls are no-ops until new
// sections are compiled.
func (l *Loader) Close() error {
	return l.registry.ReleaseAll(l.machine.Free)
}
