package vm

import (
	"errors"
	"strings"
	"sync"
)

// MaxLoop caps the iterations of a single loop() or while().
const MaxLoop = 1048576

var (
	ErrHandleFreed   = errors.New("vm: handle already freed")
	ErrForeignHandle = errors.New("vm: handle belongs to another machine")
	ErrNilHandle     = errors.New("vm: nil handle")
)

// Options configures a VM.
type Options struct {
	// Locker is entered around Compile, Execute, Free and RefreshStrings.
	Locker sync.Locker
	// MaxLoop overrides the iteration cap; values <= 0 select MaxLoop.
	MaxLoop int
	// Context is the initial host context, see SetContext.
	Context any
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// VM owns variables, host functions, the string table and compiled handles.
type VM struct {
	lock    sync.Locker
	maxLoop int
	ctx     any

	vars  map[string]*float64
	order []string
	funcs map[string]*hostEntry
	strs  stringTable

	pending []*Chunk
	nextID  uint64
	stats   Stats
	stack   []float64
}

// Stats counts handle lifecycle events.
type Stats struct {
	Compiled  int
	Failed    int
	Freed     int
	Refreshes int
}

// Live is the number of handles compiled and not yet freed.
func (s Stats) Live() int { return s.Compiled - s.Freed }

// Handle is a compiled block.
type Handle struct {
	id    uint64
	owner *VM
	chunk *Chunk
	freed bool
}

// ID is unique per VM and increases with every successful compile.
func (h *Handle) ID() uint64 { return h.id }

// Chunk exposes the compiled code, e.g. for disassembly.
func (h *Handle) Chunk() *Chunk { return h.chunk }

// Freed reports whether Free has been called on the handle.
func (h *Handle) Freed() bool { return h.freed }

// New creates a VM with no variables and no host functions.
func New(opts Options) *VM {
	m := &VM{
		lock:    opts.Locker,
		maxLoop: opts.MaxLoop,
		ctx:     opts.Context,
		vars:    make(map[string]*float64),
		funcs:   make(map[string]*hostEntry),
	}
	if m.lock == nil {
		m.lock = nopLocker{}
	}
	if m.maxLoop <= 0 || m.maxLoop > MaxLoop {
		m.maxLoop = MaxLoop
	}
	return m
}

func (m *VM) enter() { m.lock.Lock() }
func (m *VM) leave() { m.lock.Unlock() }

func (m *VM) slot(name string) *float64 {
	if p, ok := m.vars[name]; ok {
		return p
	}
	p := new(float64)
	m.vars[name] = p
	m.order = append(m.order, name)
	return p
}

// RegisterVar returns the storage of a variable, creating it at 0. The
// pointer stays valid for the life of the VM.
func (m *VM) RegisterVar(name string) *float64 {
	return m.slot(strings.ToLower(name))
}

// Var reads a variable.
func (m *VM) Var(name string) (float64, bool) {
	p, ok := m.vars[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	return *p, true
}

// SetVar writes a variable, creating it when needed.
func (m *VM) SetVar(name string, v float64) {
	*m.RegisterVar(name) = v
}

// VarNames lists variables in creation order.
func (m *VM) VarNames() []string {
	return append([]string(nil), m.order...)
}

// Vars snapshots all variables.
func (m *VM) Vars() map[string]float64 {
	out := make(map[string]float64, len(m.vars))
	for name, p := range m.vars {
		out[name] = *p
	}
	return out
}

// RegisterFunc makes fn callable from blocks compiled afterwards. A
// minArgs below one is treated as one.
func (m *VM) RegisterFunc(name string, minArgs int, fn HostFunc) {
	if minArgs < 1 {
		minArgs = 1
	}
	m.funcs[strings.ToLower(name)] = &hostEntry{minArgs: minArgs, fn: fn}
}

// SetContext attaches an arbitrary host value visible to host functions.
func (m *VM) SetContext(ctx any) { m.ctx = ctx }

// Context returns the value set by SetContext.
func (m *VM) Context() any { return m.ctx }

// Stats returns lifecycle counters.
func (m *VM) Stats() Stats { return m.stats }

// Compile parses and compiles src. lineOffset is added to error lines so
// they match the enclosing file.
func (m *VM) Compile(src string, lineOffset int, flags Flags) (*Handle, error) {
	m.enter()
	defer m.leave()

	root, perr := parse(src)
	if perr == nil {
		var chunk *Chunk
		chunk, perr = newCompiler(m, flags, lineOffset).compile(root)
		if perr == nil {
			m.pending = append(m.pending, chunk)
			m.nextID++
			m.stats.Compiled++
			return &Handle{id: m.nextID, owner: m, chunk: chunk}, nil
		}
	}
	m.stats.Failed++
	return nil, &CompileError{
		Line: lineOffset + perr.at.Line,
		Col:  perr.at.Col,
		Msg:  perr.msg,
	}
}

// Execute runs h. Nil and freed handles are ignored.
func (m *VM) Execute(h *Handle) {
	if h == nil || h.freed || h.owner != m {
		return
	}
	m.enter()
	defer m.leave()
	m.run(h.chunk)
}

// Free releases h. Freeing twice reports ErrHandleFreed.
func (m *VM) Free(h *Handle) error {
	switch {
	case h == nil:
		return ErrNilHandle
	case h.owner != m:
		return ErrForeignHandle
	case h.freed:
		return ErrHandleFreed
	}
	m.enter()
	defer m.leave()
	h.freed = true
	h.chunk.dead = true
	m.stats.Freed++
	return nil
}
