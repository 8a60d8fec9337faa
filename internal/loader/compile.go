package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"easel/internal/diag"
	"easel/internal/directive"
	"easel/internal/section"
	"easel/internal/source"
	"easel/internal/trace"
	"easel/internal/vm"
)

// CompileStream compiles every section of r. It reports whether bag is
// empty afterwards, so findings from earlier passes also fail it.
func (l *Loader) CompileStream(ctx context.Context, r io.Reader, bag *diag.Bag) bool {
	if bag == nil {
		bag = diag.NewBag(0)
	}
	l.segment(ctx, "", r, diag.BagReporter{Bag: bag})
	return bag.Empty()
}

// CompileFile loads path and compiles it.
func (l *Loader) CompileFile(ctx context.Context, path string, bag *diag.Bag) bool {
	if bag == nil {
		bag = diag.NewBag(0)
	}
	f, err := l.files.Load(path)
	if err != nil {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.LoadFileOpen, 0,
			"fopen() - Failed opening file: "+path).
			WithPath(path).
			Emit()
		return false
	}
	return l.CompileSource(ctx, f, bag)
}

// CompileConfigured compiles Options.Filename.
func (l *Loader) CompileConfigured(ctx context.Context, bag *diag.Bag) bool {
	return l.CompileFile(ctx, l.filename, bag)
}

// CompileSource compiles an already loaded file.
func (l *Loader) CompileSource(ctx context.Context, f *source.File, bag *diag.Bag) bool {
	if bag == nil {
		bag = diag.NewBag(0)
	}
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if f.Path != "" {
		reporter = diag.PathReporter{Path: f.Path, Next: reporter}
	}
	l.segment(ctx, f.Path, f.Reader(), reporter)
	return bag.Empty()
}

func (l *Loader) segment(ctx context.Context, path string, r io.Reader, reporter diag.Reporter) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.Start(ctx, trace.ScopePhase, "segment")
	if path != "" {
		span.WithExtra("file", path)
	}

	blocks := 0
	seg := section.New(l.sections, reporter, func(b section.Block) {
		blocks++
		l.compileBlock(ctx, path, b, reporter)
	})
	if err := seg.Run(r); err != nil {
		diag.ReportError(reporter, diag.LoadRead, 0, err.Error()).Emit()
		span.WithExtra("blocks", strconv.Itoa(blocks)).End("read failed")
		return
	}
	span.WithExtra("blocks", strconv.Itoa(blocks)).End("")
}

// compileBlock hands one block to the machine and registers the handle.
func (l *Loader) compileBlock(ctx context.Context, path string, b section.Block, reporter diag.Reporter) {
	_, span := trace.Start(ctx, trace.ScopeSection, "compile "+b.Name)

	h, err := l.machine.Compile(b.Source, b.LineOffset, vm.FlagCommonFuncs)
	if err != nil {
		line := b.LineOffset
		var cerr *vm.CompileError
		if errors.As(err, &cerr) {
			line = cerr.Line
		}
		diag.ReportError(reporter, diag.CompFailed, line, err.Error()).
			WithSection(b.Name).
			Emit()
		span.End("failed")
		return
	}
	l.machine.RefreshStrings()

	slot := l.registry.Add(directive.Entry{
		Section:    b.Name,
		Decl:       b.Index,
		SourceFile: path,
		LineOffset: b.LineOffset,
		Lines:      b.Lines(),
	}, h)
	span.WithExtra("slot", fmt.Sprint(slot)).End("")
}
