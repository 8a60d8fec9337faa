package pipeline

import (
	"context"
	"io"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"easel/internal/diag"
	"easel/internal/directive"
	"easel/internal/loader"
	"easel/internal/observ"
	"easel/internal/trace"
	"easel/internal/vm"
)

// CheckRequest describes one multi-file check.
type CheckRequest struct {
	Files    []string
	Sections []string
	// Display names reported in progress events, parallel to Files. Nil
	// reports Files as given.
	Display        []string
	MaxDiagnostics int
	Jobs           int
	Progress       ProgressSink
	Timer          *observ.Timer
}

// FileResult is the outcome for one script.
type FileResult struct {
	Path    string
	Bag     *diag.Bag
	Entries []directive.Entry
	Strings int
	Elapsed time.Duration
}

// OK reports whether the script compiled without findings. A result that
// was never filled in (the check was cancelled first) is not OK.
func (r FileResult) OK() bool { return r.Bag != nil && r.Bag.Empty() }

// CheckResult holds per-file results in request order.
type CheckResult struct {
	Files []FileResult
	Stats CompileStats
}

// Bag merges every per-file bag in request order.
func (r *CheckResult) Bag(limit int) *diag.Bag {
	bag := diag.NewBag(limit)
	for _, f := range r.Files {
		bag.Merge(f.Bag)
	}
	return bag
}

// Failed counts scripts with findings.
func (r *CheckResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if !f.OK() {
			n++
		}
	}
	return n
}

// Check compiles every file on its own VM, in parallel. It only returns an
// error when ctx is cancelled; script problems end up in the file bags.
func Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	result := &CheckResult{Files: make([]FileResult, len(req.Files))}
	if len(req.Files) == 0 {
		return result, nil
	}
	display := req.Display
	if len(display) != len(req.Files) {
		display = req.Files
	}
	emit := func(ev Event) {
		if req.Progress != nil {
			req.Progress.OnEvent(ev)
		}
	}
	for i := range req.Files {
		emit(Event{File: display[i], Status: StatusQueued})
	}

	done := req.Timer.Track("check")
	ctx, span := trace.Start(ctx, trace.ScopePhase, "check")

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Files)))

	// индексы уникальны для каждой горутины, мьютекс не нужен
	for i, path := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			bag := diag.NewBag(req.MaxDiagnostics)
			l := loader.New(loader.Options{
				Sections: req.Sections,
				Output:   io.Discard,
				VM:       vm.New(vm.Options{}),
			})

			emit(Event{File: display[i], Status: StatusWorking})
			l.CompileFile(gctx, path, bag)

			res := FileResult{
				Path:    path,
				Bag:     bag,
				Entries: l.Entries(),
				Strings: len(l.VM().Strings()),
			}
			_ = l.Close()
			res.Elapsed = time.Since(start)
			result.Files[i] = res

			status := StatusDone
			if !bag.Empty() {
				status = StatusError
			}
			emit(Event{File: display[i], Status: status, Sections: len(res.Entries), Elapsed: res.Elapsed})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("cancelled")
		done("cancelled")
		return nil, err
	}

	for _, f := range result.Files {
		result.Stats.add(f.Path, f.Elapsed)
	}
	span.WithExtra("files", strconv.Itoa(len(req.Files))).End("")
	done(strconv.Itoa(result.Failed()) + " failed")
	return result, nil
}
