package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"easel/internal/diag"
	"easel/internal/directive"
	"easel/internal/loader"
	"easel/internal/observ"
	"easel/internal/snapshot"
	"easel/internal/trace"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile a script and execute its sections",
		Long: `Compile a script, seed variables and execute sections by name (--exec @block)
or by compile order (--exec 0). Without --exec every section is run once in
compile order, skipping occurrences replaced by a later reopen. Without a
file argument the [script] and [run] tables of the nearest easel.toml apply.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	cmd.Flags().StringSlice("declare", nil, "declared sections, e.g. @init,@block")
	cmd.Flags().StringArray("exec", nil, "section name or declared index to execute, repeatable")
	cmd.Flags().StringArray("var", nil, "set a variable before execution (name=value), repeatable")
	cmd.Flags().Int("repeat", 0, "execute every selected section this many times")
	cmd.Flags().String("load-vars", "", "seed variables from a snapshot file")
	cmd.Flags().String("save-vars", "", "write variables to a snapshot file after execution")
	cmd.Flags().Bool("keep-going", false, "execute the sections that compiled even when others failed")
	return cmd
}

type runOptions struct {
	targets   []execTarget
	vars      []string
	repeat    int
	loadVars  string
	saveVars  string
	keepGoing bool
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	execs, err := cmd.Flags().GetStringArray("exec")
	if err != nil {
		return opts, fmt.Errorf("failed to get exec flag: %w", err)
	}
	for _, e := range execs {
		t, err := parseExecTarget(e)
		if err != nil {
			return opts, err
		}
		opts.targets = append(opts.targets, t)
	}
	if opts.vars, err = cmd.Flags().GetStringArray("var"); err != nil {
		return opts, fmt.Errorf("failed to get var flag: %w", err)
	}
	if opts.repeat, err = cmd.Flags().GetInt("repeat"); err != nil {
		return opts, fmt.Errorf("failed to get repeat flag: %w", err)
	}
	if opts.loadVars, err = cmd.Flags().GetString("load-vars"); err != nil {
		return opts, fmt.Errorf("failed to get load-vars flag: %w", err)
	}
	if opts.saveVars, err = cmd.Flags().GetString("save-vars"); err != nil {
		return opts, fmt.Errorf("failed to get save-vars flag: %w", err)
	}
	if opts.keepGoing, err = cmd.Flags().GetBool("keep-going"); err != nil {
		return opts, fmt.Errorf("failed to get keep-going flag: %w", err)
	}
	return opts, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(cmd)

	target, err := resolveScript(cmd, args)
	if err != nil {
		return err
	}
	opts, err := readRunOptions(cmd)
	if err != nil {
		return err
	}
	// the manifest [run] table applies only to the manifest script
	var filter []string
	if m := target.Manifest; m != nil && len(args) == 0 {
		filter = m.Config.Run.Sections
		if opts.repeat == 0 {
			opts.repeat = m.Config.Run.Repeat
		}
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, "run")
	defer span.End("")
	timer := observ.NewTimer()
	l := loader.New(loader.Options{
		Sections: target.Sections,
		Filename: target.Path,
		Output:   cmd.OutOrStdout(),
		Tracer:   trace.FromContext(ctx),
	})
	defer func() {
		if err := l.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}()

	bag := diag.NewBag(maxDiagnostics)
	done := timer.Track("compile")
	ok := l.CompileConfigured(ctx, bag)
	done(fmt.Sprintf("%d section(s)", l.Len()))
	if !ok {
		if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), bag, l.Files()); err != nil {
			return err
		}
		if bag.HasErrors() && !opts.keepGoing {
			dumpTrace(cmd)
			return exitCode(1)
		}
	}

	if err := seedVars(l, target, opts); err != nil {
		return err
	}

	done = timer.Track("execute")
	err = executeSections(cmd, l, opts, filter)
	done(fmt.Sprintf("%d execution(s)", l.Executions()))
	if err != nil {
		dumpTrace(cmd)
		return err
	}

	if opts.saveVars != "" {
		snap := snapshot.New(scriptDigest(l, target), l.VM().Vars())
		if err := snapshot.Save(opts.saveVars, snap); err != nil {
			return err
		}
	}
	if !quiet(cmd) {
		printVars(cmd.OutOrStdout(), l.VM().Vars())
	}
	printTimings(cmd, timer)
	return nil
}

// seedVars applies, in order, the manifest [vars], a snapshot and --var.
func seedVars(l *loader.Loader, target scriptTarget, opts runOptions) error {
	m := l.VM()
	if target.Manifest != nil {
		for name, v := range target.Manifest.Config.Vars {
			m.SetVar(name, v)
		}
	}
	if opts.loadVars != "" {
		snap, err := snapshot.Load(opts.loadVars)
		if err != nil {
			return err
		}
		if err := snap.Check(scriptDigest(l, target)); err != nil {
			return fmt.Errorf("%s: %w", opts.loadVars, err)
		}
		for _, name := range snap.Names() {
			m.SetVar(name, snap.Vars[name])
		}
	}
	for _, assign := range opts.vars {
		name, v, err := parseAssignment(assign)
		if err != nil {
			return err
		}
		m.SetVar(name, v)
	}
	return nil
}

func scriptDigest(l *loader.Loader, target scriptTarget) snapshot.Digest {
	f, ok := l.Files().GetByPath(target.Path)
	if !ok {
		return snapshot.Digest{}
	}
	return snapshot.ScriptDigest(f.Hash, target.Sections)
}

var errNoSection = errors.New("no such section")

func executeSections(cmd *cobra.Command, l *loader.Loader, opts runOptions, filter []string) error {
	if len(opts.targets) == 0 {
		var status io.Writer
		if !quiet(cmd) {
			status = cmd.ErrOrStderr()
		}
		l.Run(directive.RunnerConfig{Filter: filter, Output: status, Repeat: opts.repeat})
		return nil
	}
	repeat := max(opts.repeat, 1)
	for _, t := range opts.targets {
		for range repeat {
			var ok bool
			if t.name != "" {
				ok = l.ExecName(t.name)
			} else {
				ok = l.ExecIndex(t.slot)
			}
			if !ok {
				return fmt.Errorf("%w: %s", errNoSection, t)
			}
		}
	}
	return nil
}

func printVars(out io.Writer, vars map[string]float64) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s = %g\n", name, vars[name])
	}
}

