package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"easel/internal/observ"
	"easel/internal/pipeline"
	"easel/internal/source"
	"easel/internal/ui"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files|dirs...]",
		Short: "Compile scripts and report diagnostics",
		Long: `Compile every given script, and every *.eel file under given directories,
on its own VM in parallel. Without arguments the script of the nearest
easel.toml is checked. Exits with status 1 when any script has findings.`,
		RunE: runCheck,
	}
	cmd.Flags().StringSlice("declare", nil, "declared sections, e.g. @init,@block")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	sections, err := declaredSections(cmd)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 || len(sections) == 0 {
		target, err := resolveScript(cmd, nil)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			paths = []string{target.Path}
		}
		sections = target.Sections
	}

	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	mode, err := uiModeFlag(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	files, err := pipeline.CollectFiles(ctx, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s scripts found", pipeline.ScriptExt)
	}

	wd, _ := os.Getwd()
	timer := observ.NewTimer()
	req := pipeline.CheckRequest{
		Files:          files,
		Display:        pipeline.DisplayPaths(files, wd),
		Sections:       sections,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Timer:          timer,
	}

	var res *pipeline.CheckResult
	if shouldUseTUI(mode) && !quiet(cmd) {
		res, err = ui.RunCheck(ctx, cmd.OutOrStdout(), "check", req)
	} else {
		res, err = pipeline.Check(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	fs := source.NewFileSet()
	fs.SetBaseDir(wd)
	for _, f := range res.Files {
		// re-read for context lines; unreadable files have no lines to show
		_, _ = fs.Load(f.Path)
	}
	bag := res.Bag(maxDiagnostics)
	if err := renderDiagnostics(cmd, cmd.OutOrStdout(), bag, fs); err != nil {
		return err
	}

	if !quiet(cmd) {
		format, _ := outputFormat(cmd)
		if format == formatPretty {
			fmt.Fprintf(cmd.ErrOrStderr(), "checked %d script(s), %d failed\n", len(res.Files), res.Failed())
		}
	}
	printTimings(cmd, timer)
	if res.Failed() > 0 {
		dumpTrace(cmd)
		return exitCode(1)
	}
	return nil
}

