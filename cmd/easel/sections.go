package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"easel/internal/diag"
	"easel/internal/section"
	"easel/internal/source"
	"easel/internal/trace"
)

func newSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections [file]",
		Short: "List the section blocks of a script without compiling it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSections,
	}
	cmd.Flags().StringSlice("declare", nil, "declared sections, e.g. @init,@block")
	return cmd
}

type blockJSON struct {
	Name       string `json:"name"`
	Decl       int    `json:"decl"`
	LineOffset int    `json:"line_offset"`
	Lines      int    `json:"lines"`
}

func runSections(cmd *cobra.Command, args []string) error {
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
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	var blocks []section.Block

	_, span := trace.Start(cmd.Context(), trace.ScopePhase, "segment")
	f, err := fs.Load(target.Path)
	if err != nil {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.LoadFileOpen, 0,
			"fopen() - Failed opening file: "+target.Path).WithPath(target.Path).Emit()
	} else {
		reporter := diag.PathReporter{Path: f.Path, Next: diag.BagReporter{Bag: bag}}
		blocks, err = section.Segment(f.Reader(), target.Sections, reporter)
		if err != nil {
			diag.ReportError(reporter, diag.LoadRead, 0, err.Error()).Emit()
		}
	}
	span.WithExtra("blocks", strconv.Itoa(len(blocks))).End("")

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == formatJSON {
		payload := make([]blockJSON, len(blocks))
		for i, b := range blocks {
			payload[i] = blockJSON{Name: b.Name, Decl: b.Index, LineOffset: b.LineOffset, Lines: b.Lines()}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else if len(blocks) > 0 {
		fmt.Fprintln(out, blocksTable(blocks))
	}

	if !bag.Empty() {
		if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), bag, fs); err != nil {
			return err
		}
		dumpTrace(cmd)
		return exitCode(1)
	}
	return nil
}

func blocksTable(blocks []section.Block) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SECTION", "DECL", "LINE", "LINES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return header
			}
			return cell
		})
	for i, b := range blocks {
		t.Row(strconv.Itoa(i), b.Name, strconv.Itoa(b.Index), strconv.Itoa(b.LineOffset), strconv.Itoa(b.Lines()))
	}
	return t.Render()
}
