package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"easel/internal/diag"
	"easel/internal/diagfmt"
	"easel/internal/observ"
	"easel/internal/source"
	"easel/internal/version"
)

// renderDiagnostics prints bag in the --format selected on the command.
func renderDiagnostics(cmd *cobra.Command, out io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	switch format {
	case formatLegacy:
		return diagfmt.WriteLegacy(out, bag)
	case formatJSON:
		if err := diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{PathMode: diagfmt.PathModeAuto}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	case formatSarif:
		meta := diagfmt.SarifRunMeta{
			ToolName:       "easel",
			ToolVersion:    version.Version,
			InvocationArgs: cmd.Flags().Args(),
		}
		return diagfmt.Sarif(out, bag, meta)
	default:
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:    useColor,
			Context:  1,
			PathMode: diagfmt.PathModeAuto,
		})
		return nil
	}
}

// printTimings writes the phase summary to stderr when --timings is set;
// with --format json the report is a JSON object.
func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	show, err := cmd.Flags().GetBool("timings")
	if err != nil || !show || timer.Len() == 0 {
		return
	}
	if format, _ := outputFormat(cmd); format == formatJSON {
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		_ = enc.Encode(timer.Report())
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
