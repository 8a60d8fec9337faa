package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"easel/internal/diag"
	"easel/internal/source"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	diag.ReportWarning(rep, diag.SecUndeclared, 2, "Undeclared section: @bogus").
		WithPath("/tmp/proj/scripts/demo.eel").Emit()
	diag.ReportError(rep, diag.CompFailed, 4, "4:5: unexpected ';'").
		WithPath("/tmp/proj/scripts/demo.eel").WithSection("@init").Emit()
	return bag
}

func sampleFiles() *source.FileSet {
	fs := source.NewFileSet()
	fs.AddVirtual("/tmp/proj/scripts/demo.eel", []byte("@init\n@bogus\na = 1;\nb = ;\nc = 3;\n"))
	fs.SetBaseDir("/tmp/proj")
	return fs
}

func TestLegacy(t *testing.T) {
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	diag.ReportWarning(rep, diag.SecUndeclared, 1, "Undeclared section: @x").Emit()
	diag.ReportWarning(rep, diag.SecOutside, 3,
		"line 'junk' (and possibly more)' are not in valid section and may be ignored").Emit()
	diag.ReportError(rep, diag.CompFailed, 5, "5:1: unexpected ')'").Emit()
	diag.ReportError(rep, diag.LoadFileOpen, 0, "fopen() - Failed opening file: nope.eel").Emit()
	diag.NewReportBuilder(rep, diag.SevInfo, diag.LoadInfo, 0, "ignored").Emit()

	want := "\tWarning: Undeclared section: @x\r\n" +
		"\tWarning: line 'junk' (and possibly more)' are not in valid section and may be ignored\r\n" +
		"\nError: 5:1: unexpected ')'\r\n" +
		"\tError: fopen() - Failed opening file: nope.eel\r\n"
	if got := Legacy(bag); got != want {
		t.Errorf("Legacy() =\n%q\nwant\n%q", got, want)
	}

	var buf bytes.Buffer
	if err := WriteLegacy(&buf, diag.NewBag(0)); err != nil || buf.Len() != 0 {
		t.Errorf("empty bag should render nothing, got %q (%v)", buf.String(), err)
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), sampleFiles(), PrettyOpts{Context: 1, PathMode: PathModeRelative})
	out := buf.String()

	for _, want := range []string{
		"scripts/demo.eel:2: WARNING SEC2001: Undeclared section: @bogus\n",
		"scripts/demo.eel:4: ERROR COMP3001: 4:5: unexpected ';' [in @init]\n",
		"> 4 | b = ;\n",
		"  3 | a = 1;\n",
		"  5 | c = 3;\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes emitted with Color=false")
	}
}

func TestPretty_NoContextAndDropped(t *testing.T) {
	bag := diag.NewBag(1)
	rep := diag.BagReporter{Bag: bag}
	diag.ReportWarning(rep, diag.SecUndeclared, 1, "first").Emit()
	diag.ReportWarning(rep, diag.SecUndeclared, 2, "second").Emit()

	var buf bytes.Buffer
	Pretty(&buf, bag, nil, PrettyOpts{Context: -1})
	out := buf.String()
	if !strings.Contains(out, "<stream>:1: WARNING SEC2001: first") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "1 more diagnostic(s) not shown") {
		t.Errorf("dropped count missing:\n%s", out)
	}
}

func TestPretty_Color(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), nil, PrettyOpts{Color: true, Context: -1})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected colour codes, got %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), sampleFiles(), JSONOpts{PathMode: PathModeBasename, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Errorf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.File != "demo.eel" || d.Line != 2 || d.Code != "SEC2001" || d.Severity != "WARNING" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "easel", ToolVersion: "1.0", InvocationArgs: []string{"check", "demo.eel"}}
	if err := Sarif(&buf, sampleBag(), meta); err != nil {
		t.Fatal(err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "easel" || len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("unexpected driver %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 || run.Results[1].Level != "error" ||
		run.Results[1].Locations[0].PhysicalLocation.Region.StartLine != 4 {
		t.Errorf("unexpected results %+v", run.Results)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation should be unsuccessful: %+v", run.Invocations)
	}
}

func TestParsePathMode(t *testing.T) {
	if ParsePathMode("Relative") != PathModeRelative || ParsePathMode("weird") != PathModeAuto {
		t.Errorf("ParsePathMode mismatch")
	}
}
