package diag

// Reporter is the minimal contract for receiving diagnostics from a phase.
// Implementations: BagReporter (stores into a Bag) and NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, line int, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Line:     line,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, line int, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, line, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, line int, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, line, msg)
}

// WithSection records the directive token the diagnostic belongs to.
func (b *ReportBuilder) WithSection(name string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Section = name
	return b
}

// WithPath records the script path.
func (b *ReportBuilder) WithPath(path string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Path = path
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// PathReporter stamps Path on every diagnostic before forwarding it.
type PathReporter struct {
	Path string
	Next Reporter
}

func (r PathReporter) Report(d Diagnostic) {
	if r.Next == nil {
		return
	}
	if d.Path == "" {
		d.Path = r.Path
	}
	r.Next.Report(d)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
