// Package diag defines the diagnostic model shared by the loader phases.
//
// # Purpose
//
//   - Capture warnings and errors produced while segmenting a script stream
//     into sections and compiling each section.
//   - Let producers emit findings through a Reporter without coupling to
//     storage or formatting.
//
// # Scope
//
// Package diag performs no formatting and no IO. Rendering (the legacy text
// buffer format, pretty terminal output, JSON) lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier grouped by phase (see codes.go).
//   - Message – human oriented text.
//   - Path, Line, Section – where the finding was made. Line is the 1-based
//     line of the original stream, not of the section block.
//
// # Success signal
//
// A compile pass succeeds when its Bag is empty afterwards. Warnings count:
// a pass that produced only warnings still reports failure even though the
// sections it compiled remain executable.
package diag
