// Package diag defines the diagnostic model shared by every expansion phase.
//
// Diagnostic is the central record: Severity, a stable numeric Code, a short
// Message, the Primary span of the offending name or annotation, optional Notes
// pointing at related locations, and optional Fixes (plain text edits).
//
// Producers either emit through a Reporter (the lexer and tree builder do) or
// return an error value (the template core does). The error adapters are:
//
//   - *Error carries exactly one Diagnostic;
//   - List carries an ordered set, used wherever errors are aggregated
//     instead of returned on the first failure.
//
// Collect flattens any of those back into diagnostics, so the driver can file
// them into a Bag. Rendering lives in internal/diagfmt.
package diag
