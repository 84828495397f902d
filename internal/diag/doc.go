// Package diag defines the diagnostic model shared by the checker, MIR
// verifier, SSA builder and package tooling.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the semantic passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting.
//   - Model fix suggestions as structured text edits the CLI can print
//     alongside a diagnostic.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional suggested edits.
//
// Notes should be used sparingly: each note must add new context (e.g. "value
// declared here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. A pass
// constructs a ReportBuilder via NewReportBuilder (or the helper functions
// ReportError/ReportWarning/ReportInfo), chains WithNote/WithFix, and calls
// Emit. diag.BagReporter aggregates diagnostics into a Bag, which supports
// sorting, deduplication, filtering and transformation; the compiler
// collects every diagnostic a pass produces and only fails the run once the
// full pass completes, rather than aborting on the first error.
package diag
