// Package diag defines the diagnostic model shared by the scanner and driver.
//
// Diagnostic is the central record: Severity (Info/Warning/Error), a compact
// numeric Code with a stable string form, a short human message, the primary
// source.Span, and optional Notes for secondary context.
//
// Producers emit through a Reporter to stay decoupled from storage; BagReporter
// aggregates into a Bag, which supports sorting and deduplication for
// deterministic CLI output. Package diag performs no formatting or IO;
// rendering lives in internal/diagfmt, orchestration in internal/driver.
package diag
