// Package exporter generates the downloadable artifacts offered by the
// dashboard: the multi-sheet growth workbook, per-site CSV tables and
// the summary table. Exports are derived views only; source files in
// the data directory are never written to.
package exporter
