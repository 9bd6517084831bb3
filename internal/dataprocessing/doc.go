// Package dataprocessing parses the study's raw data sources and
// computes the aggregates the dashboard presents.
//
// Two source formats exist: per-site environment sensor logs (CSV with
// timestamp, temperature, humidity, pH and measured EC columns) and one
// growth workbook (xlsx, one sheet per site with fresh weight, leaf
// count and shoot length columns). Both parsers locate columns by
// header name rather than position, since the four schools exported
// their files with differing column order and header labels.
//
// The Summarizer is the single source of truth for per-site means,
// counts, the best-site selection and the chart payloads served by the
// HTTP layer.
package dataprocessing
