// Package report declares the pivot report catalog and the checks a
// normalized table must pass before rendering: field presence validation
// and numeric coercion of aggregated value columns.
package report
