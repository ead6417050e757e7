package table

import (
	apperrors "pivotprep/internal/errors"
)

// DefaultSearchRows bounds the header scan when the caller does not choose
// its own depth. Real exports bury the header within the first few rows;
// scanning further only risks mistaking a wide data row for the header.
const DefaultSearchRows = 15

// HeaderLocation identifies the row believed to hold the column names and
// the contiguous column span it covers. EndCol is inclusive.
type HeaderLocation struct {
	Row      int
	StartCol int
	EndCol   int
}

// Width returns the number of columns the header span covers
func (h HeaderLocation) Width() int {
	return h.EndCol - h.StartCol + 1
}

// LocateHeader scans at most searchRows leading rows of the grid for the row
// most likely to be the header: the one with the longest maximal run of
// non-empty cells. A strictly wider run replaces the running best, so on
// equal widths the earliest row wins; within a row the first of the equally
// long runs wins. searchRows <= 0 scans the whole grid.
//
// The heuristic is deliberate and not guaranteed correct: a wide data row
// above the real header will be picked. Callers that hit that layout should
// reduce searchRows rather than expect different tie-breaking.
//
// Fails with a HEADER_NOT_FOUND error when no scanned row has a non-empty
// cell.
func LocateHeader(grid Grid, searchRows int) (HeaderLocation, error) {
	limit := grid.NumRows()
	if searchRows > 0 && searchRows < limit {
		limit = searchRows
	}

	var best HeaderLocation
	found := false

	for i := 0; i < limit; i++ {
		start, end, ok := longestSpan(grid.rows[i])
		if !ok {
			continue
		}

		bestWidth := 0
		if found {
			bestWidth = best.Width()
		}
		if end-start+1 > bestWidth {
			best = HeaderLocation{Row: i, StartCol: start, EndCol: end}
			found = true
		}
	}

	if !found {
		return HeaderLocation{}, apperrors.NewHeaderNotFoundError(limit)
	}
	return best, nil
}

// longestSpan finds the longest maximal run of non-empty cells in the row.
// Ties keep the first run in scan order. ok is false when the row is fully
// empty.
func longestSpan(row []string) (start, end int, ok bool) {
	bestWidth := 0

	for i := 0; i < len(row); i++ {
		if isEmptyCell(row[i]) {
			continue
		}
		j := i
		for j < len(row) && !isEmptyCell(row[j]) {
			j++
		}
		if j-i > bestWidth {
			start, end, ok = i, j-1, true
			bestWidth = j - i
		}
		i = j
	}

	return start, end, ok
}
