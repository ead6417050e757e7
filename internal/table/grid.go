package table

import "strings"

// Grid is an immutable rectangular snapshot of raw sheet cells, rows by
// columns. Short source rows are right-padded with empty cells so every row
// has the same width. Transforms never mutate a Grid; they produce new values.
type Grid struct {
	rows  [][]string
	width int
}

// NewGrid builds a Grid from raw rows as returned by a sheet reader.
// The input is copied; the caller keeps ownership of its slices.
func NewGrid(rows [][]string) Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	copied := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		copied[i] = padded
	}

	return Grid{rows: copied, width: width}
}

// NumRows returns the number of rows in the grid
func (g Grid) NumRows() int {
	return len(g.rows)
}

// NumCols returns the common width of all rows
func (g Grid) NumCols() int {
	return g.width
}

// Cell returns the raw value at the given position
func (g Grid) Cell(row, col int) string {
	return g.rows[row][col]
}

// Row returns a copy of the given row
func (g Grid) Row(i int) []string {
	out := make([]string, g.width)
	copy(out, g.rows[i])
	return out
}

// isEmptyCell reports whether a cell counts as empty: absent or only
// whitespace after trimming
func isEmptyCell(value string) bool {
	return strings.TrimSpace(value) == ""
}
