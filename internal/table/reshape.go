package table

// ShrinkToHeader slices the grid to its header location: the header row
// becomes the column names, the rows below it become the data rows, and
// columns outside [StartCol, EndCol] are discarded. Data rows are reindexed
// from zero.
//
// The location must come from LocateHeader on the same grid; out-of-bounds
// locations panic.
func ShrinkToHeader(grid Grid, loc HeaderLocation) Table {
	width := loc.Width()

	columns := make([]string, width)
	copy(columns, grid.rows[loc.Row][loc.StartCol:loc.EndCol+1])

	rows := make([][]string, 0, grid.NumRows()-loc.Row-1)
	for r := loc.Row + 1; r < grid.NumRows(); r++ {
		row := make([]string, width)
		copy(row, grid.rows[r][loc.StartCol:loc.EndCol+1])
		rows = append(rows, row)
	}

	return newTableOwned(columns, rows, nil)
}
