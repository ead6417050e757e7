package table

// FillMissing forward-fills empty cells down each column: an empty cell takes
// the value of the nearest non-empty cell above it in the same column. Cells
// above the first non-empty value stay empty. There is no cross-column fill
// and no wraparound, and the transform is idempotent.
func FillMissing(t Table) Table {
	columns, rows, numeric := t.clone()

	for c := range columns {
		last := ""
		for r := range rows {
			if isEmptyCell(rows[r][c]) {
				if last != "" {
					rows[r][c] = last
				}
			} else {
				last = rows[r][c]
			}
		}
	}

	return newTableOwned(columns, rows, numeric)
}
