package table

import "strings"

// ComputedColumns names the columns the field computer reads and the two it
// derives. The names are configuration, not pipeline logic; defaults live in
// the config package.
type ComputedColumns struct {
	// Source columns; all three must be present for the computer to activate
	Product string
	Dosage  string
	Group   string

	// Derived columns
	Combined string
	Rollup   string
}

// AddComputedFields derives the combined label and grouped rollup columns.
//
// The combined column joins the product and dosage cells of each row with
// ", ". The rollup column joins the combined labels of every row sharing a
// group key with "; ", in row order, and writes the joined string onto the
// group's last row only; all other rows of the group stay empty. Rows with
// an empty group key are left out of the rollup entirely.
//
// When any of the three source columns is missing the table is returned
// unchanged. A derived column that already exists is overwritten in place
// instead of appended, so repeated runs do not grow the table.
func AddComputedFields(t Table, cols ComputedColumns) Table {
	productIdx, okProduct := t.ColumnIndex(cols.Product)
	dosageIdx, okDosage := t.ColumnIndex(cols.Dosage)
	groupIdx, okGroup := t.ColumnIndex(cols.Group)
	if !okProduct || !okDosage || !okGroup {
		return t
	}

	columns, rows, numeric := t.clone()

	combined := make([]string, len(rows))
	for r, row := range rows {
		combined[r] = row[productIdx] + ", " + row[dosageIdx]
	}

	// Single pass: collect per-group labels and each group's last row
	labels := make(map[string][]string)
	lastRow := make(map[string]int)
	for r, row := range rows {
		key := row[groupIdx]
		if isEmptyCell(key) {
			continue
		}
		labels[key] = append(labels[key], combined[r])
		lastRow[key] = r
	}

	rollup := make([]string, len(rows))
	for r, row := range rows {
		key := row[groupIdx]
		if isEmptyCell(key) || lastRow[key] != r {
			continue
		}
		rollup[r] = strings.Join(labels[key], "; ")
	}

	columns, rows, numeric = setColumn(columns, rows, numeric, cols.Combined, combined)
	columns, rows, numeric = setColumn(columns, rows, numeric, cols.Rollup, rollup)

	return newTableOwned(columns, rows, numeric)
}

// setColumn writes values into the named column, appending it when absent
func setColumn(columns []string, rows [][]string, numeric []bool, name string, values []string) ([]string, [][]string, []bool) {
	for i, col := range columns {
		if col == name {
			for r := range rows {
				rows[r][i] = values[r]
			}
			numeric[i] = false
			return columns, rows, numeric
		}
	}

	columns = append(columns, name)
	numeric = append(numeric, false)
	for r := range rows {
		rows[r] = append(rows[r], values[r])
	}
	return columns, rows, numeric
}
