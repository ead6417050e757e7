package table

// Table is a normalized rectangular table: a header row promoted to column
// names plus the data rows under it. Like Grid it is immutable; every
// transform returns a fresh Table.
//
// Column names are not forced to be unique, but field lookups resolve to the
// first match, so the pipeline assumes uniqueness in practice.
type Table struct {
	columns []string
	rows    [][]string
	numeric []bool
}

// NewTable builds a Table from column names and data rows. Rows are copied
// and padded or truncated to the column count.
func NewTable(columns []string, rows [][]string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)

	copied := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, len(cols))
		copy(padded, row)
		copied[i] = padded
	}

	return Table{
		columns: cols,
		rows:    copied,
		numeric: make([]bool, len(cols)),
	}
}

// newTableOwned wraps already-copied data without another copy.
// Callers must not retain the slices they pass in.
func newTableOwned(columns []string, rows [][]string, numeric []bool) Table {
	if numeric == nil {
		numeric = make([]bool, len(columns))
	}
	return Table{columns: columns, rows: rows, numeric: numeric}
}

// Columns returns a copy of the column names
func (t Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows
func (t Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns
func (t Table) NumCols() int {
	return len(t.columns)
}

// Cell returns the value at the given row and column
func (t Table) Cell(row, col int) string {
	return t.rows[row][col]
}

// Row returns a copy of the given data row
func (t Table) Row(i int) []string {
	out := make([]string, len(t.columns))
	copy(out, t.rows[i])
	return out
}

// Rows returns a deep copy of all data rows
func (t Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// ColumnIndex returns the index of the first column with the given name
func (t Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// HasColumn reports whether a column with the given name exists
func (t Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// IsNumeric reports whether the given column has been coerced to numeric
func (t Table) IsNumeric(col int) bool {
	return t.numeric[col]
}

// WithNumericColumn returns a copy of the table with the given column's
// cells replaced by values and the column marked numeric. values must have
// one entry per data row; col must be a valid column index.
func (t Table) WithNumericColumn(col int, values []string) Table {
	columns, rows, numeric := t.clone()
	for r := range rows {
		rows[r][col] = values[r]
	}
	numeric[col] = true
	return newTableOwned(columns, rows, numeric)
}

// clone returns owned deep copies of the table's internals for transforms
// that build a modified table
func (t Table) clone() (columns []string, rows [][]string, numeric []bool) {
	columns = t.Columns()
	rows = t.Rows()
	numeric = make([]bool, len(t.numeric))
	copy(numeric, t.numeric)
	return columns, rows, numeric
}
