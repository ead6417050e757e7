package report

import (
	"strconv"
	"strings"

	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/table"
)

// CastValueTypes coerces every SUM and AVERAGE value column of the
// specification to numeric form. Cells are rewritten in canonical float
// notation and the column is flagged numeric so the writer can persist real
// number cells. COUNT columns are left untouched, as are columns already
// coerced by an earlier specification in the same run.
//
// Empty cells stay empty; they are missing values, not parse failures. A
// non-empty cell that does not parse aborts with a TYPE_COERCION_FAILED
// error naming the column and the offending cell.
func CastValueTypes(t table.Table, spec Specification) (table.Table, error) {
	out := t
	for _, v := range spec.Fields.Values {
		if v.Calculation == CalculationCount {
			continue
		}

		idx, ok := out.ColumnIndex(v.Field)
		if !ok {
			return table.Table{}, apperrors.NewMissingFieldsError(spec.Name, out.Columns(), []string{v.Field})
		}
		if out.IsNumeric(idx) {
			continue
		}

		values := make([]string, out.NumRows())
		for r := 0; r < out.NumRows(); r++ {
			cell := out.Cell(r, idx)
			if strings.TrimSpace(cell) == "" {
				continue
			}
			parsed, err := parseNumber(cell)
			if err != nil {
				return table.Table{}, apperrors.NewCoercionError(v.Field, cell, err).
					WithContext("report", spec.Name).
					WithContext("row", r)
			}
			values[r] = strconv.FormatFloat(parsed, 'f', -1, 64)
		}
		out = out.WithNumericColumn(idx, values)
	}
	return out, nil
}

// parseNumber parses a spreadsheet cell as a float. Spreadsheet readers hand
// back formatted strings, so thousands-separator commas and non-breaking
// spaces are stripped before parsing.
func parseNumber(cell string) (float64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return strconv.ParseFloat(cleaned, 64)
}
