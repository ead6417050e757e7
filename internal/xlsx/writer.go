package xlsx

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/table"
)

// WriteTable persists the normalized table as a fresh workbook at path with
// a single worksheet of the given name. Any existing file at path is removed
// first, so the output never carries stale sheets. Cells of numeric columns
// are written as real number cells so pivots can aggregate them.
func WriteTable(t table.Table, path, sheet string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.NewWriteError(path, err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewWriteError(path, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return apperrors.NewWriteError(path, err)
	}

	for c, name := range t.Columns() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	for r := 0; r < t.NumRows(); r++ {
		for c := 0; c < t.NumCols(); c++ {
			raw := t.Cell(r, c)
			if raw == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if t.IsNumeric(c) {
				if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
					f.SetCellValue(sheet, cell, parsed)
					continue
				}
			}
			f.SetCellValue(sheet, cell, raw)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}
