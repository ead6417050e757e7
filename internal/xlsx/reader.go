package xlsx

import (
	"github.com/xuri/excelize/v2"

	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/table"
)

// ReadGrid loads one worksheet of the workbook at path into a Grid. An empty
// sheet name selects the first worksheet. Cell values come back as the
// formatted strings the spreadsheet displays; ragged rows are padded to a
// rectangle by the Grid constructor.
func ReadGrid(path, sheet string) (table.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return table.Grid{}, apperrors.NewOpenError(path, err)
	}
	defer f.Close()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return table.Grid{}, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return table.Grid{}, apperrors.NewOpenError(path, err).WithContext("sheet", name)
	}
	return table.NewGrid(rows), nil
}

// ListSheets returns the worksheet names of the workbook at path in file
// order.
func ListSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewOpenError(path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return "", apperrors.NewSheetNotFoundError(sheet)
		}
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == sheet {
			return name, nil
		}
	}
	return "", apperrors.NewSheetNotFoundError(sheet)
}
