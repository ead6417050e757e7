package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/report"
	"pivotprep/internal/table"
)

// subtotal names excelize understands, by calculation
var subtotals = map[report.Calculation]string{
	report.CalculationSum:     "Sum",
	report.CalculationAverage: "Average",
	report.CalculationCount:   "Count",
}

// builtInNumFmt maps catalog number format codes to the built-in format IDs
// pivot data fields accept. Formats outside this set fall back to General.
var builtInNumFmt = map[string]int{
	"general":  0,
	"0":        1,
	"0.00":     2,
	"#,##0":    3,
	"#,##0.00": 4,
	"0%":       9,
	"0.00%":    10,
	"@":        49,
}

// RenderPivots opens the workbook produced by WriteTable and adds one pivot
// sheet per specification, each aggregating the source worksheet's data
// range. The workbook is saved in place, leaving the last pivot sheet
// active.
func RenderPivots(path, sourceSheet string, t table.Table, specs []report.Specification) error {
	if len(specs) == 0 {
		return nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return apperrors.NewOpenError(path, err)
	}
	defer f.Close()

	cols := t.NumCols()
	if cols < 1 {
		cols = 1
	}
	dataRange := rangeRef(sourceSheet, 1, 1, cols, t.NumRows()+1)

	for _, spec := range specs {
		if err := addPivotSheet(f, path, dataRange, t.NumRows(), spec); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}

func addPivotSheet(f *excelize.File, path, dataRange string, dataRows int, spec report.Specification) error {
	idx, err := f.NewSheet(spec.Name)
	if err != nil {
		return apperrors.NewWriteError(path, err).WithContext("report", spec.Name)
	}
	f.SetActiveSheet(idx)

	// Leave room above the table for the filter fields
	anchorRow := len(spec.Fields.Filters) + 2

	opts := &excelize.PivotTableOptions{
		Name:            spec.Name,
		DataRange:       dataRange,
		PivotTableRange: rangeRef(spec.Name, 1, anchorRow, 16, anchorRow+dataRows+16),
		Filter:          axisFields(spec.Fields.Filters),
		Rows:            axisFields(spec.Fields.Rows),
		Columns:         axisFields(spec.Fields.Columns),
		Data:            dataFields(spec.Fields.Values),
		RowGrandTotals:  true,
		CompactData:     true,
	}

	if err := f.AddPivotTable(opts); err != nil {
		return apperrors.NewWriteError(path, err).WithContext("report", spec.Name)
	}
	return nil
}

func axisFields(names []string) []excelize.PivotTableField {
	fields := make([]excelize.PivotTableField, len(names))
	for i, name := range names {
		fields[i] = excelize.PivotTableField{
			Data:            name,
			Compact:         true,
			Outline:         true,
			DefaultSubtotal: true,
		}
	}
	return fields
}

func dataFields(values []report.Value) []excelize.PivotTableField {
	fields := make([]excelize.PivotTableField, len(values))
	for i, v := range values {
		fields[i] = excelize.PivotTableField{
			Data:     v.Field,
			Name:     v.DisplayName,
			Subtotal: subtotals[v.Calculation],
			NumFmt:   builtInNumFmt[strings.ToLower(v.NumberFormat)],
		}
	}
	return fields
}

// rangeRef builds the sheet-qualified range reference AddPivotTable expects.
// The sheet name is never quoted; excelize resolves the part before "!"
// verbatim.
func rangeRef(sheet string, x1, y1, x2, y2 int) string {
	start, _ := excelize.CoordinatesToCellName(x1, y1)
	end, _ := excelize.CoordinatesToCellName(x2, y2)
	return fmt.Sprintf("%s!%s:%s", sheet, start, end)
}
