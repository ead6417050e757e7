package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/report"
	"pivotprep/internal/table"
)

func cleanedWorkbook(t *testing.T) (string, table.Table) {
	t.Helper()

	tbl := table.NewTable(
		[]string{"МНН+Дозировка", "Схема на УРНЗ", "УНРЗ", "Потребность на год (ЕИ)"},
		[][]string{
			{"Иматиниб, 100 мг", "", "001", "6"},
			{"Иматиниб, 400 мг", "Иматиниб, 100 мг; Иматиниб, 400 мг", "001", "12"},
			{"Ритуксимаб, 500 мг", "Ритуксимаб, 500 мг", "002", "4"},
		},
	)
	idx, _ := tbl.ColumnIndex("Потребность на год (ЕИ)")
	tbl = tbl.WithNumericColumn(idx, []string{"6", "12", "4"})

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteTable(tbl, path, "Исходный лист"); err != nil {
		t.Fatalf("WriteTable returned error: %v", err)
	}
	return path, tbl
}

func TestRenderPivots(t *testing.T) {
	path, tbl := cleanedWorkbook(t)
	specs := report.DefaultCatalog().Reports

	if err := RenderPivots(path, "Исходный лист", tbl, specs); err != nil {
		t.Fatalf("RenderPivots returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen rendered workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{
		"Исходный лист":            false,
		"Потребность в препаратах": false,
		"Схемы":                    false,
	}
	for _, name := range sheets {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("sheet %q missing from rendered workbook (have %v)", name, sheets)
		}
	}

	pivots, err := f.GetPivotTables("Потребность в препаратах")
	if err != nil {
		t.Fatalf("GetPivotTables: %v", err)
	}
	if len(pivots) != 1 {
		t.Fatalf("expected 1 pivot table, got %d", len(pivots))
	}
	if len(pivots[0].Data) != 2 {
		t.Errorf("expected 2 data fields, got %d", len(pivots[0].Data))
	}
}

func TestRenderPivots_NoSpecsIsNoop(t *testing.T) {
	path, tbl := cleanedWorkbook(t)

	if err := RenderPivots(path, "Исходный лист", tbl, nil); err != nil {
		t.Fatalf("RenderPivots returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("expected only the source sheet, got %v", sheets)
	}
}

func TestRenderPivots_OpenFailed(t *testing.T) {
	tbl := table.NewTable([]string{"a"}, nil)
	specs := report.DefaultCatalog().Reports

	err := RenderPivots(filepath.Join(t.TempDir(), "missing.xlsx"), "Исходный лист", tbl, specs)
	if err == nil {
		t.Fatal("expected an error for a missing workbook")
	}
	if !apperrors.IsType(err, apperrors.ErrTypeOpen) {
		t.Errorf("expected OPEN_FAILED, got %v", apperrors.Classify(err))
	}
}
