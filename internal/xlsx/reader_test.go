package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	apperrors "pivotprep/internal/errors"
)

// buildWorkbook writes a workbook with the given sheets, each sheet being a
// map of cell reference to value.
func buildWorkbook(t *testing.T, sheets []string, cells map[string]map[string]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	for i, name := range sheets {
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), name)
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("failed to add sheet %q: %v", name, err)
			}
		}
		for cell, value := range cells[name] {
			f.SetCellValue(name, cell, value)
		}
	}

	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save temp workbook: %v", err)
	}
	return path
}

func TestReadGrid(t *testing.T) {
	path := buildWorkbook(t, []string{"Данные"}, map[string]map[string]interface{}{
		"Данные": {
			"A1": "МНН", "B1": "Дозировка",
			"A2": "Иматиниб", "B2": "100 мг",
			"A3": "Ритуксимаб",
		},
	})

	grid, err := ReadGrid(path, "Данные")
	if err != nil {
		t.Fatalf("ReadGrid returned error: %v", err)
	}

	if grid.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", grid.NumRows())
	}
	if grid.NumCols() != 2 {
		t.Fatalf("expected 2 columns, got %d", grid.NumCols())
	}
	if got := grid.Cell(0, 0); got != "МНН" {
		t.Errorf("header cell mismatch: got %q", got)
	}
	if got := grid.Cell(1, 1); got != "100 мг" {
		t.Errorf("data cell mismatch: got %q", got)
	}
	// Short last row must come back padded
	if got := grid.Cell(2, 1); got != "" {
		t.Errorf("expected padded empty cell, got %q", got)
	}
}

func TestReadGrid_DefaultSheet(t *testing.T) {
	path := buildWorkbook(t, []string{"Первый", "Второй"}, map[string]map[string]interface{}{
		"Первый": {"A1": "из первого"},
		"Второй": {"A1": "из второго"},
	})

	grid, err := ReadGrid(path, "")
	if err != nil {
		t.Fatalf("ReadGrid returned error: %v", err)
	}
	if got := grid.Cell(0, 0); got != "из первого" {
		t.Errorf("expected first sheet content, got %q", got)
	}
}

func TestReadGrid_SheetNotFound(t *testing.T) {
	path := buildWorkbook(t, []string{"Данные"}, map[string]map[string]interface{}{
		"Данные": {"A1": "x"},
	})

	_, err := ReadGrid(path, "Нет такого")
	if err == nil {
		t.Fatal("expected an error for a missing sheet")
	}
	if !apperrors.IsType(err, apperrors.ErrTypeSheet) {
		t.Errorf("expected SHEET_NOT_FOUND, got %v", apperrors.Classify(err))
	}
}

func TestReadGrid_OpenFailed(t *testing.T) {
	_, err := ReadGrid(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !apperrors.IsType(err, apperrors.ErrTypeOpen) {
		t.Errorf("expected OPEN_FAILED, got %v", apperrors.Classify(err))
	}
}

func TestListSheets(t *testing.T) {
	path := buildWorkbook(t, []string{"Первый", "Второй"}, map[string]map[string]interface{}{
		"Первый": {"A1": "1"},
		"Второй": {"A1": "2"},
	})

	sheets, err := ListSheets(path)
	if err != nil {
		t.Fatalf("ListSheets returned error: %v", err)
	}
	if len(sheets) != 2 || sheets[0] != "Первый" || sheets[1] != "Второй" {
		t.Errorf("unexpected sheet list: %v", sheets)
	}
}
