package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pivotprep/internal/config"
	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/report"
)

func writeWorkbook(t *testing.T, path, sheet string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

// exportRows mimics a real upstream export: a title line and a blank row
// above the header, forward-fillable gaps and a formatted number below it.
func exportRows() [][]string {
	return [][]string{
		{"Отчет сформирован 01.02.2025"},
		{},
		{"МНН", "Дозировка", "УНРЗ", "Потребность на год (ЕИ)"},
		{"Апиксабан", "5 мг", "100001", "30"},
		{"", "2.5 мг", "100001", "45"},
		{"Ривароксабан", "10 мг", "100002", "1,250"},
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "result.xlsx")
	writeWorkbook(t, input, "Данные", exportRows())

	result, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: output,
		Reports:    report.DefaultCatalog().Reports,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, input, result.InputPath)
	assert.Equal(t, output, result.OutputPath)
	assert.Equal(t, 2, result.Header.Row)
	assert.Equal(t, 0, result.Header.StartCol)
	assert.Equal(t, 3, result.Header.EndCol)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 6, result.Columns)
	assert.Equal(t, []string{"Потребность в препаратах", "Схемы"}, result.Reports)
	assert.Positive(t, result.Duration)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	assert.True(t, sheets["Исходный лист"], "cleaned sheet missing")
	assert.True(t, sheets["Потребность в препаратах"], "demand report sheet missing")
	assert.True(t, sheets["Схемы"], "schemes report sheet missing")

	rows, err := f.GetRows("Исходный лист")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{
		"МНН", "Дозировка", "УНРЗ", "Потребность на год (ЕИ)",
		"МНН+Дозировка", "Схема на УРНЗ",
	}, rows[0])
	assert.Equal(t, []string{
		"Апиксабан", "5 мг", "100001", "30", "Апиксабан, 5 мг",
	}, rows[1])
	assert.Equal(t, []string{
		"Апиксабан", "2.5 мг", "100001", "45", "Апиксабан, 2.5 мг",
		"Апиксабан, 5 мг; Апиксабан, 2.5 мг",
	}, rows[2])
	assert.Equal(t, []string{
		"Ривароксабан", "10 мг", "100002", "1250", "Ривароксабан, 10 мг",
		"Ривароксабан, 10 мг",
	}, rows[3])

	pivots, err := f.GetPivotTables("Потребность в препаратах")
	require.NoError(t, err)
	require.Len(t, pivots, 1)
	assert.Len(t, pivots[0].Data, 2)
}

func TestRun_NoReports(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "result.xlsx")
	writeWorkbook(t, input, "Данные", exportRows())

	result, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: output,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Reports)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Исходный лист"}, f.GetSheetList())
}

func TestRun_MissingFields(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "result.xlsx")
	writeWorkbook(t, input, "Данные", [][]string{
		{"МНН", "Дозировка", "Потребность на год (ЕИ)"},
		{"Апиксабан", "5 мг", "30"},
	})

	_, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: output,
		Reports:    report.DefaultCatalog().Reports,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFields))
	assert.NoFileExists(t, output, "failed validation must not produce output")
}

func TestRun_SheetNotFound(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	writeWorkbook(t, input, "Данные", exportRows())

	_, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "result.xlsx"),
		SheetName:  "Нет такого",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSheet))
}

func TestRun_EmptySheet(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	writeWorkbook(t, input, "Данные", nil)

	_, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "result.xlsx"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeHeader))
}

func TestRun_CoercionFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	output := filepath.Join(dir, "result.xlsx")
	rows := exportRows()
	rows[5][3] = "тридцать"
	writeWorkbook(t, input, "Данные", rows)

	_, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: output,
		Reports:    report.DefaultCatalog().Reports,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeCoercion))
	assert.NoFileExists(t, output)
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(context.Background(), Params{
		InputPath:  filepath.Join(dir, "нет.xlsx"),
		OutputPath: filepath.Join(dir, "result.xlsx"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeOpen))
}

func TestRun_Progress(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	writeWorkbook(t, input, "Данные", exportRows())

	var steps []string
	var counts []int
	_, err := Run(context.Background(), Params{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "result.xlsx"),
		Reports:    report.DefaultCatalog().Reports,
		OnProgress: func(step string, completed, total int) {
			steps = append(steps, step)
			counts = append(counts, completed)
			assert.Equal(t, totalSteps, total)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"validate_paths", "read", "locate_header", "shrink", "fill_missing",
		"compute_fields", "prepare_reports", "write_cleaned", "render_reports",
	}, steps)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, counts)
}

func TestRun_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")
	writeWorkbook(t, input, "Данные", exportRows())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Params{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "result.xlsx"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewParams(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pipeline.SearchRows = 7
	cfg.Pipeline.CleanedSheet = "Чистые данные"
	cfg.Computed.ProductColumn = "Препарат"

	specs := report.DefaultCatalog().Reports
	params := NewParams(&cfg, "in.xlsx", "out.xlsx", "Лист1", specs)

	assert.Equal(t, "in.xlsx", params.InputPath)
	assert.Equal(t, "out.xlsx", params.OutputPath)
	assert.Equal(t, "Лист1", params.SheetName)
	assert.Equal(t, specs, params.Reports)
	assert.Equal(t, 7, params.SearchRows)
	assert.Equal(t, "Чистые данные", params.CleanedSheet)
	assert.Equal(t, "Препарат", params.Computed.Product)
	assert.Equal(t, "Дозировка", params.Computed.Dosage)
}
