package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pivotprep/internal/config"
	apperrors "pivotprep/internal/errors"
	"pivotprep/internal/infrastructure"
	"pivotprep/internal/report"
	"pivotprep/internal/table"
	"pivotprep/internal/validation"
	"pivotprep/internal/xlsx"
)

// DefaultCleanedSheet is the worksheet name the normalized table is written
// to when the caller does not configure one.
const DefaultCleanedSheet = "Исходный лист"

// totalSteps is the number of pipeline steps reported through OnProgress
const totalSteps = 9

// ProgressFunc receives a notification after each completed pipeline step
type ProgressFunc func(step string, completed, total int)

// Params describes one pipeline run.
type Params struct {
	InputPath  string
	OutputPath string
	// SheetName selects the source worksheet; empty means the first one
	SheetName string
	// Reports are the specifications to validate, coerce for and render
	Reports []report.Specification

	// SearchRows bounds the header scan; 0 means the default, negative
	// scans the whole grid
	SearchRows int
	// CleanedSheet is the output worksheet for the normalized table
	CleanedSheet string
	// Computed names the source and derived columns of the field computer
	Computed table.ComputedColumns

	// OnProgress, when set, is called after every completed step
	OnProgress ProgressFunc
}

// Result summarizes a completed run.
type Result struct {
	InputPath  string
	OutputPath string
	Header     table.HeaderLocation
	Rows       int
	Columns    int
	Reports    []string
	Duration   time.Duration
}

// NewParams builds run parameters from the application configuration plus
// the per-run choices.
func NewParams(cfg *config.Config, input, output, sheet string, specs []report.Specification) Params {
	return Params{
		InputPath:    input,
		OutputPath:   output,
		SheetName:    sheet,
		Reports:      specs,
		SearchRows:   cfg.Pipeline.SearchRows,
		CleanedSheet: cfg.Pipeline.CleanedSheet,
		Computed: table.ComputedColumns{
			Product:  cfg.Computed.ProductColumn,
			Dosage:   cfg.Computed.DosageColumn,
			Group:    cfg.Computed.GroupColumn,
			Combined: cfg.Computed.CombinedColumn,
			Rollup:   cfg.Computed.RollupColumn,
		},
	}
}

// DefaultComputedColumns returns the column names of the upstream medication
// exports; they apply when Params carries no computed-column configuration.
func DefaultComputedColumns() table.ComputedColumns {
	return table.ComputedColumns{
		Product:  "МНН",
		Dosage:   "Дозировка",
		Group:    "УНРЗ",
		Combined: "МНН+Дозировка",
		Rollup:   "Схема на УРНЗ",
	}
}

// Run executes the whole normalization and reporting pipeline: read the
// source worksheet, locate the header, shrink to it, forward-fill, derive
// computed fields, validate and coerce for every selected report, write the
// cleaned sheet and render one pivot sheet per report.
//
// Steps run strictly in order and the first failure aborts the run; nothing
// is retried and no partial report set is rendered. A panic anywhere in the
// run surfaces as an INTERNAL error instead of crashing the caller.
func Run(ctx context.Context, params Params) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = apperrors.NewInternalError(fmt.Errorf("panic: %v", rec))
		}
	}()

	params = withDefaults(params)

	logger := infrastructure.LoggerWithContext(ctx).With(slog.String("component", "pipeline"))
	r := &runner{logger: logger, progress: params.OnProgress, total: totalSteps}

	start := time.Now()
	logger.Info("pipeline started",
		slog.String("input", params.InputPath),
		slog.String("output", params.OutputPath),
		slog.String("sheet", params.SheetName),
		slog.Int("reports", len(params.Reports)))

	validator := validation.NewFileValidator(logger)
	if err := r.step(ctx, "validate_paths", func() error {
		if err := validator.ValidateInputFile(params.InputPath); err != nil {
			return err
		}
		return validator.ValidateOutputFile(params.OutputPath)
	}); err != nil {
		return nil, err
	}

	var grid table.Grid
	if err := r.step(ctx, "read", func() error {
		var err error
		grid, err = xlsx.ReadGrid(params.InputPath, params.SheetName)
		return err
	}); err != nil {
		return nil, err
	}

	var header table.HeaderLocation
	if err := r.step(ctx, "locate_header", func() error {
		var err error
		header, err = table.LocateHeader(grid, params.SearchRows)
		return err
	}); err != nil {
		return nil, err
	}
	logger.Info("header located",
		slog.Int("row", header.Row),
		slog.Int("start_col", header.StartCol),
		slog.Int("end_col", header.EndCol))

	var tbl table.Table
	if err := r.step(ctx, "shrink", func() error {
		tbl = table.ShrinkToHeader(grid, header)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, "fill_missing", func() error {
		tbl = table.FillMissing(tbl)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, "compute_fields", func() error {
		tbl = table.AddComputedFields(tbl, params.Computed)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, "prepare_reports", func() error {
		columns := tbl.Columns()
		for _, spec := range params.Reports {
			if err := report.ValidateFieldsExist(columns, spec); err != nil {
				return err
			}
			var err error
			tbl, err = report.CastValueTypes(tbl, spec)
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, "write_cleaned", func() error {
		return xlsx.WriteTable(tbl, params.OutputPath, params.CleanedSheet)
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, "render_reports", func() error {
		return xlsx.RenderPivots(params.OutputPath, params.CleanedSheet, tbl, params.Reports)
	}); err != nil {
		return nil, err
	}

	names := make([]string, len(params.Reports))
	for i, spec := range params.Reports {
		names[i] = spec.Name
	}

	result = &Result{
		InputPath:  params.InputPath,
		OutputPath: params.OutputPath,
		Header:     header,
		Rows:       tbl.NumRows(),
		Columns:    tbl.NumCols(),
		Reports:    names,
		Duration:   time.Since(start),
	}
	logger.Info("pipeline finished",
		slog.Int("rows", result.Rows),
		slog.Int("columns", result.Columns),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func withDefaults(p Params) Params {
	if p.SearchRows == 0 {
		p.SearchRows = table.DefaultSearchRows
	}
	if p.CleanedSheet == "" {
		p.CleanedSheet = DefaultCleanedSheet
	}
	if p.Computed == (table.ComputedColumns{}) {
		p.Computed = DefaultComputedColumns()
	}
	return p
}

// runner tracks step completion for logging and progress reporting
type runner struct {
	logger    *slog.Logger
	progress  ProgressFunc
	completed int
	total     int
}

func (r *runner) step(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := fn(); err != nil {
		r.logger.Error("pipeline step failed",
			slog.String("step", name),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}

	r.completed++
	r.logger.Debug("pipeline step completed",
		slog.String("step", name),
		slog.Duration("duration", time.Since(start)))
	if r.progress != nil {
		r.progress(name, r.completed, r.total)
	}
	return nil
}
