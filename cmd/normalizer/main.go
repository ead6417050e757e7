package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"pivotprep/internal/config"
	"pivotprep/internal/infrastructure"
	"pivotprep/internal/pipeline"
	"pivotprep/internal/report"
	"pivotprep/internal/validation"
	"pivotprep/pkg/contracts"
)

func main() {
	in := flag.String("in", "", "input workbook or a directory of workbooks")
	out := flag.String("out", "", "output workbook or directory (defaults next to the input)")
	sheet := flag.String("sheet", "", "source worksheet name (defaults to the first sheet)")
	reports := flag.String("reports", "", "comma-separated report names (defaults to every catalog report)")
	configFile := flag.String("config", "", "config file path (defaults to config.yaml next to the executable)")
	workers := flag.Int("workers", 0, "parallel workers in directory mode (defaults from config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: normalizer -in <file.xlsx|dir> [-out <file.xlsx|dir>] [-sheet name] [-reports a,b]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFromFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	catalog, err := report.LoadCatalog(cfg.Reports.CatalogFile)
	if err != nil {
		logger.Error("Failed to load report catalog", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	specs := catalog.Reports
	if *reports != "" {
		specs, err = catalog.Select(splitNames(*reports))
		if err != nil {
			logger.Error("Unknown report requested", slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	info, err := os.Stat(*in)
	if err != nil {
		logger.Error("Cannot read input path", slog.String("path", *in), slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: cannot read input path %q: %v\n", *in, err)
		os.Exit(1)
	}

	logger.Info("Starting normalization",
		slog.String("input", *in),
		slog.String("version", contracts.Version),
		slog.Int("reports", len(specs)))

	if info.IsDir() {
		runDirectory(cfg, logger, specs, *in, *out, *sheet, *workers)
		return
	}
	runSingle(cfg, specs, *in, *out, *sheet)
}

func runSingle(cfg *config.Config, specs []report.Specification, in, out, sheet string) {
	output := validation.EnsureWorkbookExt(out)
	if output == "" {
		output = deriveOutputPath(in, "")
	} else if isDir(out) {
		output = deriveOutputPath(in, out)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	result, err := pipeline.Run(ctx, pipeline.NewParams(cfg, in, output, sheet, specs))
	if err != nil {
		infrastructure.ErrorContext(ctx, "Processing failed",
			slog.String("file", in),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %s -> %s (rows: %d, reports: %d)\n",
		in, result.OutputPath, result.Rows, len(result.Reports))
}

func runDirectory(cfg *config.Config, logger *slog.Logger, specs []report.Specification, in, out, sheet string, workers int) {
	validator := validation.NewFileValidator(logger)
	files, err := validator.ListWorkbooks(in)
	if err != nil {
		logger.Error("Failed to list workbooks", slog.String("dir", in), slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d workbooks\n", len(files))
	if len(files) == 0 {
		logger.Warn("No workbooks found in input directory", slog.String("dir", in))
		return
	}

	outDir := out
	if outDir == "" {
		outDir = in
	}
	if err := validator.ValidateOutputDirectory(outDir); err != nil {
		logger.Error("Output directory is not writable", slog.String("dir", outDir), slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	limit := cfg.Pipeline.Workers
	if workers > 0 {
		limit = workers
	}

	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(limit)

	var mu sync.Mutex
	var failures []string

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			input := filepath.Join(in, file)
			output := deriveOutputPath(input, outDir)

			ctx := infrastructure.ContextWithTraceID(gctx)
			result, err := pipeline.Run(ctx, pipeline.NewParams(cfg, input, output, sheet, specs))
			if err != nil {
				infrastructure.ErrorContext(ctx, "Processing failed",
					slog.String("file", file),
					slog.String("error", err.Error()))
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", file, err))
				mu.Unlock()
				return nil
			}

			infrastructure.InfoContext(ctx, "Processed workbook",
				slog.String("file", file),
				slog.Int("rows", result.Rows),
				slog.Duration("duration", result.Duration))
			fmt.Printf("Processed %s -> %s (rows: %d)\n", file, filepath.Base(output), result.Rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Batch aborted", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processing complete: %d of %d workbooks\n", len(files)-len(failures), len(files))
	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(os.Stderr, "failed: "+failure)
		}
		os.Exit(1)
	}
}

func splitNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// deriveOutputPath names the result workbook after the input, next to it or
// inside dir when given
func deriveOutputPath(input, dir string) string {
	ext := filepath.Ext(input)
	name := strings.TrimSuffix(filepath.Base(input), ext) + "_отчет.xlsx"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
