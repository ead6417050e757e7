package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pivotprep/internal/config"
	"pivotprep/internal/infrastructure"
	"pivotprep/internal/report"
	"pivotprep/internal/ui"
	"pivotprep/pkg/contracts"
)

var (
	version = contracts.Version
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("pivotprep %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout, so logs go to a file
	cfg.Logging.Output = "file"
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/pivotprep.log"
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось открыть файл журнала: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	catalog, err := report.LoadCatalog(cfg.Reports.CatalogFile)
	if err != nil {
		logger.Error("failed to load report catalog", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Ошибка каталога отчетов: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting terminal ui",
		slog.String("version", version),
		slog.Int("reports", len(catalog.Reports)))

	p := tea.NewProgram(ui.New(cfg, catalog), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("terminal ui failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
