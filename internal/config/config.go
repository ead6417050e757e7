package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Computed ComputedConfig `yaml:"computed" envconfig:"COMPUTED"`
	Reports  ReportsConfig  `yaml:"reports" envconfig:"REPORTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	InputDir      string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir     string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig controls the normalization pipeline
type PipelineConfig struct {
	// SearchRows bounds the header scan; values <= 0 scan the whole grid
	SearchRows int `yaml:"search_rows" envconfig:"SEARCH_ROWS"`
	// CleanedSheet is the sheet name the normalized table is written to
	CleanedSheet string `yaml:"cleaned_sheet" envconfig:"CLEANED_SHEET"`
	// Workers bounds batch-mode parallelism
	Workers int `yaml:"workers" envconfig:"WORKERS"`
}

// ComputedConfig names the columns the field computer reads and derives.
// The derivation only activates when the product, dosage and group columns
// are all present in the normalized table.
type ComputedConfig struct {
	ProductColumn  string `yaml:"product_column" envconfig:"PRODUCT_COLUMN"`
	DosageColumn   string `yaml:"dosage_column" envconfig:"DOSAGE_COLUMN"`
	GroupColumn    string `yaml:"group_column" envconfig:"GROUP_COLUMN"`
	CombinedColumn string `yaml:"combined_column" envconfig:"COMBINED_COLUMN"`
	RollupColumn   string `yaml:"rollup_column" envconfig:"ROLLUP_COLUMN"`
}

// ReportsConfig controls the report specification catalog
type ReportsConfig struct {
	// CatalogFile points to a YAML catalog replacing the built-in
	// specifications; empty means use the built-ins
	CatalogFile string `yaml:"catalog_file" envconfig:"CATALOG_FILE"`
}

// DefaultConfig returns the built-in configuration. The computed-column
// defaults match the upstream medication exports this tool was written for;
// they are plain data and can be overridden per deployment.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: "logs/pivotprep.log",
		},
		Paths: PathsConfig{
			InputDir:  "data/input",
			OutputDir: "data/output",
			LogsDir:   "logs",
		},
		Pipeline: PipelineConfig{
			SearchRows:   15,
			CleanedSheet: "Исходный лист",
			Workers:      4,
		},
		Computed: ComputedConfig{
			ProductColumn:  "МНН",
			DosageColumn:   "Дозировка",
			GroupColumn:    "УНРЗ",
			CombinedColumn: "МНН+Дозировка",
			RollupColumn:   "Схема на УРНЗ",
		},
		Reports: ReportsConfig{},
	}
}

// Load loads configuration with precedence defaults < config file < environment.
// The config file is optional; its location comes from PIVOTPREP_CONFIG or
// config.yaml next to the executable. When no report catalog is configured,
// reports.yaml next to the executable is used if present.
func Load() (*Config, error) {
	cfg, err := LoadFromFile(getConfigFilePath())
	if err != nil {
		return nil, err
	}

	if cfg.Reports.CatalogFile == "" {
		if paths, err := GetPaths(); err == nil {
			cfg.Reports.CatalogFile = paths.CatalogFile
		}
	}
	return cfg, nil
}

// LoadFromFile is Load with an explicit config file path. An empty path or a
// missing file skips the file layer.
func LoadFromFile(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
			}
		}
	}

	// Environment variables win over the file
	if err := envconfig.Process("PIVOTPREP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// getConfigFilePath resolves the optional config file location
func getConfigFilePath() string {
	if path := os.Getenv("PIVOTPREP_CONFIG"); path != "" {
		return path
	}
	if paths, err := GetPaths(); err == nil {
		return paths.ConfigFile
	}
	return "config.yaml"
}

// validate checks the configuration for values the pipeline cannot run with
func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q (want stdout, file or both)", c.Logging.Output)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}

	if c.Pipeline.CleanedSheet == "" {
		return fmt.Errorf("pipeline.cleaned_sheet must not be empty")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers)
	}

	computed := map[string]string{
		"computed.product_column":  c.Computed.ProductColumn,
		"computed.dosage_column":   c.Computed.DosageColumn,
		"computed.group_column":    c.Computed.GroupColumn,
		"computed.combined_column": c.Computed.CombinedColumn,
		"computed.rollup_column":   c.Computed.RollupColumn,
	}
	for key, value := range computed {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	if c.Computed.CombinedColumn == c.Computed.RollupColumn {
		return fmt.Errorf("computed.combined_column and computed.rollup_column must differ")
	}

	return nil
}
