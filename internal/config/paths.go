package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the well-known application paths.
// All paths resolve relative to the executable directory, never the current
// working directory, so the tool behaves the same from a shortcut, a
// terminal or a scheduler.
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputDir      string
	OutputDir     string
	LogsDir       string

	// Optional config files next to the executable
	ConfigFile  string
	CatalogFile string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the path set rooted at the given directory. Split out of
// GetPaths so tests can root it at a temp dir.
func PathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		InputDir:      filepath.Join(dataDir, "input"),
		OutputDir:     filepath.Join(dataDir, "output"),
		LogsDir:       filepath.Join(baseDir, "logs"),
		ConfigFile:    filepath.Join(baseDir, "config.yaml"),
		CatalogFile:   filepath.Join(baseDir, "reports.yaml"),
	}
}

// EnsureDirectories creates every directory the application writes to
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.InputDir, p.OutputDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path of a named log file inside the logs directory
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
