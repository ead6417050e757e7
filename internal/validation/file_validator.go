package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "pivotprep/internal/errors"
)

// workbookExtensions lists the workbook formats the reader can open
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks workbook paths before the pipeline touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path names a readable workbook file. All
// failures are OPEN_FAILED so the caller can present them as one kind of
// problem with the source file.
func (v *FileValidator) ValidateInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.NewOpenError("", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("file", path))
		return apperrors.NewOpenError(path, err)
	}
	if err != nil {
		return apperrors.NewOpenError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file", slog.String("path", path))
		return apperrors.NewOpenError(path, nil).WithContext("reason", "directory")
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return apperrors.NewOpenError(path, nil).WithContext("reason", "lock_file")
	}
	if ext := strings.ToLower(filepath.Ext(path)); !workbookExtensions[ext] {
		v.logger.Error("Input file is not a supported workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewOpenError(path, nil).WithContext("extension", ext)
	}

	// Check it is actually readable
	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewOpenError(path, err)
	}
	file.Close()

	return nil
}

// ValidateOutputFile checks that path is a plausible destination for the
// result workbook. Failures are WRITE_FAILED; the file itself may or may not
// exist yet.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.NewWriteError("", nil)
	}
	if ext := strings.ToLower(filepath.Ext(path)); !workbookExtensions[ext] {
		return apperrors.NewWriteError(path, nil).WithContext("extension", ext)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory", slog.String("path", path))
		return apperrors.NewWriteError(path, nil).WithContext("reason", "directory")
	}

	if parent := filepath.Dir(path); parent != "." {
		if info, err := os.Stat(parent); err == nil && !info.IsDir() {
			return apperrors.NewWriteError(path, nil).WithContext("reason", "parent_not_directory")
		}
	}

	return nil
}

// ValidateOutputDirectory ensures the directory exists or can be created and
// is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}

// ListWorkbooks returns the workbook files directly inside dir, sorted by
// name. Spreadsheet lock files ("~$...") are skipped.
func (v *FileValidator) ListWorkbooks(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.NewOpenError(dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewOpenError(dir, nil).WithContext("reason", "not_directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewOpenError(dir, err)
	}

	var books []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if workbookExtensions[strings.ToLower(filepath.Ext(name))] {
			books = append(books, filepath.Join(dir, name))
		}
	}
	sort.Strings(books)

	v.logger.Debug("Workbooks listed",
		slog.String("directory", dir),
		slog.Int("count", len(books)))
	return books, nil
}

// EnsureWorkbookExt appends the default workbook extension when path has no
// recognized one, mirroring how a save dialog completes file names.
func EnsureWorkbookExt(path string) string {
	if path == "" {
		return path
	}
	if workbookExtensions[strings.ToLower(filepath.Ext(path))] {
		return path
	}
	return path + ".xlsx"
}
