// internal/validation/validation.go
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedFormats defines the container extensions accepted for input and
// output video files.
var SupportedFormats = []string{".mp4", ".mkv", ".mov", ".avi", ".webm"}

// CleanPath trims whitespace and surrounding quotes that file managers add
// when paths are dragged into a terminal.
func CleanPath(input string) string {
	cleaned := strings.TrimSpace(input)
	if len(cleaned) >= 2 {
		if (cleaned[0] == '\'' && cleaned[len(cleaned)-1] == '\'') ||
			(cleaned[0] == '"' && cleaned[len(cleaned)-1] == '"') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}
	return strings.TrimSpace(cleaned)
}

// ValidateInputPath checks that input names an existing, non-empty video
// file in a supported container.
func ValidateInputPath(input string) error {
	cleaned := CleanPath(input)
	if cleaned == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.Contains(cleaned, "..") {
		return fmt.Errorf("path cannot contain '..'")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return fmt.Errorf("invalid path format: %v", err)
	}

	fileInfo, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", absPath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %v", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", absPath)
	}

	if !isSupportedFormat(absPath) {
		return fmt.Errorf("unsupported format %s (supported: %s)",
			filepath.Ext(absPath), strings.Join(SupportedFormats, ", "))
	}

	return nil
}

// ValidateOutputPath checks that output names a writable location in a
// supported container, distinct from the input file.
func ValidateOutputPath(output, input string) error {
	cleaned := CleanPath(output)
	if cleaned == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return fmt.Errorf("invalid path format: %v", err)
	}

	if !isSupportedFormat(absPath) {
		return fmt.Errorf("unsupported output format %s (supported: %s)",
			filepath.Ext(absPath), strings.Join(SupportedFormats, ", "))
	}

	if input != "" {
		absInput, err := filepath.Abs(CleanPath(input))
		if err == nil && absInput == absPath {
			return fmt.Errorf("output path must differ from input path")
		}
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", absPath)
	}

	return nil
}

// ValidateScaleFactor enforces the minimum scale of 1.
func ValidateScaleFactor(scale int) error {
	if scale < 1 {
		return fmt.Errorf("scale factor must be >= 1, got %d", scale)
	}
	return nil
}

func isSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
