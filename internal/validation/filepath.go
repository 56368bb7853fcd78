package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

// FilePathValidator checks file paths taken from configuration.
type FilePathValidator struct {
	// AllowedBaseDirs restricts paths to these directories; empty allows any.
	AllowedBaseDirs []string
	MaxPathLength   int
}

func NewFilePathValidator() *FilePathValidator {
	return &FilePathValidator{MaxPathLength: 4096}
}

func unsafePath(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsafePath, fmt.Sprintf(format, args...))
}

// ValidateFile expands a leading ~/, makes path absolute and rejects
// traversal, control characters and existing directories.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	if path == "" {
		return "", unsafePath("path cannot be empty")
	}
	if v.MaxPathLength > 0 && len(path) > v.MaxPathLength {
		return "", unsafePath("path too long (max %d characters)", v.MaxPathLength)
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", unsafePath("path contains control characters")
		}
	}
	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", unsafePath("directory traversal not allowed")
		}
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", unsafePath("only ~/ is expanded")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if err := v.validateBaseDirs(filepath.Dir(absPath)); err != nil {
		return "", err
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return "", unsafePath("path is a directory, not a file: %s", absPath)
	}

	return absPath, nil
}

func (v *FilePathValidator) validateBaseDirs(dir string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	for _, baseDir := range v.AllowedBaseDirs {
		absBaseDir, err := filepath.Abs(baseDir)
		if err != nil {
			continue
		}
		relPath, err := filepath.Rel(absBaseDir, dir)
		if err != nil {
			continue
		}
		if relPath != ".." && !strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return nil
		}
	}

	return unsafePath("path not within allowed directories: %v", v.AllowedBaseDirs)
}
