package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSchemaFileNames are looked up, in order, when a directory is given
var DefaultSchemaFileNames = []string{
	"schema.yaml",
	"schema.yml",
	"schema.json",
	".schemascan/schema.yaml",
	".schemascan/schema.json",
}

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// IsSchemaFile checks if a path has a schema snapshot extension
func (h *FileHelper) IsSchemaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".yaml" || ext == ".yml"
}

// ResolveSchemaPath returns path itself for a file, or the schema snapshot
// found inside it for a directory
func (h *FileHelper) ResolveSchemaPath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		if !h.IsSchemaFile(path) {
			return "", fmt.Errorf("%s is not a JSON or YAML schema file", path)
		}
		return path, nil
	}

	for _, name := range DefaultSchemaFileNames {
		candidate := filepath.Join(path, name)
		if exists, err := h.FileExists(candidate); err == nil && exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no schema file found in %s (looked for %s)", path, strings.Join(DefaultSchemaFileNames, ", "))
}
