// Package fileutil writes exporter output files: JSON listings, markdown
// digests and poster file names.
package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// GetMarkdownFilePath returns the markdown file path for a given name
func GetMarkdownFilePath(name string, directory string) string {
	return filepath.Join(directory, SanitizeFilename(name)+".md")
}

// SanitizeFilename cleans a filename by replacing problematic characters
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return name
}

// PosterFilename is the local file name of a title's poster, e.g. "Alien (1979).jpg".
func PosterFilename(title string, year int) string {
	if year > 0 {
		return fmt.Sprintf("%s (%d).jpg", SanitizeFilename(title), year)
	}
	return SanitizeFilename(title) + ".jpg"
}

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

// WriteMarkdownFile writes a markdown document unless it exists and overwrite is false
func WriteMarkdownFile(filePath string, content string, overwrite bool) error {
	written, err := WriteFileWithOverwrite(filePath, []byte(content), 0644, overwrite)
	if err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	if !written {
		slog.Info("Markdown file already exists, skipping", "filename", filePath)
	}
	return nil
}

// WriteJSONFile writes data as indented JSON to a file, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	slog.Info("Writing JSON file", "filename", filePath, "overwrite", overwrite)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return false, fmt.Errorf("failed to write JSON file: %w", err)
	}

	return true, nil
}
