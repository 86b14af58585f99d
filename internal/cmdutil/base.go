// Package cmdutil holds helpers shared by the exporting commands: output path
// setup and writing rows to the configured datastore.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ExportConfig holds the output locations of one export run
type ExportConfig struct {
	Name         string // base file name, e.g. "movie-popular"
	JSONOutput   string
	WriteJSON    bool
	PosterDir    string
	WritePosters bool
}

// SetupExportPaths fills in default output paths and creates their directories.
// JSON defaults to {jsonoutputdir}/{Name}.json and posters to
// {posteroutputdir}/{Name}.
func SetupExportPaths(cfg *ExportConfig) error {
	if cfg.WriteJSON && cfg.JSONOutput == "" {
		jsonBaseDir := viper.GetString("jsonoutputdir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		cfg.JSONOutput = filepath.Clean(filepath.Join(jsonBaseDir, cfg.Name+".json"))
	}

	if cfg.WritePosters && cfg.PosterDir == "" {
		posterBaseDir := viper.GetString("posteroutputdir")
		if posterBaseDir == "" {
			posterBaseDir = "posters"
		}
		cfg.PosterDir = filepath.Clean(filepath.Join(posterBaseDir, cfg.Name))
	}

	if cfg.WriteJSON {
		if err := os.MkdirAll(filepath.Dir(cfg.JSONOutput), 0755); err != nil {
			return fmt.Errorf("failed to create JSON output directory: %w", err)
		}
	}

	if cfg.WritePosters {
		if err := os.MkdirAll(cfg.PosterDir, 0755); err != nil {
			return fmt.Errorf("failed to create poster directory: %w", err)
		}
	}

	return nil
}
