package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/editor"
	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
)

// editorDeps builds the editor settings shared by the server sessions and
// the offline commands.
func editorDeps() editor.Deps {
	cfg := config.GetEditorConfig()
	return editor.Deps{
		Logger:          Logger,
		Projector:       geo.NewMercator(cfg.ReferenceZoom),
		HistoryCapacity: cfg.HistoryCapacity,
		Grid: core.GridSettings{
			Enabled:  cfg.GridEnabled,
			Size:     cfg.GridSize,
			Rotation: cfg.GridRotation,
		},
	}
}

// loadEditor opens a course file in a headless editor.
func loadEditor(path string) (*editor.Editor, courseio.File, error) {
	f, err := courseio.ReadFile(path)
	if err != nil {
		return nil, courseio.File{}, fmt.Errorf("failed to read course: %w", err)
	}
	e := editor.New(editorDeps())
	if err := e.Import(f); err != nil {
		return nil, courseio.File{}, fmt.Errorf("failed to import course: %w", err)
	}
	return e, f, nil
}

// isCompressed reports whether a course path names a gzip file.
func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// saveCourse writes f to path, replacing any existing file.
func saveCourse(path string, f courseio.File) error {
	data, err := courseio.Marshal(f, isCompressed(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write course: %w", err)
	}
	return nil
}

// outputPath returns the --output value, or the input path when unset.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return input
}
