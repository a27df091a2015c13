package cmd

import (
	"fmt"
	"time"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/spf13/cobra"
)

var (
	exportDir      string
	exportCompress bool
)

var exportCmd = &cobra.Command{
	Use:   "export <course-file>",
	Short: "Re-export a course file with fresh stats",
	Long: `Load a course file into an editor and export it again, the way the
editor's export button does: stats are recomputed, the timestamp is
renewed and the file is named after it.

Examples:
  coursekit export old-course.json
  coursekit export --compress --dir ./out course.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "output directory (overrides export.outputDir)")
	exportCmd.Flags().BoolVarP(&exportCompress, "compress", "z", false, "gzip the output (default from export.compress)")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, _, err := loadEditor(args[0])
	if err != nil {
		return err
	}

	cfg := config.GetExportConfig()
	if exportDir != "" {
		cfg.OutputDir = exportDir
	}
	if cmd.Flags().Changed("compress") {
		cfg.Compress = exportCompress
	}

	path, err := courseio.WriteFile(cfg.OutputDir, e.Export(time.Now()), cfg.Compress)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cones to %s\n", e.Stats().ConeCount, path)
	return nil
}
