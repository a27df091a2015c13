package cmd

import (
	"fmt"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/publish"
	"github.com/spf13/cobra"
)

var (
	publishCompress bool
	publishDriver   string
)

var publishCmd = &cobra.Command{
	Use:   "publish <course-file>",
	Short: "Publish a course file to the configured sink",
	Long: `Copy a course file to the publish sink (a directory or an S3 bucket,
see publish.driver) under its export file name.

Examples:
  coursekit publish course.json
  coursekit publish --compress --driver s3 course.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().BoolVarP(&publishCompress, "compress", "z", false, "gzip the published file")
	publishCmd.Flags().StringVar(&publishDriver, "driver", "", "publish driver: fs or s3 (overrides publish.driver)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	f, err := courseio.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read course: %w", err)
	}

	cfg := config.GetPublishConfig()
	if publishDriver != "" {
		cfg.Driver = publishDriver
	}
	sink, err := publish.NewSink(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	location, err := publish.Course(cmd.Context(), sink, f, publishCompress)
	if err != nil {
		return err
	}
	Logger.Debug("Published course", "driver", sink.Driver(), "location", location)
	fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %s\n", args[0], location)
	return nil
}
