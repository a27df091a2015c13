package cmd

import (
	"fmt"
	"time"

	"github.com/conecourse/editor/internal/measure"
	"github.com/spf13/cobra"
)

var (
	rotateAngle  float64
	rotateOutput string
)

var rotateCmd = &cobra.Command{
	Use:   "rotate <course-file>",
	Short: "Rotate a whole course about its centroid",
	Long: `Rotate every cone of a course about the centroid of all cones, the same
way a group rotation in the editor does. Cone headings turn with the
course. The file is rewritten in place unless --output is given.

Examples:
  coursekit rotate --angle 90 course.json
  coursekit rotate --angle -12.5 -o turned.json course.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRotate,
}

func init() {
	rootCmd.AddCommand(rotateCmd)

	rotateCmd.Flags().Float64VarP(&rotateAngle, "angle", "a", 0, "rotation in degrees, clockwise")
	rotateCmd.Flags().StringVarP(&rotateOutput, "output", "o", "", "output file (default: overwrite input)")
	rotateCmd.MarkFlagRequired("angle")
}

func runRotate(cmd *cobra.Command, args []string) error {
	e, _, err := loadEditor(args[0])
	if err != nil {
		return err
	}

	e.SelectAll()
	if err := e.StartGroupRotation(); err != nil {
		return err
	}
	if err := e.UpdateGroupRotation(rotateAngle); err != nil {
		e.CancelGroupRotation()
		return err
	}
	e.FinishGroupRotation()

	out := outputPath(args[0], rotateOutput)
	if err := saveCourse(out, e.Export(time.Now())); err != nil {
		return err
	}
	stats := e.Stats()
	Logger.Debug("Rotated course", "input", args[0], "output", out, "angle", rotateAngle)
	fmt.Fprintf(cmd.OutOrStdout(), "Rotated %d cones by %g°, path length %s, wrote %s\n",
		stats.ConeCount, rotateAngle, measure.FormatFeet(stats.PathLength), out)
	return nil
}
