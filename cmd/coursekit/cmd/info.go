package cmd

import (
	"fmt"

	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/internal/measure"
	"github.com/conecourse/editor/pkg/core"
	"github.com/spf13/cobra"
)

var showWKT bool

var infoCmd = &cobra.Command{
	Use:   "info <course-file>",
	Short: "Show a summary of a course file",
	Long: `Read a course file (plain or gzip compressed JSON) and print the cone
count per type, the path length and the stored view and grid settings.

Examples:
  coursekit info course.json
  coursekit info --wkt course.json.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&showWKT, "wkt", false, "print the cone path as a WKT LineString")
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := courseio.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read course: %w", err)
	}

	out := cmd.OutOrStdout()
	positions := f.Positions()
	length := geo.PathLength(positions)

	kinds := make(map[core.ConeKind]int)
	for _, c := range f.Cones {
		kinds[c.Type]++
	}

	fmt.Fprintf(out, "Course: %s\n", args[0])
	fmt.Fprintf(out, "  Cones:       %d\n", len(f.Cones))
	for _, k := range []core.ConeKind{core.Regular, core.LaidDown, core.Pointer} {
		if kinds[k] > 0 {
			fmt.Fprintf(out, "    %-16s %d\n", k.String()+":", kinds[k])
		}
	}
	fmt.Fprintf(out, "  Path length: %s (%.2f m)\n", measure.FormatFeet(length), length)
	fmt.Fprintf(out, "  Lines:       %d\n", len(f.Lines))

	if f.MapCenter != nil {
		fmt.Fprintf(out, "  Map center:  %.6f, %.6f (zoom %g)\n", f.MapCenter.Lat, f.MapCenter.Lng, f.MapZoom)
	}
	if g := f.GridSettings; g != nil {
		state := "off"
		if g.Enabled {
			state = "on"
		}
		fmt.Fprintf(out, "  Grid:        %s, %g ft, %g°\n", state, g.Size, g.Rotation)
	}
	if f.Timestamp != "" {
		fmt.Fprintf(out, "  Exported:    %s\n", f.Timestamp)
	}

	if verbose {
		fmt.Fprintln(out)
		for i, c := range f.Cones {
			fmt.Fprintf(out, "  [%3d] %-16s %.7f, %.7f  %6.1f°\n", i, c.Type, c.LatLng.Lat, c.LatLng.Lng, c.Angle)
		}
	}

	if showWKT {
		fmt.Fprintln(out)
		fmt.Fprintln(out, geo.PathWKT(positions))
	}
	return nil
}
